package main

import (
	"context"
	"flag"
	"net"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robertof/go-parasite-monitor/battery"
	"github.com/robertof/go-parasite-monitor/ble"
	"github.com/robertof/go-parasite-monitor/collector"
	"github.com/robertof/go-parasite-monitor/display"
	"github.com/robertof/go-parasite-monitor/httpapi"
	"github.com/robertof/go-parasite-monitor/metrics"
	"github.com/robertof/go-parasite-monitor/publish"
	"github.com/robertof/go-parasite-monitor/sensor"
	"github.com/robertof/go-parasite-monitor/utils"
)

func main() {
  zerolog.DurationFieldUnit = time.Second
  zerolog.TimeFieldFormat = time.RFC3339Nano

  log.Logger = log.Output(zerolog.ConsoleWriter{
    Out: os.Stderr,
    TimeFormat: "15:04:05.000",
  })

  cfg, err := parseArgs(flag.CommandLine, os.Args[1:])

  if err != nil {
    log.Fatal().Err(err).Msg("Invalid configuration")
  }

  if cfg.Trace || os.Getenv("TRACE") != "" {
      zerolog.SetGlobalLevel(zerolog.TraceLevel)
  } else if cfg.Debug || os.Getenv("DEBUG") != "" {
      zerolog.SetGlobalLevel(zerolog.DebugLevel)
  } else {
      zerolog.SetGlobalLevel(zerolog.InfoLevel)
  }

  if cfg.DiscoverDevices {
    doDeviceDiscovery(cfg)
    return
  }

  log.Info().
    Str("BindAddr", cfg.BindAddress).
    Array("Aliases", utils.ToZeroLogArray(cfg.Aliases.Addrs())).
    Int("BluetoothDeviceID", cfg.BluetoothDeviceId).
    Stringer("ScanParams", &cfg.ScanParams).
    Dur("Interval", cfg.RefreshInterval).
    Msg("Starting with the specified configuration")

  ctx := ble.WrapContextWithSigHandler(context.WithCancel(context.Background()))

  bleHandle := initBle(cfg)
  defer bleHandle.Stop()

  coll := collector.New(cfg.Aliases)
  scanner := collector.NewScanner(bleHandle, func(a ble.Advertisement) {
    coll.Observe(a)
  })

  frame := &display.Frame{}
  sinks := []display.Sink{frame}

  if cfg.Terminal {
    term := display.NewTerminal(os.Stdout)

    if err := term.Clear(); err != nil {
      log.Warn().Err(err).Msg("Failed to clear the terminal")
    }

    sinks = append(sinks, term)
  }

  refresher := collector.NewRefresher(coll, scanner, display.Tee(sinks...))
  refresher.Host = hostBattery(cfg)

  if cfg.MQTT.Broker != "" {
    pub := publish.NewMQTT(cfg.MQTT)
    defer pub.Close()

    connectCtx, cancel := context.WithTimeout(ctx, 10 * time.Second)

    if err := pub.Connect(connectCtx); err != nil {
      // the client keeps retrying in the background.
      log.Warn().Err(err).Str("Broker", cfg.MQTT.Broker).Msg("MQTT broker not reachable yet")
    }

    cancel()

    refresher.Publisher = pub
  }

  registry := prometheus.NewRegistry()
  registry.MustRegister(
    collectors.NewGoCollector(),
    collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
  )

  ble.RegisterMetrics(registry)
  collector.RegisterMetrics(registry)
  metrics.RegisterCollector(
    func() (map[sensor.Addr]sensor.Reading, time.Time) {
      return refresher.Latest()
    },
    registry,
  )

  g, gctx := errgroup.WithContext(ctx)

  g.Go(func() error {
    return refresher.Start(gctx, cfg.RefreshInterval)
  })

  if cfg.BindAddress != "" {
    g.Go(func() error {
      return httpapi.Serve(gctx, cfg.BindAddress, httpapi.NewRouter(registry, frame, scanner))
    })
  }

  if err := g.Wait(); err != nil && !utils.IsContextDone(err) {
    log.Fatal().Err(err).Msg("Shutting down after a fatal error")
  }

  log.Info().Msg("Bye")
}

func initBle(cfg config) *ble.Handle {
  // b-parasite only sends its name in scan responses, and the same sensor has to be reported
  // on every cycle.
  var bleFlags ble.Flags = ble.FlagScanTypeActive | ble.FlagAllowDuplicates
  var addresses []net.HardwareAddr

  if cfg.AllowListAliased {
    bleFlags |= ble.FlagEnableDeviceAllowList

    for _, addr := range cfg.Aliases.Addrs() {
      addresses = append(addresses, addr.HardwareAddr())
    }
  }

  bleHandle, err := ble.InitWithScanParams(cfg.BluetoothDeviceId, cfg.ScanParams, bleFlags)

  if err != nil {
    log.Fatal().Err(err).Msg("Failed to initialize Bluetooth device")
  }

  if cfg.AllowListAliased {
    if err := bleHandle.SetAllowListedAddresses(addresses); err != nil {
      log.Error().Err(err).Msg("Failed to set device allow list")
    }
  }

  return bleHandle
}

func hostBattery(cfg config) battery.VoltageReader {
  switch cfg.HostBattery {
  case hostBatteryNone:
    return nil
  case hostBatteryAuto, "":
    return battery.SysfsReader{}
  default:
    return battery.SysfsReader{Name: cfg.HostBattery}
  }
}
