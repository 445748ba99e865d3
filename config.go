package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/robertof/go-parasite-monitor/alias"
	"github.com/robertof/go-parasite-monitor/ble"
	"github.com/robertof/go-parasite-monitor/collector"
	"github.com/robertof/go-parasite-monitor/publish"
)

const (
	hostBatteryAuto = "auto"
	hostBatteryNone = "none"
)

var errAllowListWithoutAliases = errors.New("-allow-list-aliased requires at least one alias")

type config struct {
  Debug, Trace bool
  BindAddress string
  DiscoverDevices bool
  BluetoothDeviceId int
  ScanParams ble.ScanParams
  AllowListAliased bool
  RefreshInterval time.Duration
  Terminal bool
  HostBattery string
  AliasesFile string
  Aliases alias.Table
  MQTT publish.Config
}

func parseArgs(fs *flag.FlagSet, args []string) (config, error) {
  var cfg config
  var aliasFlags alias.FlagValue

  cfg.ScanParams = ble.ScanParamsDefault

  fs.StringVar(&cfg.BindAddress, "bind", "localhost:9102", "Where the HTTP server (metrics, display) will bind to. Empty to disable")
  fs.IntVar(&cfg.BluetoothDeviceId, "bluetooth-device", 0, "Bluetooth (HCI) device ID")
  fs.Var(&cfg.ScanParams, "scan-params", "Bluetooth scan parameters (one of 'default' or 'power-saving')")
  fs.BoolVar(&cfg.AllowListAliased, "allow-list-aliased", false, "Only scan for sensors that have an alias")
  fs.BoolVar(&cfg.DiscoverDevices, "discover", false, "Discover available BLE devices and quit")
  fs.DurationVar(&cfg.RefreshInterval, "interval", collector.DefaultRefreshInterval, "How frequently the display is refreshed")
  fs.BoolVar(&cfg.Terminal, "terminal", true, "Render the display on stdout")
  fs.StringVar(&cfg.HostBattery, "host-battery", hostBatteryAuto,
    "Power supply shown in the header ('auto' picks the first battery, 'none' disables it)")
  fs.StringVar(&cfg.AliasesFile, "aliases-file", "", "YAML file mapping sensor addresses to names. "+
    "Quote names containing '#' or ': ', or starting with '[', '{', '&', '*', '!' or '|'")
  fs.Var(&aliasFlags, "alias", aliasFlags.Help())
  fs.StringVar(&cfg.MQTT.Broker, "mqtt-broker", "", "MQTT broker URL readings are published to, e.g. tcp://localhost:1883")
  fs.StringVar(&cfg.MQTT.TopicPrefix, "mqtt-topic-prefix", publish.DefaultTopicPrefix, "MQTT topic prefix")
  fs.StringVar(&cfg.MQTT.ClientID, "mqtt-client-id", publish.DefaultClientID, "MQTT client ID")
  fs.BoolVar(&cfg.Debug, "debug", false, "Enable debug logs")
  fs.BoolVar(&cfg.Trace, "trace", false, "Enable trace logs")

  if err := fs.Parse(args); err != nil {
    return cfg, err
  }

  if cfg.RefreshInterval <= 0 {
    return cfg, fmt.Errorf("-interval must be positive, got %v", cfg.RefreshInterval)
  }

  cfg.Aliases = alias.Table{}

  if cfg.AliasesFile != "" {
    fromFile, err := alias.LoadFile(cfg.AliasesFile)
    if err != nil {
      return cfg, err
    }

    cfg.Aliases.Merge(fromFile)
  }

  // flags win over the file.
  cfg.Aliases.Merge(aliasFlags.Table)

  if cfg.AllowListAliased && !cfg.DiscoverDevices && len(cfg.Aliases) == 0 {
    return cfg, errAllowListWithoutAliases
  }

  return cfg, nil
}
