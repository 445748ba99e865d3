package main

import (
	"context"
	"encoding/hex"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"

	"github.com/robertof/go-parasite-monitor/ble"
	"github.com/robertof/go-parasite-monitor/sensor/parasite"
	"github.com/robertof/go-parasite-monitor/utils"
)

const discoveryDuration = 5 * time.Second

type deviceInfo struct {
  name string
  connectable bool
  services map[string]bool
  serviceData map[string]string
  sensorAddr string
}

// merge folds an advertisement into the info collected so far for the same device.
func (info *deviceInfo) merge(a ble.Advertisement) {
  if info.name == "" {
    info.name = a.LocalName()
  }

  info.connectable = info.connectable || a.Connectable()

  if info.services == nil {
    info.services = make(map[string]bool)
    info.serviceData = make(map[string]string)
  }

  for _, uuid := range a.Services() {
    info.services[uuid.String()] = true
  }

  for _, sd := range a.ServiceData() {
    info.serviceData[sd.UUID.String()] = hex.EncodeToString(sd.Data)
  }

  if a.LocalName() == parasite.LocalName {
    if addr, ok := sensorAddr(a.ServiceData()); ok {
      info.sensorAddr = addr
    }
  }
}

// sensorAddr returns the address carried by b-parasite service data, if it decodes with the
// supported protocol version.
func sensorAddr(serviceData []ble.ServiceData) (string, bool) {
  if len(serviceData) != 1 {
    return "", false
  }

  data := serviceData[0].Data
  reading := parasite.Decode(parasite.NewPayload(data), time.Now())

  if reading.ProtocolVersion != parasite.SupportedProtocolVersion {
    return "", false
  }

  minLen := parasite.MinPayloadLen

  if reading.HasLightSensor {
    minLen = parasite.MinPayloadLenWithLight
  }

  if len(data) < minLen {
    log.Trace().
      Int("Length", len(data)).
      Int("Expected", minLen).
      Str("SensorAddr", reading.Addr.String()).
      Msg("Short b-parasite service data, missing bytes read as zero")
  }

  return reading.Addr.String(), true
}

func (info *deviceInfo) sortedServices() []string {
  services := maps.Keys(info.services)
  sort.Strings(services)

  return services
}

func doDeviceDiscovery(cfg config) {
  log.Info().
    Dur("Duration", discoveryDuration).
    Msg("Starting in device discovery mode - collecting devices...")

  handle, err := ble.InitWithScanParams(cfg.BluetoothDeviceId, cfg.ScanParams, ble.FlagScanTypeActive)

  if err != nil {
    log.Fatal().Err(err).Msg("Failed to initialize Bluetooth device")
  }

  defer handle.Stop()

  ctx := ble.WrapContextWithSigHandler(
    context.WithTimeout(
      context.Background(),
      discoveryDuration,
    ),
  )

  devices := make(map[string]*deviceInfo)

  err = handle.ScanAll(ctx, func(a ble.Advertisement) {
    addr := a.Addr().String()
    info, ok := devices[addr]

    if !ok {
      info = &deviceInfo{}
      devices[addr] = info
    }

    info.merge(a)

    log.Debug().
      Str("Addr", addr).
      Str("Name", a.LocalName()).
      Bool("Connectable", a.Connectable()).
      Int("RSSI", a.RSSI()).
      Interface("ServiceData", a.ServiceData()).
      Hex("ManufacturerData", a.ManufacturerData()).
      Msg("Received device advertisement")
  })

  if err != nil && !utils.IsContextDone(err) {
    log.Fatal().Err(err).Msg("Failed to initiate scan")
  }

  log.Info().Int("Found", len(devices)).Msg("Finished device discovery")

  addrs := maps.Keys(devices)
  sort.Strings(addrs)

  for _, addr := range addrs {
    data := devices[addr]

    event := log.Info().
      Str("Addr", addr).
      Str("Name", data.name).
      Bool("Connectable", data.connectable).
      Strs("Services", data.sortedServices()).
      Interface("ServiceData", data.serviceData)

    if data.sensorAddr != "" {
      event.
        Str("SensorAddr", data.sensorAddr).
        Msg("Found b-parasite sensor")
    } else {
      event.Msg("Found device")
    }
  }
}
