package ble

import (
  "fmt"
  "net"

  "github.com/go-ble/ble"
  "github.com/go-ble/ble/linux"
  "github.com/go-ble/ble/linux/hci/cmd"
  "github.com/robertof/go-parasite-monitor/utils"
  "github.com/rs/zerolog/log"
)

type Advertisement = ble.Advertisement
type ServiceData = ble.ServiceData
type Addr = ble.Addr
type UUID = ble.UUID

type Handle struct {
  dev *linux.Device
  allowDuplicates bool
}

func UUID16(i uint16) ble.UUID {
  return ble.UUID16(i)
}

func Init(deviceId int, flags Flags) (*Handle, error) {
  return InitWithScanParams(
    deviceId,
    ScanParamsDefault,
    flags,
  )
}

func InitWithScanParams(deviceId int, scanParams ScanParams, flags Flags) (*Handle, error) {
  var scanType scanType = scanTypePassive
  var filterPolicy filterPolicy = filterPolicyAcceptAll

  if flags & FlagScanTypeActive == FlagScanTypeActive {
    scanType = scanTypeActive
  }

  if flags & FlagEnableDeviceAllowList == FlagEnableDeviceAllowList {
    filterPolicy = filterPolicyAllowListedOnly
  }

  log.Debug().
    Stringer("ScanType", scanType).
    Stringer("FilterPolicy", filterPolicy).
    Stringer("ScanParams", &scanParams).
    Stringer("Flags", flags).
    Int("DeviceID", deviceId).
    Msg("Initializing Bluetooth device")

  dev, err := linux.NewDevice(
    ble.OptDeviceID(deviceId),
    ble.OptScanParams(scanParams.AdapterOptions(scanType, filterPolicy)),
  )

  if err != nil {
    scanFailuresCounter.Inc()
    return nil, fmt.Errorf("failed to init bluetooth device: %w", err)
  }

  ble.SetDefaultDevice(dev)

  return &Handle{
    dev: dev,
    allowDuplicates: flags & FlagAllowDuplicates == FlagAllowDuplicates,
  }, nil
}

// SetAllowListedAddresses restricts scanning to the given addresses. Only effective when the
// handle was initialized with FlagEnableDeviceAllowList.
func (h *Handle) SetAllowListedAddresses(a []net.HardwareAddr) error {
  log.Debug().
    Array("DeviceAddresses", utils.ToZeroLogArray(a)).
    Msg("Allow-listing the requested Bluetooth devices")

  // clear the white list to make sure we're starting from an empty slate.
  var res cmd.LEClearWhiteListRP

  err := h.dev.HCI.Send(&cmd.LEClearWhiteList{}, &res)

  if err != nil {
    return fmt.Errorf("failed to clear allow-list: %w", err)
  }

  if res.Status != 0 {
    return fmt.Errorf("failed to clear allow-list: got status: %v", res.Status)
  }

  for _, addr := range a {
    if len(addr) != 6 {
      return fmt.Errorf("failed to allow-list device %q: not a 6 byte address", addr.String())
    }

    // HCI wants the address little-endian.
    req := cmd.LEAddDeviceToWhiteList{
      AddressType: addressType(addr),
    }
    copy(req.Address[:], utils.Reverse([]byte(addr)))

    var res cmd.LEAddDeviceToWhiteListRP

    err := h.dev.HCI.Send(&req, &res)

    if err != nil {
      return fmt.Errorf("failed to allow-list device %q: %w", addr.String(), err)
    }

    if res.Status != 0 {
      return fmt.Errorf("failed to allow-list device %q: got status: %v", addr.String(), res.Status)
    }
  }

  return nil
}

// addressType returns 0x01 (random) for random static addresses, whose two most significant
// bits are set, and 0x00 (public) otherwise.
func addressType(addr net.HardwareAddr) uint8 {
  if addr[0] & 0xc0 == 0xc0 {
    return 0x01
  }

  return 0x00
}

func (h *Handle) Stop() error {
  return h.dev.Stop()
}
