package ble

import (
  "fmt"
  "slices"

  "github.com/go-ble/ble/linux/hci/cmd"
)

type ScanParams string

const (
  ScanParamsDefault     ScanParams = "default"
  ScanParamsPowerSaving ScanParams = "power-saving"
)

// *flag.Value
func (s *ScanParams) String() string {
  return string(*s)
}

func (s *ScanParams) Set(v string) error {
  if v == "" {
    *s = ScanParamsDefault
    return nil
  }

  allParams := []ScanParams{ScanParamsDefault, ScanParamsPowerSaving}
  p := ScanParams(v)

  if !slices.Contains(allParams, p) {
    return fmt.Errorf("unknown scan param %v (must be one of %v)", p, allParams)
  }

  *s = p
  return nil
}

func (s ScanParams) AdapterOptions(t scanType, f filterPolicy) cmd.LESetScanParameters {
  p := cmd.LESetScanParameters{
    LEScanType:           uint8(t), // 0x00: passive, 0x01: active
    LEScanInterval:       0x009b,   // 0x0004 - 0x4000; N * 0.625msec (~97ms)
    LEScanWindow:         0x003b,   // 0x0004 - 0x4000; N * 0.625msec (~37ms)
    OwnAddressType:       0x00,     // 0x00: public, 0x01: random
    ScanningFilterPolicy: uint8(f), // 0x00: accept all, 0x01: ignore non-allow-listed.
  }

  switch s {
  case ScanParamsDefault:
    break
  case ScanParamsPowerSaving:
    // listen for ~30ms every second.
    p.LEScanInterval = 0x0640 // 1s
    p.LEScanWindow   = 0x0030 // 30ms
  default:
    panic("unknown Bluetooth scan param: " + s)
  }

  return p
}
