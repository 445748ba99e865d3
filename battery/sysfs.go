package battery

import (
  "errors"
  "fmt"
  "os"
  "path/filepath"
  "strconv"
  "strings"
)

const DefaultPowerSupplyDir = "/sys/class/power_supply"

var ErrNoBattery = errors.New("no battery found")

// VoltageReader reports the voltage of the battery powering the display host.
type VoltageReader interface {
  MilliVolts() (uint32, error)
}

// SysfsReader reads voltage_now (in microvolts) from a Linux power supply. When Name is
// empty the first supply of type "Battery" is used.
type SysfsReader struct {
  Dir string
  Name string
}

func (s SysfsReader) dir() string {
  if s.Dir == "" {
    return DefaultPowerSupplyDir
  }

  return s.Dir
}

func (s SysfsReader) supply() (string, error) {
  if s.Name != "" {
    return filepath.Join(s.dir(), s.Name), nil
  }

  entries, err := os.ReadDir(s.dir())
  if err != nil {
    return "", fmt.Errorf("%w: %w", ErrNoBattery, err)
  }

  for _, entry := range entries {
    path := filepath.Join(s.dir(), entry.Name())
    kind, err := readTrimmed(filepath.Join(path, "type"))

    if err == nil && kind == "Battery" {
      return path, nil
    }
  }

  return "", ErrNoBattery
}

func (s SysfsReader) MilliVolts() (uint32, error) {
  path, err := s.supply()
  if err != nil {
    return 0, err
  }

  raw, err := readTrimmed(filepath.Join(path, "voltage_now"))
  if err != nil {
    return 0, fmt.Errorf("%w: %w", ErrNoBattery, err)
  }

  uv, err := strconv.ParseUint(raw, 10, 64)
  if err != nil {
    return 0, fmt.Errorf("failed to parse voltage %q: %w", raw, err)
  }

  return uint32(uv / 1000), nil
}

func readTrimmed(path string) (string, error) {
  b, err := os.ReadFile(path)
  if err != nil {
    return "", err
  }

  return strings.TrimSpace(string(b)), nil
}
