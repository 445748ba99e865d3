package sensor

import (
  "fmt"
  "strings"
  "time"

  "github.com/robertof/go-parasite-monitor/battery"
)

// Reading is a decoded b-parasite sample. Callers must compare ProtocolVersion with the
// supported version before trusting any other field.
type Reading struct {
  ProtocolVersion uint8
  HasLightSensor bool
  RunCounter uint8

  BatteryMilliVolts uint16
  TemperatureCelsius float32
  // Humidity is the raw value: thousandths of a percent.
  Humidity uint16
  // SoilMoisture is the raw value: a 16-bit fraction of full scale.
  SoilMoisture uint16
  // Lux is only meaningful when HasLightSensor is set.
  Lux uint16

  Addr Addr
  Alias string
  Timestamp time.Time
}

func (r Reading) RelativeHumidity() float64 {
  return float64(r.Humidity) / 1000.0
}

func (r Reading) SoilMoisturePercent() float64 {
  return float64(r.SoilMoisture) / 655.35
}

func (r Reading) TemperatureFahrenheit() float64 {
  return float64(r.TemperatureCelsius)*1.8 + 32
}

func (r Reading) BatteryPercent() float64 {
  return battery.SensorPercent(r.BatteryMilliVolts)
}

// Name is the display name of the sensor: its alias if resolved, otherwise its address.
func (r Reading) Name() string {
  if r.Alias != "" {
    return r.Alias
  }

  return r.Addr.String()
}

func (r Reading) String() string {
  fields := []string{
    fmt.Sprintf("Addr=%v", r.Addr),
    fmt.Sprintf("Version=%d", r.ProtocolVersion),
    fmt.Sprintf("Counter=%d", r.RunCounter),
    fmt.Sprintf("Battery=%dmV", r.BatteryMilliVolts),
    fmt.Sprintf("Temperature=%.2fC", r.TemperatureCelsius),
    fmt.Sprintf("Humidity=%.1f%%", r.RelativeHumidity()),
    fmt.Sprintf("Soil=%.1f%%", r.SoilMoisturePercent()),
  }

  if r.HasLightSensor {
    fields = append(fields, fmt.Sprintf("Lux=%d", r.Lux))
  }

  if r.Alias != "" {
    fields = append(fields, fmt.Sprintf("Alias=%q", r.Alias))
  }

  return fmt.Sprintf("Reading[%v]", strings.Join(fields, ","))
}
