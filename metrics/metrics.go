package metrics

import (
  "time"

  "github.com/prometheus/client_golang/prometheus"

  "github.com/robertof/go-parasite-monitor/sensor"
)

var labels = []string{"name", "addr"}

var (
  descSoilMoisture = prometheus.NewDesc(
    "sensor_soil_moisture_ratio",
    "Soil moisture reported by the sensor.",
    labels,
    nil,
  )

  descTemperature = prometheus.NewDesc(
    "sensor_temperature_celsius",
    "Temperature reported by the sensor in Celsius.",
    labels,
    nil,
  )

  descHumidity = prometheus.NewDesc(
    "sensor_humidity_ratio",
    "Relative air humidity reported by the sensor.",
    labels,
    nil,
  )

  descIlluminance = prometheus.NewDesc(
    "sensor_illuminance_lux",
    "Ambient light reported by sensors equipped with a light sensor.",
    labels,
    nil,
  )

  descBatteryVolts = prometheus.NewDesc(
    "sensor_battery_volts",
    "Battery voltage reported by the sensor.",
    labels,
    nil,
  )

  descBattery = prometheus.NewDesc(
    "sensor_battery_ratio",
    "Battery level estimated from the sensor voltage.",
    labels,
    nil,
  )

  descLastSeen = prometheus.NewDesc(
    "sensor_last_seen_timestamp_seconds",
    "Unix time of the last accepted advertisement from the sensor.",
    labels,
    nil,
  )
)

// CollectFunc returns the latest reading of every known sensor, plus the time of the last
// refresh cycle.
type CollectFunc func() (map[sensor.Addr]sensor.Reading, time.Time)

type collector struct {
  CollectFunc
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
  prometheus.DescribeByCollect(c, ch)
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
  out, _ := c.CollectFunc()

  for addr, reading := range out {
    ts := reading.Timestamp
    values := []string{reading.Name(), addr.String()}

    gauge := func(desc *prometheus.Desc, v float64) {
      m := prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v, values...)

      if ts.IsZero() {
        ch <- m
      } else {
        ch <- prometheus.NewMetricWithTimestamp(ts, m)
      }
    }

    gauge(descSoilMoisture, reading.SoilMoisturePercent() / 100)
    gauge(descTemperature, float64(reading.TemperatureCelsius))
    gauge(descHumidity, reading.RelativeHumidity() / 100)

    if reading.HasLightSensor {
      gauge(descIlluminance, float64(reading.Lux))
    }

    gauge(descBatteryVolts, float64(reading.BatteryMilliVolts) / 1000)
    gauge(descBattery, reading.BatteryPercent() / 100)

    if !ts.IsZero() {
      gauge(descLastSeen, float64(ts.UnixMilli()) / 1000)
    }
  }
}

func RegisterCollector(f CollectFunc, reg prometheus.Registerer) {
  c := &collector{f}

  reg.MustRegister(c)
}
