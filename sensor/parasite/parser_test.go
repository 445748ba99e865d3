package parasite_test

import (
  "encoding/binary"
  "math"
  "reflect"
  "testing"
  "time"

  "github.com/robertof/go-parasite-monitor/sensor"
  "github.com/robertof/go-parasite-monitor/sensor/parasite"
)

var capturedAt = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func TestDecode_WithLight(t *testing.T) {
  serviceData := []byte{
    0x21, 0x05, // v2 + light, counter 5
    0x0b, 0xb8, // 3000 mV
    0x09, 0xf6, // 25.50 C
    0xd6, 0xd8, // 55000
    0x7f, 0xff, // 32767
    0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
    0x04, 0xb0, // 1200 lux
  }

  got := parasite.Decode(parasite.NewPayload(serviceData), capturedAt)

  want := sensor.Reading{
    ProtocolVersion:    2,
    HasLightSensor:     true,
    RunCounter:         5,
    BatteryMilliVolts:  3000,
    TemperatureCelsius: 25.5,
    Humidity:           55000,
    SoilMoisture:       32767,
    Lux:                1200,
    Addr:               sensor.Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
    Timestamp:          capturedAt,
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("Decode(%x): got %+#v, wanted %+#v", serviceData, got, want)
  }
}

func TestDecode_WithoutLightIgnoresTrailingBytes(t *testing.T) {
  serviceData := []byte{
    0x20, 0xf3, // v2, no light, counter 3 (high nibble ignored)
    0x0a, 0x8c, // 2700 mV
    0x07, 0xd0, // 20.00 C
    0x3a, 0x98, // 15000
    0xff, 0xff, // 65535
    0xd0, 0x01, 0x02, 0x03, 0x04, 0x05,
    0x12, 0x34, // garbage, must not be read as lux
  }

  got := parasite.Decode(parasite.NewPayload(serviceData), capturedAt)

  want := sensor.Reading{
    ProtocolVersion:    2,
    RunCounter:         3,
    BatteryMilliVolts:  2700,
    TemperatureCelsius: 20,
    Humidity:           15000,
    SoilMoisture:       65535,
    Addr:               sensor.Addr{0xd0, 0x01, 0x02, 0x03, 0x04, 0x05},
    Timestamp:          capturedAt,
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("Decode(%x): got %+#v, wanted %+#v", serviceData, got, want)
  }

  if pct := got.SoilMoisturePercent(); math.Abs(pct-100.0) > 1e-9 {
    t.Fatalf("SoilMoisturePercent(): got %v, wanted 100.0", pct)
  }
}

func TestDecode_UnsupportedVersion(t *testing.T) {
  for _, version := range []byte{0, 1, 3, 15} {
    serviceData := []byte{
      version<<4 | 0x01, 0x05,
      0x0b, 0xb8, 0x09, 0xf6, 0xd6, 0xd8, 0x7f, 0xff,
      0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
      0x04, 0xb0,
    }

    got := parasite.Decode(parasite.NewPayload(serviceData), capturedAt)

    want := sensor.Reading{
      ProtocolVersion: version,
      Timestamp:       capturedAt,
    }

    if !reflect.DeepEqual(got, want) {
      t.Fatalf("Decode(%x): got %+#v, wanted %+#v", serviceData, got, want)
    }
  }
}

func TestDecode_ShortPayloadIsZeroFilled(t *testing.T) {
  serviceData := []byte{0x21, 0x01, 0x0b, 0xb8}

  got := parasite.Decode(parasite.NewPayload(serviceData), capturedAt)

  want := sensor.Reading{
    ProtocolVersion:   2,
    HasLightSensor:    true,
    RunCounter:        1,
    BatteryMilliVolts: 3000,
    Timestamp:         capturedAt,
  }

  if !reflect.DeepEqual(got, want) {
    t.Fatalf("Decode(%x): got %+#v, wanted %+#v", serviceData, got, want)
  }
}

func TestNewPayload_Bounded(t *testing.T) {
  long := make([]byte, 64)
  for i := range long {
    long[i] = byte(i + 1)
  }

  p := parasite.NewPayload(long)

  if p[parasite.PayloadSize-1] != parasite.PayloadSize {
    t.Fatalf("NewPayload(): last byte got %d, wanted %d", p[parasite.PayloadSize-1], parasite.PayloadSize)
  }

  if empty := parasite.NewPayload(nil); empty != (parasite.Payload{}) {
    t.Fatalf("NewPayload(nil): got %x, wanted zeroes", empty)
  }
}

func TestDecode_RoundTrip(t *testing.T) {
  for _, want := range []sensor.Reading{
    {
      ProtocolVersion:    2,
      HasLightSensor:     true,
      RunCounter:         15,
      BatteryMilliVolts:  2950,
      TemperatureCelsius: 18.25,
      Humidity:           61234,
      SoilMoisture:       1000,
      Lux:                65535,
      Addr:               sensor.Addr{0xf0, 0x01, 0x02, 0x03, 0x04, 0x05},
      Timestamp:          capturedAt,
    },
    {
      ProtocolVersion:    2,
      BatteryMilliVolts:  3100,
      TemperatureCelsius: 0.5,
      Addr:               sensor.Addr{0xd4, 0x00, 0x00, 0x00, 0x00, 0x01},
      Timestamp:          capturedAt,
    },
  } {
    encoded := encode(want)
    got := parasite.Decode(parasite.NewPayload(encoded), capturedAt)

    if !reflect.DeepEqual(got, want) {
      t.Fatalf("Decode(encode(%v)): got %+#v, wanted %+#v", want, got, want)
    }
  }
}

// encode builds the service data a sensor would send for r.
func encode(r sensor.Reading) []byte {
  bo := binary.BigEndian
  size := parasite.MinPayloadLen

  if r.HasLightSensor {
    size = parasite.MinPayloadLenWithLight
  }

  out := make([]byte, size)
  out[0] = r.ProtocolVersion << 4

  if r.HasLightSensor {
    out[0] |= 0x01
  }

  out[1] = r.RunCounter & 0x0f

  bo.PutUint16(out[2:], r.BatteryMilliVolts)
  bo.PutUint16(out[4:], uint16(r.TemperatureCelsius*100+0.5))
  bo.PutUint16(out[6:], r.Humidity)
  bo.PutUint16(out[8:], r.SoilMoisture)
  copy(out[10:], r.Addr[:])

  if r.HasLightSensor {
    bo.PutUint16(out[16:], r.Lux)
  }

  return out
}
