package parasite

import (
  "encoding/binary"
  "time"

  "github.com/robertof/go-parasite-monitor/sensor"
)

const (
  // LocalName is the advertised name of every b-parasite sensor.
  LocalName = "prst"

  SupportedProtocolVersion = 2

  // Addresses below this prefix belong to other devices that happen to advertise as "prst".
  MinAddrPrefix = 0xD0

  PayloadSize = 20
  // Sensors without a light sensor send 16 bytes, the others 18. Shorter service data decodes
  // with the missing bytes zeroed.
  MinPayloadLen = 16
  MinPayloadLenWithLight = 18
)

const (
  offsetFlags = 0
  offsetCounter = 1
  offsetBattery = 2
  offsetTemperature = 4
  offsetHumidity = 6
  offsetSoilMoisture = 8
  offsetAddr = 10
  offsetLux = 16

  flagLightSensor = 0x01
)

// Payload is a bounded copy of the service data carried by an advertisement.
type Payload [PayloadSize]byte

// NewPayload copies at most PayloadSize bytes of data; the rest stays zeroed.
func NewPayload(data []byte) (p Payload) {
  copy(p[:], data)

  return p
}

func ProtocolVersion(p Payload) uint8 {
  return p[offsetFlags] >> 4
}

// Decode turns service data into a reading. It never fails: on an unsupported protocol
// version only ProtocolVersion and Timestamp are set.
func Decode(p Payload, capturedAt time.Time) (r sensor.Reading) {
  bo := binary.BigEndian

  r.ProtocolVersion = ProtocolVersion(p)
  r.Timestamp = capturedAt

  if r.ProtocolVersion != SupportedProtocolVersion {
    return r
  }

  r.HasLightSensor = p[offsetFlags]&flagLightSensor != 0
  r.RunCounter = p[offsetCounter] & 0x0f

  r.BatteryMilliVolts = bo.Uint16(p[offsetBattery:])
  r.TemperatureCelsius = float32(bo.Uint16(p[offsetTemperature:])) / 100.0
  r.Humidity = bo.Uint16(p[offsetHumidity:])
  r.SoilMoisture = bo.Uint16(p[offsetSoilMoisture:])

  copy(r.Addr[:], p[offsetAddr:offsetAddr+len(r.Addr)])

  if r.HasLightSensor {
    r.Lux = bo.Uint16(p[offsetLux:])
  }

  return r
}
