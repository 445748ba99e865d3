package collector_test

import (
	"context"
	"sync"

	ble_mod "github.com/go-ble/ble"

	"github.com/robertof/go-parasite-monitor/ble"
)

// v2, light, counter 5, 3000 mV, 25.50 C, 55000, 32767, D0:11:22:33:44:55, 1200 lux
var sensorPayload = []byte{
	0x21, 0x05, 0x0b, 0xb8, 0x09, 0xf6, 0xd6, 0xd8, 0x7f, 0xff,
	0xd0, 0x11, 0x22, 0x33, 0x44, 0x55, 0x04, 0xb0,
}

func payloadWith(mutate func(p []byte)) []byte {
	p := append([]byte(nil), sensorPayload...)
	mutate(p)

	return p
}

func sensorAdvertisement(payloads ...[]byte) FakeAdvertisement {
	serviceData := make([]ble.ServiceData, len(payloads))

	for i, p := range payloads {
		serviceData[i] = ble.ServiceData{
			UUID: ble.UUID16(0x181a),
			Data: p,
		}
	}

	return FakeAdvertisement{
		name: "prst",
		serviceData: serviceData,
		addr: ble_mod.NewAddr("d0:11:22:33:44:55"),
	}
}

type FakeAdvertisement struct {
	name        string
	serviceData []ble.ServiceData
	addr        ble.Addr
}

func (f FakeAdvertisement) LocalName() string {
	return f.name
}

func (f FakeAdvertisement) ManufacturerData() []byte {
	return nil
}

func (f FakeAdvertisement) ServiceData() []ble.ServiceData {
	return f.serviceData
}

func (f FakeAdvertisement) Services() []ble.UUID {
	return nil
}

func (f FakeAdvertisement) OverflowService() []ble.UUID {
	return nil
}

func (f FakeAdvertisement) TxPowerLevel() int {
	return 0
}

func (f FakeAdvertisement) Connectable() bool {
	return false
}

func (f FakeAdvertisement) SolicitedService() []ble.UUID {
	return nil
}

func (f FakeAdvertisement) RSSI() int {
	return 0
}

func (f FakeAdvertisement) Addr() ble.Addr {
	return f.addr
}

// FakeSource delivers its advertisements once per scan, then blocks until canceled unless
// stopEarly is set.
type FakeSource struct {
	advertisements []ble.Advertisement
	stopEarly      bool

	mu    sync.Mutex
	scans int
}

func (f *FakeSource) Scan(ctx context.Context, onAdvertisement func(ble.Advertisement)) error {
	f.mu.Lock()
	f.scans += 1
	f.mu.Unlock()

	for _, a := range f.advertisements {
		onAdvertisement(a)
	}

	if f.stopEarly {
		return nil
	}

	<-ctx.Done()

	return ctx.Err()
}

func (f *FakeSource) Scans() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.scans
}
