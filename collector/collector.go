package collector

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/robertof/go-parasite-monitor/alias"
	"github.com/robertof/go-parasite-monitor/ble"
	"github.com/robertof/go-parasite-monitor/collector/model"
	"github.com/robertof/go-parasite-monitor/sensor"
	"github.com/robertof/go-parasite-monitor/sensor/parasite"
)

var (
	advertisementsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parasite_monitor_advertisements_total",
		Help: "Advertisements observed, including irrelevant ones.",
	})
	acceptedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parasite_monitor_readings_accepted_total",
		Help: "Advertisements decoded into a valid reading.",
	})
	rejectedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parasite_monitor_advertisements_rejected_total",
		Help: "Advertisements dropped, by reason.",
	}, []string{"reason"})
)

func RegisterMetrics(reg prometheus.Registerer) {
	for _, reason := range model.RejectReasons() {
		rejectedCounter.WithLabelValues(reason.String())
	}

	reg.MustRegister(
		advertisementsCounter,
		acceptedCounter,
		rejectedCounter,
	)
}

// Clock supplies capture timestamps.
type Clock func() time.Time

// Batch is everything accumulated during one refresh interval.
type Batch struct {
	// Seen counts every advertisement observed, valid or not.
	Seen int
	// Readings holds the accepted readings in arrival order.
	Readings []sensor.Reading
}

// Collector filters advertisements and accumulates valid readings until drained. Observe
// is called from the BLE stack while Drain is called from the refresh loop.
type Collector struct {
	Clock Clock

	aliases alias.Lookup

	mu sync.Mutex
	seen int
	readings []sensor.Reading
}

func New(aliases alias.Lookup) *Collector {
	return &Collector{
		Clock: time.Now,
		aliases: aliases,
	}
}

func (c *Collector) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}

	return c.Clock()
}

// Observe runs one advertisement through the filter. Every rejection is silent apart from
// trace logs and counters; the result is returned for callers that care.
func (c *Collector) Observe(a ble.Advertisement) model.Result {
	result := c.filter(a)

	c.mu.Lock()
	c.seen += 1

	if result.Accepted() {
		c.readings = append(c.readings, result.Reading)
	}

	c.mu.Unlock()

	advertisementsCounter.Inc()

	if !result.Accepted() {
		rejectedCounter.WithLabelValues(result.Reason.String()).Inc()

		// name rejects are not logged.
		if result.Reason != model.RejectName {
			if e := log.Trace(); e.Enabled() {
				e.
					Stringer("Reason", result.Reason).
					Str("LocalName", a.LocalName()).
					Interface("ServiceData", a.ServiceData()).
					Msg("collector: dropped advertisement")
			}
		}

		return result
	}

	acceptedCounter.Inc()

	if e := log.Trace(); e.Enabled() {
		e.Stringer("Reading", result.Reading).Msg("collector: accepted reading")
	}

	return result
}

func (c *Collector) filter(a ble.Advertisement) model.Result {
	if a.LocalName() != parasite.LocalName {
		return model.Reject(model.RejectName)
	}

	serviceData := a.ServiceData()

	if len(serviceData) != 1 {
		return model.Reject(model.RejectServiceData)
	}

	payload := parasite.NewPayload(serviceData[0].Data)
	reading := parasite.Decode(payload, c.now())

	switch {
	case reading.ProtocolVersion != parasite.SupportedProtocolVersion:
		return model.Result{Reading: reading, Reason: model.RejectProtocolVersion}
	case reading.BatteryMilliVolts == 0:
		return model.Result{Reading: reading, Reason: model.RejectBattery}
	case reading.Addr[0] < parasite.MinAddrPrefix:
		return model.Result{Reading: reading, Reason: model.RejectAddrPrefix}
	}

	reading.Alias = alias.Resolve(reading.Addr, c.aliases)

	return model.Accept(reading)
}

// Drain returns the current batch and starts a new, empty one.
func (c *Collector) Drain() Batch {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := Batch{
		Seen: c.seen,
		Readings: c.readings,
	}

	c.seen = 0
	c.readings = nil

	return b
}

func (c *Collector) Seen() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.seen
}

func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.readings)
}
