package collector

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robertof/go-parasite-monitor/battery"
	"github.com/robertof/go-parasite-monitor/display"
	"github.com/robertof/go-parasite-monitor/format"
	"github.com/robertof/go-parasite-monitor/sensor"
)

const DefaultRefreshInterval = time.Second

// Publisher forwards the readings of each cycle somewhere else. Failures are logged and do not
// affect rendering.
type Publisher interface {
	Publish(ctx context.Context, readings []sensor.Reading) error
}

// Refresher drains the collector once per interval and renders the batch on a sink.
type Refresher struct {
	// Host reports the display host battery, shown in the header. Optional.
	Host battery.VoltageReader
	// Publisher receives every non-empty batch. Optional.
	Publisher Publisher
	Clock Clock

	collector *Collector
	scanner *Scanner
	sink display.Sink

	mu sync.Mutex
	latest map[sensor.Addr]sensor.Reading
	lastCycle time.Time

	lastHeader string
	lastRows int

	started bool
}

func NewRefresher(c *Collector, s *Scanner, sink display.Sink) *Refresher {
	return &Refresher{
		Clock: time.Now,
		collector: c,
		scanner: s,
		sink: sink,
		latest: make(map[sensor.Addr]sensor.Reading),
	}
}

func (s *Refresher) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}

	return s.Clock()
}

// Latest returns the most recent reading of every sensor seen since startup, along with the
// time of the last refresh cycle.
func (s *Refresher) Latest() (map[sensor.Addr]sensor.Reading, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[sensor.Addr]sensor.Reading, len(s.latest))

	for addr, r := range s.latest {
		out[addr] = r
	}

	return out, s.lastCycle
}

func (s *Refresher) hostPercent() *float64 {
	if s.Host == nil {
		return nil
	}

	mv, err := s.Host.MilliVolts()
	if err != nil {
		log.Trace().Err(err).Msg("Host battery unavailable")
		return nil
	}

	pct := battery.HostPercent(mv)

	return &pct
}

func (s *Refresher) draw(row int, text string) {
	if err := s.sink.DrawRow(row, text); err != nil {
		log.Warn().Err(err).Int("Row", row).Msg("Failed to draw row")
	}
}

// Refresh runs a single cycle: restart the scan if needed, drain, render, publish.
func (s *Refresher) Refresh(ctx context.Context) Batch {
	if s.scanner != nil {
		s.scanner.EnsureRunning(ctx)
	}

	now := s.now()

	// the header is only redrawn when its text changes.
	if header := format.Header(now, s.hostPercent()); header != s.lastHeader {
		s.draw(display.RowHeader, header)
		s.lastHeader = header
	}

	batch := s.collector.Drain()

	s.draw(display.RowSummary, format.Summary(len(batch.Readings), batch.Seen))

	for i, r := range batch.Readings {
		s.draw(display.RowFirstReading+i, format.Line(r))
	}

	// blank out rows left over from a longer previous cycle.
	for i := len(batch.Readings); i < s.lastRows; i++ {
		s.draw(display.RowFirstReading+i, "")
	}

	s.lastRows = len(batch.Readings)

	s.mu.Lock()
	for _, r := range batch.Readings {
		s.latest[r.Addr] = r
	}
	s.lastCycle = now
	s.mu.Unlock()

	log.Debug().
		Int("Seen", batch.Seen).
		Int("Accepted", len(batch.Readings)).
		Msg("Refresh cycle finished")

	if s.Publisher != nil && len(batch.Readings) > 0 {
		if err := s.Publisher.Publish(ctx, batch.Readings); err != nil {
			log.Warn().Err(err).Msg("Failed to publish readings")
		}
	}

	return batch
}

// Start refreshes once per interval until the context is canceled.
func (s *Refresher) Start(ctx context.Context, interval time.Duration) error {
	if s.started {
		panic("attempted to call collector.Refresher.Start() twice")
	}

	s.started = true

	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	log.Info().
		Dur("Interval", interval).
		Msg("Starting refresh loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.Refresh(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("Refresh loop is shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
