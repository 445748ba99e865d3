package collector

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/robertof/go-parasite-monitor/ble"
	"github.com/robertof/go-parasite-monitor/utils"
)

// Source delivers advertisements until the context is done or the scan fails. It can be
// started again after it returns.
type Source interface {
	Scan(ctx context.Context, onAdvertisement func(ble.Advertisement)) error
}

// Scanner keeps a Source running in the background, feeding a handler.
type Scanner struct {
	source  Source
	handler func(ble.Advertisement)

	running  atomic.Bool
	starts   atomic.Int64
}

func NewScanner(source Source, handler func(ble.Advertisement)) *Scanner {
	return &Scanner{
		source:  source,
		handler: handler,
	}
}

func (s *Scanner) Running() bool {
	return s.running.Load()
}

// Starts counts how many times the scan was started.
func (s *Scanner) Starts() int64 {
	return s.starts.Load()
}

// EnsureRunning starts the scan unless it is already running. Returns whether a new scan was
// started.
func (s *Scanner) EnsureRunning(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	if !s.running.CompareAndSwap(false, true) {
		return false
	}

	n := s.starts.Add(1)

	if n > 1 {
		log.Info().Int64("Starts", n).Msg("Scan was found stopped, restarting it")
	}

	go func() {
		defer s.running.Store(false)

		err := s.source.Scan(ctx, s.handler)

		if err != nil && !utils.IsContextDone(err) {
			log.Warn().Err(err).Msg("Scan stopped with an error")
		} else {
			log.Debug().Err(err).Msg("Scan stopped")
		}
	}()

	return true
}
