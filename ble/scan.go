package ble

import (
	"context"
	"fmt"

	"github.com/go-ble/ble"
	"github.com/rs/zerolog/log"
)

func WrapContextWithSigHandler(ctx context.Context, cancel func()) context.Context {
  return ble.WithSigHandler(ctx, cancel)
}

// Perform an active or passive scan and return every advertisement found, duplicates
// included. Blocks until the context is done or the scan fails.
func (h *Handle) ScanAll(ctx context.Context, onDevice func(Advertisement)) error {
  return h.scan(ctx, true, onDevice)
}

// Scan is like ScanAll but honors FlagAllowDuplicates.
func (h *Handle) Scan(ctx context.Context, onAdvertisement func(Advertisement)) error {
  return h.scan(ctx, h.allowDuplicates, onAdvertisement)
}

func (h *Handle) scan(ctx context.Context, allowDup bool, onAdvertisement func(Advertisement)) error {
  scansStartedCounter.Inc()

  log.Debug().Bool("AllowDuplicates", allowDup).Msg("ble: starting scan")

  err := h.dev.Scan(ctx, allowDup, func(a Advertisement) {
    advertisementsReceivedCounter.Inc()

    // the BLE lib could send an advertisement even after `Scan()` returns. do not waste
    // time processing data if we're done.
    select {
    case <-ctx.Done():
      return
    default:
    }

    onAdvertisement(a)
  })

  if err != nil {
    if ctx.Err() == nil {
      scanFailuresCounter.Inc()
    }

    return fmt.Errorf("failed to scan: %w", err)
  }

  return nil
}
