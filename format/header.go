package format

import (
	"fmt"
	"time"

	"github.com/robertof/go-parasite-monitor/battery"
)

const headerTimeLayout = "2006/01/02 (Mon) 15:04"

// Header renders the clock row. The host battery icon is appended when hostPct is not nil.
func Header(t time.Time, hostPct *float64) string {
	s := t.Format(headerTimeLayout)

	if hostPct != nil {
		s += "  " + battery.Icon(*hostPct).String()
	}

	return s
}

// Summary renders the row above the readings.
func Summary(accepted, seen int) string {
	return fmt.Sprintf("Devices (%d of %d advertisements)", accepted, seen)
}
