// Package format renders readings as fixed-width status lines.
package format

import (
	"fmt"

	"github.com/robertof/go-parasite-monitor/battery"
	"github.com/robertof/go-parasite-monitor/sensor"
)

const (
	// NameWidth is the column width of the sensor name; longer names are right-truncated.
	NameWidth = 18

	// MaxLineRunes bounds every line produced by Line.
	MaxLineRunes = 96
)

// Line renders a reading, e.g.
//
//	󰂀 Tomato Bed          —  50%, 77.9°F, 55.0%RH, 1200lux
//
// The lux clause is only present for sensors with a light sensor.
func Line(r sensor.Reading) string {
	prefix := fmt.Sprintf("%s %-*.*s  —  %.0f%%, %.1f°F, %.1f%%RH",
		battery.Icon(r.BatteryPercent()),
		NameWidth, NameWidth, r.Name(),
		r.SoilMoisturePercent(),
		r.TemperatureFahrenheit(),
		r.RelativeHumidity(),
	)

	if r.HasLightSensor {
		prefix += fmt.Sprintf(", %dlux", r.Lux)
	}

	return Truncate(prefix, MaxLineRunes)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := 0

	for i := range s {
		if runes == n {
			return s[:i]
		}

		runes++
	}

	return s
}
