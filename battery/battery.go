package battery

// Glyph is a single Nerd Font battery icon.
type Glyph string

const (
  GlyphFull    Glyph = "\U000F0079"
  Glyph90      Glyph = "\U000F0082"
  Glyph80      Glyph = "\U000F0081"
  Glyph70      Glyph = "\U000F0080"
  Glyph60      Glyph = "\U000F007F"
  Glyph50      Glyph = "\U000F007E"
  Glyph40      Glyph = "\U000F007D"
  Glyph30      Glyph = "\U000F007C"
  Glyph20      Glyph = "\U000F007B"
  Glyph10      Glyph = "\U000F007A"
  GlyphOutline Glyph = "\U000F008E"
)

// Two different chemistries: the b-parasite runs off a coin cell, the display host off a
// Li-ion pack.
const (
  sensorMinMilliVolts = 2200.0
  sensorMaxMilliVolts = 3200.0

  hostMinMilliVolts = 3300.0
  hostMaxMilliVolts = 4350.0
)

var thresholds = []struct {
  above float64
  glyph Glyph
}{
  {95, GlyphFull},
  {90, Glyph90},
  {80, Glyph80},
  {70, Glyph70},
  {60, Glyph60},
  {50, Glyph50},
  {40, Glyph40},
  {30, Glyph30},
  {20, Glyph20},
  {10, Glyph10},
}

func (g Glyph) String() string {
  return string(g)
}

// Icon picks the glyph for a battery percentage. The input is not clamped.
func Icon(pct float64) Glyph {
  for _, t := range thresholds {
    if pct > t.above {
      return t.glyph
    }
  }

  return GlyphOutline
}

// SensorPercent converts a sensor battery voltage to a percentage in [0, 100].
func SensorPercent(mv uint16) float64 {
  return linear(float64(mv), sensorMinMilliVolts, sensorMaxMilliVolts)
}

// HostPercent converts the display host battery voltage to a percentage in [0, 100].
func HostPercent(mv uint32) float64 {
  return linear(float64(mv), hostMinMilliVolts, hostMaxMilliVolts)
}

func linear(v, lo, hi float64) float64 {
  pct := (v - lo) / (hi - lo) * 100.0

  return min(max(pct, 0), 100)
}
