package domain

import (
	"fmt"
	"math"
)

const (
	// MissingColor is used for missing or negative scores.
	MissingColor = "#999999"

	// MaxScore is the top of the ENEM scale.
	MaxScore = 1000.0

	// MidScore is the seam between the red and blue segments.
	MidScore = 500.0
)

// RGB is a colour with float channels in [0, 255].
type RGB struct {
	R, G, B float64
}

// Segment endpoints of the colour ramp.
var (
	LowStart  = RGB{139, 0, 0}     // #8B0000
	LowEnd    = RGB{255, 160, 122} // #FFA07A
	HighStart = RGB{173, 216, 230} // #ADD8E6
	HighEnd   = RGB{0, 0, 139}     // #00008B
)

// Hex formats the colour as #rrggbb, rounding each channel to the nearest integer.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channelByte(c.R), channelByte(c.G), channelByte(c.B))
}

func channelByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func lerp(from, to RGB, t float64) RGB {
	return RGB{
		R: from.R + t*(to.R-from.R),
		G: from.G + t*(to.G-from.G),
		B: from.B + t*(to.B-from.B),
	}
}

// ScoreRGB interpolates the ramp for a score. ok is false for NaN or negative
// input, in which case the caller should fall back to MissingColor.
func ScoreRGB(value float64) (c RGB, ok bool) {
	if math.IsNaN(value) || value < 0 {
		return RGB{}, false
	}
	value = math.Min(value, MaxScore)

	if value <= MidScore {
		return lerp(LowStart, LowEnd, value/MidScore), true
	}
	return lerp(HighStart, HighEnd, (value-MidScore)/(MaxScore-MidScore)), true
}

// ScoreColor maps a score in [0, 1000] to a hex colour. NaN marks a missing value.
func ScoreColor(value float64) string {
	c, ok := ScoreRGB(value)
	if !ok {
		return MissingColor
	}
	return c.Hex()
}
