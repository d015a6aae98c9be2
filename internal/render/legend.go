package render

import (
	"fmt"
	"strings"
)

// GradientStop is one colour position of the legend bar.
type GradientStop struct {
	Color   string  `json:"color"`
	Percent float64 `json:"percent"`
}

// Legend describes the fixed colour bar drawn over the map.
type Legend struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Stops  []GradientStop `json:"stops"`
	Ticks  []string       `json:"ticks"`
}

// DefaultLegend mirrors the two ramps of domain.ScoreColor with a narrow seam at 500.
func DefaultLegend() Legend {
	return Legend{
		Width:  360,
		Height: 20,
		Stops: []GradientStop{
			{Color: "#8B0000", Percent: 0},
			{Color: "#FFA07A", Percent: 49.9},
			{Color: "#ADD8E6", Percent: 50.1},
			{Color: "#00008B", Percent: 100},
		},
		Ticks: []string{"0", "500", "1000"},
	}
}

// CSSGradient renders the stops as a CSS linear-gradient value.
func (l Legend) CSSGradient() string {
	parts := make([]string, 0, len(l.Stops))
	for _, s := range l.Stops {
		parts = append(parts, fmt.Sprintf("%s %g%%", s.Color, s.Percent))
	}
	return "linear-gradient(to right, " + strings.Join(parts, ", ") + ")"
}
