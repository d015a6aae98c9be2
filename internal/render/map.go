package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
)

// Marker style shared by every school circle.
const (
	MarkerRadius      = 6
	MarkerFillOpacity = 1.0
)

// MapConfig positions the base map.
type MapConfig struct {
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Zoom      int     `json:"zoom"`
	TileURL   string  `json:"tile_url"`
}

// Marker is one school circle on the map.
type Marker struct {
	Name     string  `json:"name"`
	Regional string  `json:"regional"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Value    float64 `json:"value"`
	Color    string  `json:"color"`
	Radius   int     `json:"radius"`
	Popup    string  `json:"popup"`
}

// popupLabels differ slightly from the selector labels ("Linguagens" is shortened).
var popupLabels = []struct {
	ind   domain.Indicator
	label string
}{
	{domain.IndicatorCH, "Ciências Humanas"},
	{domain.IndicatorLC, "Linguagens"},
	{domain.IndicatorCN, "Ciências da Natureza"},
	{domain.IndicatorMT, "Matemática"},
	{domain.IndicatorRedacao, "Redação"},
}

// Markers builds one marker per school, coloured by the selected indicator.
func Markers(schools []domain.School, ind domain.Indicator) []Marker {
	out := make([]Marker, 0, len(schools))
	for _, s := range schools {
		v := s.Score(ind)
		out = append(out, Marker{
			Name:     s.Name,
			Regional: s.Regional,
			Lat:      s.Geo.Lat,
			Lon:      s.Geo.Lon,
			Value:    v,
			Color:    domain.ScoreColor(v),
			Radius:   MarkerRadius,
			Popup:    Popup(s),
		})
	}
	return out
}

// Popup returns the HTML fragment shown when a marker is clicked.
func Popup(s domain.School) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b><br>", html.EscapeString(s.Name))
	for _, p := range popupLabels {
		fmt.Fprintf(&b, "%s: %.2f<br>", p.label, s.Score(p.ind))
	}
	fmt.Fprintf(&b, "Média Geral: <b>%.2f</b>", s.Scores.Media)
	return b.String()
}
