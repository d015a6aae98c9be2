package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").Funcs(template.FuncMap{
		"score":   formatScore,
		"safeCSS": func(s string) template.CSS { return template.CSS(s) },
	}).ParseFS(templateFS, "templates/page.html"),
)

// Option is one entry of a selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Page is everything the dashboard template needs.
type Page struct {
	Title      string
	Map        MapConfig
	Legend     Legend
	Regions    []Option
	Indicators []Option
	Markers    []Marker
	Rows       []domain.School
	Summary    []domain.RegionSummary
	Matched    int
	Total      int
}

// NewPage assembles the page model for a view. regions and indicators are
// the selector choices; the view's selection is marked as selected.
func NewPage(v domain.View, cfg MapConfig, regions []string, indicators []domain.Indicator) Page {
	p := Page{
		Title:   v.Title(),
		Map:     cfg,
		Legend:  DefaultLegend(),
		Markers: Markers(v.Schools, v.Selection.Indicator),
		Rows:    v.Schools,
		Summary: v.Summary,
		Matched: len(v.Schools),
		Total:   v.Total,
	}
	for _, r := range regions {
		p.Regions = append(p.Regions, Option{Value: r, Label: r, Selected: r == v.Selection.Regional})
	}
	for _, ind := range indicators {
		p.Indicators = append(p.Indicators, Option{
			Value:    string(ind),
			Label:    ind.Label(),
			Selected: ind == v.Selection.Indicator,
		})
	}
	return p
}

// WritePage renders the full HTML dashboard.
func WritePage(w io.Writer, p Page) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func formatScore(v float64) string {
	if math.IsNaN(v) {
		return "–"
	}
	return fmt.Sprintf("%.2f", v)
}
