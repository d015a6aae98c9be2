package domain

import "time"

// SelectionEvent records one rendered dashboard selection for usage analytics.
type SelectionEvent struct {
	Regional   string    `json:"regional"`
	Indicator  Indicator `json:"indicator"`
	Matched    int       `json:"matched"`
	Format     string    `json:"format"` // "html", "json", "geojson", "xlsx"
	OccurredAt time.Time `json:"occurred_at"`
}

// NewSelectionEvent stamps a view with the package clock.
func NewSelectionEvent(v View, format string) SelectionEvent {
	return SelectionEvent{
		Regional:   v.Selection.Regional,
		Indicator:  v.Selection.Indicator,
		Matched:    len(v.Schools),
		Format:     format,
		OccurredAt: clock.Now().UTC(),
	}
}
