package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/adapter/xlsx"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/render"
)

// Query parameter names used by the selector form.
const (
	paramRegional  = "regional"
	paramIndicator = "indicador"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r, "html")
	if !ok {
		return
	}
	opts, err := s.dash.Options(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	indicators := make([]domain.Indicator, 0, len(opts.Indicators))
	for _, o := range opts.Indicators {
		indicators = append(indicators, o.Code)
	}

	var buf bytes.Buffer
	if err := render.WritePage(&buf, render.NewPage(v, s.mapCfg, opts.Regions, indicators)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dash.Options(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleSchools(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r, "json")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r, "geojson")
	if !ok {
		return
	}
	data, err := json.Marshal(render.FeatureCollection(v))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r, "xlsx")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := xlsx.WriteWorkbook(&buf, v); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="escolas_%s.xlsx"`, v.Selection.Indicator))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dash.Reload(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "reloaded",
		"schools":   len(ds.Schools),
		"dropped":   ds.Dropped,
		"loaded_at": ds.LoadedAt.UTC().Format(time.RFC3339),
	})
}

// view parses the selection from the query string and builds the view.
// On failure it writes the error response and returns false.
func (s *Server) view(w http.ResponseWriter, r *http.Request, format string) (domain.View, bool) {
	q := r.URL.Query()
	sel, err := s.dash.ParseSelection(r.Context(), q.Get(paramRegional), q.Get(paramIndicator))
	if err != nil {
		s.writeError(w, r, err)
		return domain.View{}, false
	}
	v, err := s.dash.View(r.Context(), sel, format)
	if err != nil {
		s.writeError(w, r, err)
		return domain.View{}, false
	}
	return v, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownIndicator), errors.Is(err, domain.ErrUnknownRegion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
