package main

import (
	"fmt"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
)

// Approximate bounding box of Minas Gerais.
const (
	mgMinLat = -22.93
	mgMaxLat = -14.23
	mgMinLon = -51.05
	mgMaxLon = -39.85
)

// phase collects the warnings of one check.
type phase struct {
	name     string
	warnings []string
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.warnings) == 0 }

// checkScoreRange flags scores outside the 0..1000 ENEM scale.
func checkScoreRange(schools []domain.School) *phase {
	p := &phase{name: "Scores within 0-1000"}
	for _, s := range schools {
		for _, ind := range domain.Indicators {
			v := s.Score(ind)
			if v < 0 || v > domain.MaxScore {
				p.warnf("%s: %s = %.2f", s.Name, ind, v)
			}
		}
	}
	return p
}

// checkCoordinates flags schools plotted outside Minas Gerais.
func checkCoordinates(schools []domain.School) *phase {
	p := &phase{name: "Coordinates inside MG"}
	for _, s := range schools {
		if s.Geo.Lat < mgMinLat || s.Geo.Lat > mgMaxLat || s.Geo.Lon < mgMinLon || s.Geo.Lon > mgMaxLon {
			p.warnf("%s (%s): %.4f, %.4f", s.Name, s.Regional, s.Geo.Lat, s.Geo.Lon)
		}
	}
	return p
}
