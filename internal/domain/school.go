package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// AllRegions is the region selection that matches every school.
const AllRegions = "Todas"

// Indicator is the canonical code of one of the six score columns.
type Indicator string

const (
	IndicatorCH      Indicator = "CH"
	IndicatorLC      Indicator = "LC"
	IndicatorCN      Indicator = "CN"
	IndicatorMT      Indicator = "MT"
	IndicatorRedacao Indicator = "REDACAO"
	IndicatorMedia   Indicator = "MEDIA"
)

// Indicators lists the score columns in display order.
var Indicators = []Indicator{
	IndicatorCH,
	IndicatorLC,
	IndicatorCN,
	IndicatorMT,
	IndicatorRedacao,
	IndicatorMedia,
}

var indicatorLabels = map[Indicator]string{
	IndicatorCH:      "Ciências Humanas",
	IndicatorLC:      "Linguagens e Códigos",
	IndicatorCN:      "Ciências da Natureza",
	IndicatorMT:      "Matemática",
	IndicatorRedacao: "Redação",
	IndicatorMedia:   "Média Geral",
}

// Label returns the human-readable name shown in the indicator selector.
func (i Indicator) Label() string {
	if l, ok := indicatorLabels[i]; ok {
		return l
	}
	return string(i)
}

// Valid reports whether i is one of the six known indicators.
func (i Indicator) Valid() bool {
	_, ok := indicatorLabels[i]
	return ok
}

// ParseIndicator accepts either a canonical code ("MEDIA") or a display
// label ("Média Geral"). An empty string selects the first indicator.
func ParseIndicator(s string) (Indicator, error) {
	if s == "" {
		return Indicators[0], nil
	}
	if ind := Indicator(s); ind.Valid() {
		return ind, nil
	}
	for ind, label := range indicatorLabels {
		if label == s {
			return ind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIndicator, s)
}

// Scores holds the six ENEM area scores of a school.
type Scores struct {
	CH      float64 `json:"ch"`
	LC      float64 `json:"lc"`
	CN      float64 `json:"cn"`
	MT      float64 `json:"mt"`
	Redacao float64 `json:"redacao"`
	Media   float64 `json:"media"`
}

// Get returns the score for an indicator, or NaN for an unknown one.
func (s Scores) Get(ind Indicator) float64 {
	switch ind {
	case IndicatorCH:
		return s.CH
	case IndicatorLC:
		return s.LC
	case IndicatorCN:
		return s.CN
	case IndicatorMT:
		return s.MT
	case IndicatorRedacao:
		return s.Redacao
	case IndicatorMedia:
		return s.Media
	default:
		return math.NaN()
	}
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// School is one cleaned row of the dataset.
type School struct {
	Name     string `json:"escola"`
	Regional string `json:"regional"`
	Scores   Scores `json:"scores"`
	Geo      Geo    `json:"geo"`
}

// Score returns the school's value for the given indicator.
func (s School) Score(ind Indicator) float64 {
	return s.Scores.Get(ind)
}

// Dataset is the cleaned, immutable result of loading one CSV file.
type Dataset struct {
	Path       string
	Schools    []School
	Indicators []Indicator
	Dropped    int
	ModTime    time.Time
	LoadedAt   time.Time
}

// Regions returns the sorted distinct regional labels.
func (d *Dataset) Regions() []string {
	seen := make(map[string]struct{})
	var regions []string
	for _, s := range d.Schools {
		if _, ok := seen[s.Regional]; ok {
			continue
		}
		seen[s.Regional] = struct{}{}
		regions = append(regions, s.Regional)
	}
	sort.Strings(regions)
	return regions
}

// HasRegion reports whether region is AllRegions or a label present in the data.
func (d *Dataset) HasRegion(region string) bool {
	if isAllRegions(region) {
		return true
	}
	for _, s := range d.Schools {
		if s.Regional == region {
			return true
		}
	}
	return false
}

// Selection is the pair of choices made in the dashboard selectors.
type Selection struct {
	Regional  string    `json:"regional"`
	Indicator Indicator `json:"indicator"`
}

// View is the filtered, summarised data for one selection.
type View struct {
	Selection Selection       `json:"selection"`
	Schools   []School        `json:"schools"`
	Summary   []RegionSummary `json:"summary"`
	Total     int             `json:"total"`
}

// Title is the map heading for a view.
func (v View) Title() string {
	return fmt.Sprintf("Mapa de Calor e Escolas – %s – %s", v.Selection.Indicator.Label(), v.Selection.Regional)
}
