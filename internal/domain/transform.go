package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical column codes for the non-score fields.
const (
	ColumnEscola   = "ESCOLA"
	ColumnLat      = "LAT"
	ColumnLon      = "LON"
	ColumnRegional = "REGIONAL"
)

// columnRenames maps normalised source headers onto canonical codes.
var columnRenames = map[string]string{
	"ESCOLA":               ColumnEscola,
	"CIÊNCIAS HUMANAS":     string(IndicatorCH),
	"LINGUAGENS E CÓDIGOS": string(IndicatorLC),
	"CIÊNCIAS DA NATUREZA": string(IndicatorCN),
	"MATEMÁTICA":           string(IndicatorMT),
	"REDAÇÃO":              string(IndicatorRedacao),
	"MÉDIA GERAL":          string(IndicatorMedia),
	"LATITUDE":             ColumnLat,
	"LONGITUDE":            ColumnLon,
	"REGIONAL":             ColumnRegional,
}

// RequiredColumns are the canonical columns every row must carry.
var RequiredColumns = []string{
	ColumnEscola,
	string(IndicatorCH),
	string(IndicatorLC),
	string(IndicatorCN),
	string(IndicatorMT),
	string(IndicatorRedacao),
	string(IndicatorMedia),
	ColumnLat,
	ColumnLon,
	ColumnRegional,
}

// CanonicalColumn normalises a header cell (NFC, BOM and whitespace stripped,
// upper-cased) and applies the rename table. Unknown headers are returned
// normalised but otherwise unchanged.
func CanonicalColumn(header string) string {
	h := strings.TrimPrefix(header, "\ufeff")
	h = strings.ToUpper(strings.TrimSpace(norm.NFC.String(h)))
	if c, ok := columnRenames[h]; ok {
		return c
	}
	return h
}

// ParseDecimal parses a locale-formatted number ("650,5" -> 650.5).
// ok is false for empty, unparseable or non-finite cells.
func ParseDecimal(s string) (v float64, ok bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeText trims and upper-cases a key column. ok is false when nothing is left.
func NormalizeText(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, s != ""
}

// RawRow is one CSV record keyed by canonical column code.
type RawRow map[string]string

// ParseRow cleans a raw row into a School. It fails with ErrMissingValue
// naming the first required column that is empty or unparseable.
func ParseRow(raw RawRow) (School, error) {
	var nums [8]float64
	numeric := []string{
		string(IndicatorCH),
		string(IndicatorLC),
		string(IndicatorCN),
		string(IndicatorMT),
		string(IndicatorRedacao),
		string(IndicatorMedia),
		ColumnLat,
		ColumnLon,
	}
	for i, col := range numeric {
		v, ok := ParseDecimal(raw[col])
		if !ok {
			return School{}, fmt.Errorf("%w: %s", ErrMissingValue, col)
		}
		nums[i] = v
	}

	regional, ok := NormalizeText(raw[ColumnRegional])
	if !ok {
		return School{}, fmt.Errorf("%w: %s", ErrMissingValue, ColumnRegional)
	}
	name, ok := NormalizeText(raw[ColumnEscola])
	if !ok {
		return School{}, fmt.Errorf("%w: %s", ErrMissingValue, ColumnEscola)
	}

	return School{
		Name:     name,
		Regional: regional,
		Scores: Scores{
			CH:      nums[0],
			LC:      nums[1],
			CN:      nums[2],
			MT:      nums[3],
			Redacao: nums[4],
			Media:   nums[5],
		},
		Geo: Geo{Lat: nums[6], Lon: nums[7]},
	}, nil
}
