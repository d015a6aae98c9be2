package domain

import (
	"math"
	"sort"
)

func isAllRegions(region string) bool {
	return region == "" || region == AllRegions
}

// Filter returns the schools in region (or all of them for AllRegions) that
// have a value for ind. Load order is preserved and the input is not modified.
func Filter(schools []School, region string, ind Indicator) []School {
	out := make([]School, 0, len(schools))
	all := isAllRegions(region)
	for _, s := range schools {
		if !all && s.Regional != region {
			continue
		}
		if math.IsNaN(s.Score(ind)) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RegionSummary aggregates one indicator over the schools of a region.
type RegionSummary struct {
	Regional string  `json:"regional"`
	Schools  int     `json:"schools"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Summarize groups schools by regional label, sorted by label.
// Schools without a value for ind are skipped.
func Summarize(schools []School, ind Indicator) []RegionSummary {
	byRegion := make(map[string]*RegionSummary)
	sums := make(map[string]float64)

	for _, s := range schools {
		v := s.Score(ind)
		if math.IsNaN(v) {
			continue
		}
		rs, ok := byRegion[s.Regional]
		if !ok {
			rs = &RegionSummary{Regional: s.Regional, Min: v, Max: v}
			byRegion[s.Regional] = rs
		}
		rs.Schools++
		rs.Min = math.Min(rs.Min, v)
		rs.Max = math.Max(rs.Max, v)
		sums[s.Regional] += v
	}

	out := make([]RegionSummary, 0, len(byRegion))
	for region, rs := range byRegion {
		rs.Mean = sums[region] / float64(rs.Schools)
		out = append(out, *rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Regional < out[j].Regional })
	return out
}

// BuildView filters and summarises a dataset for a selection.
func BuildView(ds *Dataset, sel Selection) View {
	filtered := Filter(ds.Schools, sel.Regional, sel.Indicator)
	if isAllRegions(sel.Regional) {
		sel.Regional = AllRegions
	}
	return View{
		Selection: sel,
		Schools:   filtered,
		Summary:   Summarize(filtered, sel.Indicator),
		Total:     len(ds.Schools),
	}
}
