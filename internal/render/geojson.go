package render

import (
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts a view into GeoJSON Point features (lon, lat order).
func FeatureCollection(v domain.View) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	ind := v.Selection.Indicator
	for _, s := range v.Schools {
		f := geojson.NewFeature(orb.Point{s.Geo.Lon, s.Geo.Lat})
		value := s.Score(ind)
		f.Properties = geojson.Properties{
			"name":      s.Name,
			"regional":  s.Regional,
			"ch":        s.Scores.CH,
			"lc":        s.Scores.LC,
			"cn":        s.Scores.CN,
			"mt":        s.Scores.MT,
			"redacao":   s.Scores.Redacao,
			"media":     s.Scores.Media,
			"indicator": string(ind),
			"value":     value,
			"color":     domain.ScoreColor(value),
			"popup":     Popup(s),
		}
		fc.Append(f)
	}
	return fc
}
