package batch

import (
	"fmt"
	"io"

	"github.com/paulmach/orb/geojson"
	"github.com/royalcat/islandsupport/islandmodel"
)

// Feature returns a point feature carrying the island id and point type.
// Outline points also name their boundary line.
func Feature(island string, p islandmodel.SupportPoint) *geojson.Feature {
	f := geojson.NewFeature(p.Orb())
	f.Properties["island"] = island
	f.Properties["type"] = p.Type().String()
	if src, ok := p.Source().(islandmodel.OutlineSource); ok {
		f.Properties["line"] = src.Line
	}
	return f
}

func FeatureCollection(results []Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range results {
		for _, p := range r.Points {
			fc.Append(Feature(r.ID, p))
		}
	}
	return fc
}

func WriteGeoJSON(w io.Writer, results []Result) error {
	data, err := FeatureCollection(results).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal points: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write points: %w", err)
	}
	return nil
}
