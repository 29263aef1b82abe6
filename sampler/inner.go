package sampler

import (
	"math/rand"

	"github.com/fogleman/poissondisc"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/islandsupport/bordertree"
	"github.com/royalcat/islandsupport/islandmodel"
)

// sampleInner fills the field with Poisson-disc points, keeping clear of
// the border where outline points already sit.
func sampleInner(field Field, cfg Config, rnd *rand.Rand) []islandmodel.SupportPoint {
	if len(field.Border) == 0 {
		return nil
	}

	border := bordertree.NewBorderTree[int]()
	for i, ring := range field.Border {
		border.InsertRing(ring, func(j int) int { return field.Source[i][j] })
	}

	bound := field.Border.Bound()
	candidates := poissondisc.Sample(bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y(), cfg.InnerSampleDistance, 10, rnd)

	var points []islandmodel.SupportPoint
	for _, c := range candidates {
		p := orb.Point{c.X, c.Y}
		if !planar.PolygonContains(field.Border, p) {
			continue
		}
		if border.Near(p, cfg.OutlineSampleDistance) {
			continue
		}
		points = append(points, islandmodel.New(p, islandmodel.Inner, nil))
	}
	return points
}
