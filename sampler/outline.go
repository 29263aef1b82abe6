package sampler

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/royalcat/islandsupport/islandmodel"
)

// sampleOutline walks every ring of the field and drops a point each
// OutlineSampleDistance, moved inside by MinimalDistanceFromOutline. The
// counter starts at half the distance and restarts after every transition
// edge so that points sit symmetric around ring seams and cuts.
func sampleOutline(field Field, cfg Config) []islandmodel.SupportPoint {
	dist := cfg.OutlineSampleDistance
	inset := cfg.MinimalDistanceFromOutline

	var points []islandmodel.SupportPoint
	for i, ring := range field.Border {
		next := dist / 2
		for j := 0; j+1 < len(ring); j++ {
			line := field.Source[i][j]
			if line == TransitionLine {
				next = dist / 2
				continue
			}

			a, b := ring[j], ring[j+1]
			dx, dy := b[0]-a[0], b[1]-a[1]
			l := math.Hypot(dx, dy)
			if l == 0 {
				continue
			}
			// the field lies left of every border edge
			nx, ny := -dy/l*inset, dx/l*inset

			for ; next < l; next += dist {
				t := next / l
				p := orb.Point{a[0] + dx*t + nx, a[1] + dy*t + ny}
				points = append(points, islandmodel.New(p, islandmodel.Outline, islandmodel.OutlineSource{Line: line}))
			}
			next -= l
		}
	}
	return points
}
