// Package relax spreads support points evenly over an island with Lloyd
// iterations on the Voronoi diagram of the points.
package relax

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/islandsupport/islandmodel"
	"golang.org/x/image/math/fixed"
)

type Config struct {
	MaxIterations int
	// Relaxation stops once no point would move this far.
	MinimalMove float64
}

type Result struct {
	Iterations int
	// MaxMove is the largest move of the last evaluated iteration.
	MaxMove   float64
	Converged bool
}

// Relax moves the movable points to the centroids of their Voronoi cells
// clipped by island. Other points act as sites but stay where they are.
// The iteration whose largest move drops under MinimalMove is not applied,
// so relaxing converged points again leaves them unchanged.
func Relax(points []islandmodel.SupportPoint, island orb.Polygon, cfg Config) Result {
	var res Result
	if len(points) == 0 || len(island) == 0 || !hasMovable(points) {
		res.Converged = true
		return res
	}

	clip := toGeom(island)
	box := island.Bound()
	box = box.Pad(math.Max(box.Max[0]-box.Min[0], box.Max[1]-box.Min[1]))
	minimal := float64(islandmodel.FixedLength(cfg.MinimalMove))

	sites := make([]orb.Point, len(points))
	moved := make([]fixed.Point52_12, len(points))
	for res.Iterations < cfg.MaxIterations {
		for i, p := range points {
			sites[i] = p.Orb()
		}
		d := newDiagram(sites, box)

		var maxMove int64
		for i, p := range points {
			moved[i] = p.Point
			if !p.Type().Movable() {
				continue
			}
			c, ok := centroid(d.cell(i), clip, sites[i])
			if !ok {
				continue
			}
			moved[i] = islandmodel.ToFixed(c)
			maxMove = max(maxMove, islandmodel.DistanceSquared(p.Point, moved[i]))
		}

		move := math.Sqrt(float64(maxMove))
		res.MaxMove = move / float64(islandmodel.FixedLength(1))
		if maxMove == 0 || move < minimal {
			res.Converged = true
			return res
		}

		for i := range points {
			points[i].Point = moved[i]
		}
		res.Iterations++
	}
	return res
}

func centroid(cell orb.Ring, island geom.Polygon, site orb.Point) (orb.Point, bool) {
	piece := clipCell(cell, island, site)
	if len(piece) == 0 {
		return orb.Point{}, false
	}
	c, area := planar.CentroidArea(piece)
	if area == 0 || math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return orb.Point{}, false
	}
	if !planar.PolygonContains(piece, c) {
		// a bent piece, stay put
		return orb.Point{}, false
	}
	return c, true
}

func hasMovable(points []islandmodel.SupportPoint) bool {
	for _, p := range points {
		if p.Type().Movable() {
			return true
		}
	}
	return false
}
