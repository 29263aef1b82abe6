package relax_test

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/relax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}

func inner(x, y float64) islandmodel.SupportPoint {
	return islandmodel.New(orb.Point{x, y}, islandmodel.Inner, nil)
}

func TestRelaxQuadrants(t *testing.T) {
	points := []islandmodel.SupportPoint{inner(4, 4), inner(6, 4), inner(6, 6), inner(4, 6)}

	res := relax.Relax(points, square, relax.Config{MaxIterations: 10, MinimalMove: 0.01})

	require.True(t, res.Converged)
	require.Equal(t, 1, res.Iterations)
	want := []orb.Point{{2.5, 2.5}, {7.5, 2.5}, {7.5, 7.5}, {2.5, 7.5}}
	for i, p := range points {
		assert.InDelta(t, want[i][0], p.Orb()[0], 1e-3)
		assert.InDelta(t, want[i][1], p.Orb()[1], 1e-3)
	}
}

func TestRelaxFixedPoint(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	points := make([]islandmodel.SupportPoint, 12)
	for i := range points {
		points[i] = inner(1+rnd.Float64()*8, 1+rnd.Float64()*8)
	}
	cfg := relax.Config{MaxIterations: 1000, MinimalMove: 0.05}

	first := relax.Relax(points, square, cfg)
	require.True(t, first.Converged)

	before := append([]islandmodel.SupportPoint(nil), points...)
	second := relax.Relax(points, square, cfg)

	require.True(t, second.Converged)
	require.Zero(t, second.Iterations)
	require.Equal(t, before, points)
}

func TestRelaxKeepsFixedPoints(t *testing.T) {
	anchor := islandmodel.New(orb.Point{1, 1}, islandmodel.Outline, islandmodel.OutlineSource{Line: 0})
	points := []islandmodel.SupportPoint{anchor, inner(2, 2)}

	res := relax.Relax(points, square, relax.Config{MaxIterations: 20, MinimalMove: 0.01})

	require.Greater(t, res.Iterations, 0)
	require.Equal(t, anchor, points[0])
	assert.NotEqual(t, orb.Point{2, 2}, points[1].Orb())
}

func TestRelaxCentroidInHole(t *testing.T) {
	island := orb.Polygon{
		square[0],
		orb.Ring{{4, 4}, {4, 6}, {6, 6}, {6, 4}, {4, 4}},
	}
	points := []islandmodel.SupportPoint{inner(2, 5)}

	res := relax.Relax(points, island, relax.Config{MaxIterations: 5, MinimalMove: 0.01})

	require.True(t, res.Converged)
	require.Zero(t, res.Iterations)
	require.Equal(t, orb.Point{2, 5}, points[0].Orb())
}

func TestRelaxStaysInside(t *testing.T) {
	island := orb.Polygon{
		orb.Ring{{0, 0}, {20, 0}, {20, 5}, {5, 5}, {5, 20}, {0, 20}, {0, 0}},
		orb.Ring{{1, 1}, {1, 3}, {3, 3}, {3, 1}, {1, 1}},
	}
	rnd := rand.New(rand.NewSource(3))
	var points []islandmodel.SupportPoint
	for len(points) < 15 {
		p := orb.Point{rnd.Float64() * 20, rnd.Float64() * 20}
		if planar.PolygonContains(island, p) {
			points = append(points, inner(p[0], p[1]))
		}
	}

	relax.Relax(points, island, relax.Config{MaxIterations: 50, MinimalMove: 0.001})

	for _, p := range points {
		assert.True(t, planar.PolygonContains(island, p.Orb()), "point %v left the island", p.Orb())
	}
}

func TestRelaxNothingToMove(t *testing.T) {
	res := relax.Relax(nil, square, relax.Config{MaxIterations: 5})
	require.True(t, res.Converged)

	points := []islandmodel.SupportPoint{islandmodel.New(orb.Point{5, 5}, islandmodel.SingleCenter, nil)}
	res = relax.Relax(points, square, relax.Config{MaxIterations: 5})
	require.True(t, res.Converged)
	require.Zero(t, res.Iterations)
}
