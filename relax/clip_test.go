package relax

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipHalfPlane(t *testing.T) {
	ring := boxRing(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}})

	cell := clipHalfPlane(ring, orb.Point{2, 5}, orb.Point{8, 5})
	require.Len(t, cell, 4)
	closed := append(cell, cell[0])
	assert.InDelta(t, 50, math.Abs(planar.Area(closed)), 1e-9)
	for _, p := range cell {
		assert.LessOrEqual(t, p[0], 5.0)
	}

	require.Nil(t, clipHalfPlane(orb.Ring{{6, 0}, {7, 0}, {7, 1}}, orb.Point{0, 0}, orb.Point{2, 0}))
}

func TestVoronoiCell(t *testing.T) {
	sites := []orb.Point{{2, 2}, {8, 2}, {8, 8}, {2, 8}}
	d := newDiagram(sites, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}})

	for i := range sites {
		cell := d.cell(i)
		closed := append(cell, cell[0])
		assert.InDelta(t, 25, math.Abs(planar.Area(closed)), 1e-9)
		assert.True(t, planar.RingContains(closed, sites[i]))
	}
}

func TestClipCellPicksSitePiece(t *testing.T) {
	// a U shape, the cell cuts both arms
	island := toGeom(orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 3}, {3, 3}, {3, 10}, {0, 10}, {0, 0}}})
	cell := boxRing(orb.Bound{Min: orb.Point{-1, 5}, Max: orb.Point{11, 8}})

	left := clipCell(cell, island, orb.Point{1, 6})
	require.Len(t, left, 1)
	assert.InDelta(t, 9, math.Abs(planar.Area(left[0])), 1e-9)
	assert.True(t, planar.PolygonContains(left, orb.Point{1, 6}))

	right := clipCell(cell, island, orb.Point{8.5, 7})
	assert.True(t, planar.PolygonContains(right, orb.Point{8.5, 7}))

	// on neither arm, the nearest one wins
	near := clipCell(cell, island, orb.Point{4, 6})
	assert.True(t, planar.PolygonContains(near, orb.Point{2, 6}))
}

func TestSplitPiecesHoles(t *testing.T) {
	island := toGeom(orb.Polygon{
		orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		orb.Ring{{4, 4}, {4, 6}, {6, 6}, {6, 4}, {4, 4}},
	})
	cell := boxRing(orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{11, 11}})

	pieces := splitPieces(toGeom(orb.Polygon{cell}).Intersection(island))

	require.Len(t, pieces, 1)
	require.Len(t, pieces[0], 2)
	assert.Equal(t, orb.CCW, pieces[0][0].Orientation())
	assert.Equal(t, orb.CW, pieces[0][1].Orientation())
	assert.InDelta(t, 96, planar.Area(pieces[0]), 1e-9)
}
