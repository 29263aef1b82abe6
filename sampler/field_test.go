package sampler

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/skeleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertRing(t *testing.T, want, got orb.Ring) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i][0], got[i][0], 1e-9, "vertex %d", i)
		assert.InDelta(t, want[i][1], got[i][1], 1e-9, "vertex %d", i)
	}
}

func TestFieldFromCorner(t *testing.T) {
	g := skeleton.NewGraph(skeleton.NewBoundary(orb.Polygon{orb.Ring{{0, 0}, {20, 0}, {20, 10}, {0, 10}}}))
	c0 := g.AddNode(orb.Point{0, 0}, 0)
	c1 := g.AddNode(orb.Point{20, 0}, 0)
	c2 := g.AddNode(orb.Point{20, 10}, 0)
	c3 := g.AddNode(orb.Point{0, 10}, 0)
	m1 := g.AddNode(orb.Point{5, 5}, 10)
	m2 := g.AddNode(orb.Point{15, 5}, 10)
	g.AddEdge(m1, m2, 2, 0)
	g.AddEdge(m1, c0, 0, 3)
	g.AddEdge(m1, c3, 3, 2)
	g.AddEdge(m2, c1, 1, 0)
	g.AddEdge(m2, c2, 2, 1)

	w := newFieldWalk(g, ConfigDefault())
	w.run(c0)

	require.Len(t, w.points, 1)
	assert.Equal(t, islandmodel.CenterLine, w.points[0].Type())

	require.Len(t, w.fields, 1)
	f := w.fields[0]
	require.Len(t, f.Border, 1)
	assertRing(t, orb.Ring{{1.75, 0}, {20, 0}, {20, 10}, {0, 10}, {0, 1.75}, {1.75, 0}}, f.Border[0])
	assert.Equal(t, []int{0, 1, 2, 3, TransitionLine}, f.Source[0])

	points := sampleOutline(f, ConfigDefault())
	assert.Len(t, points, 14)
}

func TestTraceFieldUntouchedHole(t *testing.T) {
	b := skeleton.NewBoundary(orb.Polygon{
		orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		orb.Ring{{4, 4}, {6, 4}, {6, 6}, {4, 6}},
	})
	lines := map[int]bool{}
	for i := range b.Lines {
		lines[i] = true
	}

	f := traceField(b, nil, lines)

	require.Len(t, f.Border, 2)
	assertRing(t, orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, f.Border[0])
	assert.Equal(t, []int{0, 1, 2, 3}, f.Source[0])
	// holes run clockwise
	assert.Equal(t, orb.CW, f.Border[1].Orientation())
	assert.Equal(t, []int{4, 5, 6, 7}, f.Source[1])
}

func TestTraceFieldTwoCuts(t *testing.T) {
	// a 30x10 strip left through narrow necks on both short sides
	b := skeleton.NewBoundary(orb.Polygon{orb.Ring{{0, 0}, {30, 0}, {30, 10}, {0, 10}}})
	changes := []change{
		{cutLine: 1, cutT: 0.2, cut: orb.Point{30, 2}, nextLine: 1, nextT: 0.8, next: orb.Point{30, 8}},
		{cutLine: 3, cutT: 0.2, cut: orb.Point{0, 8}, nextLine: 3, nextT: 0.8, next: orb.Point{0, 2}},
	}

	f := traceField(b, changes, map[int]bool{0: true, 1: true, 2: true, 3: true})

	require.Len(t, f.Border, 1)
	assertRing(t, orb.Ring{{30, 8}, {30, 10}, {0, 10}, {0, 8}, {0, 2}, {0, 0}, {30, 0}, {30, 2}, {30, 8}}, f.Border[0])
	assert.Equal(t, []int{1, 2, 3, TransitionLine, 3, 0, 1, TransitionLine}, f.Source[0])
}
