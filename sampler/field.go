package sampler

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/islandsupport/internal/assert"
	"github.com/royalcat/islandsupport/skeleton"
)

// TransitionLine marks a field edge that cuts across the island instead of
// following its outline.
const TransitionLine = -1

// Field is a wide part of an island. Border[0] is the contour, the other
// rings are holes. Source[i][j] is the boundary line the edge from
// Border[i][j] to Border[i][j+1] lies on, or TransitionLine.
type Field struct {
	Border orb.Polygon
	Source [][]int
}

// change is the place where the skeleton leaves the field. Walking the field
// outline, the boundary is left at cut and resumed at next.
type change struct {
	edge  skeleton.EdgeID
	ratio float64

	cutLine  int
	cutT     float64
	cut      orb.Point
	nextLine int
	nextT    float64
	next     orb.Point
}

func newChange(g *skeleton.Graph, e skeleton.EdgeID, ratio float64) change {
	n := g.Edge(e)
	assert.That(n.Left != skeleton.NoLine && n.Right != skeleton.NoLine, "field edge %d has no boundary line", e)

	p := g.PointAt(skeleton.Position{Edge: e, Ratio: ratio})
	right := g.Boundary.Lines[n.Right]
	left := g.Boundary.Lines[n.Left]

	c := change{
		edge:     e,
		ratio:    ratio,
		cutLine:  n.Right,
		cutT:     right.Project(p),
		nextLine: n.Left,
		nextT:    left.Project(p),
	}
	c.cut = right.At(c.cutT)
	c.next = left.At(c.nextT)
	return c
}

// widthCrossing is the ratio along n where the width passes w, clamped to
// [from, 1].
func widthCrossing(n *skeleton.Neighbor, from, w float64) float64 {
	if n.WidthAt(from) >= w || n.FromWidth == n.ToWidth {
		return from
	}
	r := (w - n.FromWidth) / (n.ToWidth - n.FromWidth)
	return min(max(r, from), 1)
}

type fieldBuilder struct {
	g   *skeleton.Graph
	cfg Config

	// shared with the center walk
	done    []bool
	visited map[skeleton.EdgeID]bool
}

// build grows a field from seed over edges wide enough for outline support.
// start is the change the walk entered through, if any. The returned
// changes lead out of the field and do not include start.
func (b *fieldBuilder) build(seed skeleton.NodeID, start *change) (Field, []change) {
	g := b.g
	minWidth := b.cfg.MinWidthForOutlineSupport

	var changes []change
	if start != nil {
		changes = append(changes, *start)
	}
	lines := map[int]bool{}
	seen := map[skeleton.EdgeID]bool{}

	b.done[seed] = true
	stack := []skeleton.NodeID{seed}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, e := range g.Nodes[x].Edges {
			key := skeleton.Undirected(e)
			if seen[key] || b.visited[key] {
				continue
			}
			seen[key] = true

			n := g.Edge(e)
			if n.ToWidth >= minWidth || g.IsLeaf(n.To) {
				assert.That(n.Left != skeleton.NoLine && n.Right != skeleton.NoLine, "field edge %d has no boundary line", e)
				b.visited[key] = true
				lines[n.Left] = true
				lines[n.Right] = true
				if !b.done[n.To] {
					b.done[n.To] = true
					stack = append(stack, n.To)
				}
				continue
			}

			r := 0.0
			if n.FromWidth > minWidth {
				r = (n.FromWidth - minWidth) / (n.FromWidth - n.ToWidth)
			}
			changes = append(changes, newChange(g, e, min(max(r, 0), 1)))
		}
	}

	field := traceField(g.Boundary, changes, lines)
	if start != nil {
		changes = changes[1:]
	}
	return field, changes
}

type fieldTracer struct {
	boundary *skeleton.Boundary
	changes  []change
	byLine   map[int][]int
	used     []bool
	visited  map[int]bool
}

// traceField walks boundary line adjacency, replacing the part of a line
// past a cut by the transition to the next line. Loops through changes come
// first; rings of field lines that no change touches are added whole. The
// largest loop becomes the contour.
func traceField(boundary *skeleton.Boundary, changes []change, lines map[int]bool) Field {
	t := &fieldTracer{
		boundary: boundary,
		changes:  changes,
		byLine:   map[int][]int{},
		used:     make([]bool, len(changes)),
		visited:  map[int]bool{},
	}
	touched := map[int]bool{}
	for i, c := range changes {
		t.byLine[c.cutLine] = append(t.byLine[c.cutLine], i)
		touched[boundary.Ring(c.cutLine)] = true
		touched[boundary.Ring(c.nextLine)] = true
	}
	for _, ids := range t.byLine {
		slices.SortFunc(ids, func(a, b int) int {
			switch {
			case changes[a].cutT < changes[b].cutT:
				return -1
			case changes[a].cutT > changes[b].cutT:
				return 1
			}
			return 0
		})
	}

	var rings []orb.Ring
	var sources [][]int
	add := func(r orb.Ring, src []int) {
		if len(r) >= 4 {
			rings = append(rings, r)
			sources = append(sources, src)
		}
	}

	for i := range changes {
		if !t.used[i] {
			add(t.traceFromChange(i))
		}
	}

	sorted := make([]int, 0, len(lines))
	for l := range lines {
		sorted = append(sorted, l)
	}
	slices.Sort(sorted)
	for _, l := range sorted {
		if t.visited[l] || touched[boundary.Ring(l)] {
			continue
		}
		add(t.traceRing(l))
	}

	if len(rings) == 0 {
		return Field{}
	}

	contour := 0
	for i := range rings {
		if math.Abs(planar.Area(rings[i])) > math.Abs(planar.Area(rings[contour])) {
			contour = i
		}
	}
	field := Field{
		Border: orb.Polygon{rings[contour]},
		Source: [][]int{sources[contour]},
	}
	for i := range rings {
		if i != contour {
			field.Border = append(field.Border, rings[i])
			field.Source = append(field.Source, sources[i])
		}
	}
	return field
}

func (t *fieldTracer) nextCut(line int, after float64) int {
	for _, i := range t.byLine[line] {
		if t.changes[i].cutT > after+epsilon {
			return i
		}
	}
	return -1
}

func (t *fieldTracer) traceFromChange(first int) (orb.Ring, []int) {
	c0 := t.changes[first]
	t.used[first] = true

	ring := orb.Ring{c0.next}
	var src []int
	push := func(p orb.Point, source int) {
		if p == ring[len(ring)-1] {
			return
		}
		ring = append(ring, p)
		src = append(src, source)
	}

	line, at := c0.nextLine, c0.nextT
	limit := 2*len(t.boundary.Lines) + len(t.changes) + 1
	for step := 0; step < limit; step++ {
		if i := t.nextCut(line, at); i >= 0 {
			c := t.changes[i]
			push(c.cut, line)
			if i == first {
				ring = append(ring, c0.next)
				src = append(src, TransitionLine)
				return ring, src
			}
			push(c.next, TransitionLine)
			t.used[i] = true
			line, at = c.nextLine, c.nextT
			continue
		}

		push(t.boundary.Lines[line].B, line)
		t.visited[line] = true
		line, at = t.boundary.Next(line), -1
	}

	// malformed adjacency, close the loop where it stands
	ring = append(ring, c0.next)
	src = append(src, TransitionLine)
	return ring, src
}

func (t *fieldTracer) traceRing(start int) (orb.Ring, []int) {
	ring := orb.Ring{t.boundary.Lines[start].A}
	var src []int
	for l := start; ; {
		ring = append(ring, t.boundary.Lines[l].B)
		src = append(src, l)
		t.visited[l] = true
		l = t.boundary.Next(l)
		if l == start {
			break
		}
	}
	return ring, src
}
