package skeleton

import (
	"math"

	"github.com/paulmach/orb"
)

// Line is one boundary segment A -> B. The island interior lies on its left.
type Line struct {
	A, B orb.Point
}

func (l Line) Length() float64 {
	return math.Hypot(l.B[0]-l.A[0], l.B[1]-l.A[1])
}

func (l Line) At(t float64) orb.Point {
	return lerp(l.A, l.B, t)
}

// Project returns the parameter of the closest point on the segment.
func (l Line) Project(p orb.Point) float64 {
	dx, dy := l.B[0]-l.A[0], l.B[1]-l.A[1]
	d := dx*dx + dy*dy
	if d == 0 {
		return 0
	}
	t := ((p[0]-l.A[0])*dx + (p[1]-l.A[1])*dy) / d
	return min(max(t, 0), 1)
}

type ringRange struct {
	start, end int
}

// Boundary is the island outline split into lines. Lines of one ring are
// stored consecutively, the contour first, followed by the holes.
type Boundary struct {
	Lines []Line

	rings  []ringRange
	ringOf []int
}

// NewBoundary splits the polygon into lines. The contour is oriented
// counter-clockwise and holes clockwise. Rings with less than three distinct
// points are dropped.
func NewBoundary(p orb.Polygon) *Boundary {
	b := &Boundary{}
	for i, r := range p {
		r = openRing(r)
		if len(r) < 3 {
			continue
		}
		want := orb.CCW
		if i > 0 {
			want = orb.CW
		}
		if r.Orientation() != want {
			r = reversed(r)
		}

		start := len(b.Lines)
		for j := range r {
			b.Lines = append(b.Lines, Line{A: r[j], B: r[(j+1)%len(r)]})
			b.ringOf = append(b.ringOf, len(b.rings))
		}
		b.rings = append(b.rings, ringRange{start: start, end: len(b.Lines)})
	}
	return b
}

func (b *Boundary) Empty() bool {
	return len(b.Lines) == 0
}

func (b *Boundary) RingCount() int {
	return len(b.rings)
}

// RingLines returns the half-open line id range of a ring.
func (b *Boundary) RingLines(ring int) (int, int) {
	r := b.rings[ring]
	return r.start, r.end
}

func (b *Boundary) Ring(line int) int {
	return b.ringOf[line]
}

func (b *Boundary) Next(line int) int {
	r := b.rings[b.ringOf[line]]
	if line+1 == r.end {
		return r.start
	}
	return line + 1
}

func (b *Boundary) Prev(line int) int {
	r := b.rings[b.ringOf[line]]
	if line == r.start {
		return r.end - 1
	}
	return line - 1
}

// Polygon rebuilds the oriented outline with closed rings.
func (b *Boundary) Polygon() orb.Polygon {
	out := make(orb.Polygon, 0, len(b.rings))
	for _, r := range b.rings {
		ring := make(orb.Ring, 0, r.end-r.start+1)
		for i := r.start; i < r.end; i++ {
			ring = append(ring, b.Lines[i].A)
		}
		ring = append(ring, ring[0])
		out = append(out, ring)
	}
	return out
}

func openRing(r orb.Ring) orb.Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}

func reversed(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}
