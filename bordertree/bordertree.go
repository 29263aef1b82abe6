// Package bordertree indexes polygon border segments for distance queries.
package bordertree

import (
	"math"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/qtree"
)

type BorderTree[Data any] struct {
	mu       sync.RWMutex
	segments []segment[Data]
	qt       qtree.QTree
}

func NewBorderTree[Data any]() *BorderTree[Data] {
	return &BorderTree[Data]{}
}

type segment[D any] struct {
	A, B orb.Point
	Data D
}

func (bt *BorderTree[Data]) Insert(a, b orb.Point, data Data) {
	bound := orb.MultiPoint{a, b}.Bound()

	bt.mu.Lock()
	defer bt.mu.Unlock()

	bt.qt.Insert(bound.Min, bound.Max, len(bt.segments))
	bt.segments = append(bt.segments, segment[Data]{A: a, B: b, Data: data})
}

// InsertRing adds every segment of the ring, data(i) labels segment i.
func (bt *BorderTree[Data]) InsertRing(r orb.Ring, data func(i int) Data) {
	for i := 0; i+1 < len(r); i++ {
		bt.Insert(r[i], r[i+1], data(i))
	}
}

func (bt *BorderTree[Data]) Len() int {
	bt.mu.RLock()
	defer bt.mu.RUnlock()
	return len(bt.segments)
}

// Nearest returns the segment closest to point among those within radius.
func (bt *BorderTree[Data]) Nearest(point orb.Point, radius float64) (Data, float64, bool) {
	bt.mu.RLock()
	defer bt.mu.RUnlock()

	var out Data
	best := math.Inf(1)
	found := false

	bt.search(point, radius, func(s *segment[Data]) bool {
		d := planar.DistanceFromSegment(s.A, s.B, point)
		if d <= radius && d < best {
			best = d
			out = s.Data
			found = true
		}
		return true
	})

	return out, best, found
}

// Near reports whether any segment lies within dist of point.
func (bt *BorderTree[Data]) Near(point orb.Point, dist float64) bool {
	bt.mu.RLock()
	defer bt.mu.RUnlock()

	near := false
	bt.search(point, dist, func(s *segment[Data]) bool {
		if planar.DistanceFromSegment(s.A, s.B, point) <= dist {
			near = true
			return false
		}
		return true
	})
	return near
}

func (bt *BorderTree[Data]) search(point orb.Point, radius float64, iter func(s *segment[Data]) bool) {
	min := orb.Point{point[0] - radius, point[1] - radius}
	max := orb.Point{point[0] + radius, point[1] + radius}

	bt.qt.Search(min, max, func(_, _ [2]float64, data interface{}) bool {
		return iter(&bt.segments[data.(int)])
	})
}
