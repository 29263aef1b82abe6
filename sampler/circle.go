package sampler

import (
	"math"
	"slices"

	"github.com/google/btree"
	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/skeleton"
)

// circleSampler covers the cycles of the skeleton. It knows, per node, the
// distance to the nearest placed point and pushes those distances around
// the cycles until every cycle edge is handled.
type circleSampler struct {
	g   *skeleton.Graph
	ex  *skeleton.ExPath
	cfg Config

	processed []bool
	sampled   map[skeleton.EdgeID]bool

	dist   map[skeleton.NodeID]float64
	done   map[skeleton.EdgeID]bool
	points []islandmodel.SupportPoint
}

func newCircleSampler(g *skeleton.Graph, ex *skeleton.ExPath, cfg Config, processed []bool, sampled map[skeleton.EdgeID]bool) *circleSampler {
	if processed == nil {
		processed = make([]bool, len(g.Nodes))
	}
	if sampled == nil {
		sampled = map[skeleton.EdgeID]bool{}
	}
	return &circleSampler{
		g:         g,
		ex:        ex,
		cfg:       cfg,
		processed: processed,
		sampled:   sampled,
		dist:      map[skeleton.NodeID]float64{},
		done:      map[skeleton.EdgeID]bool{},
	}
}

// sample returns the points added on circles. placed are the points already
// produced by the center line.
func (s *circleSampler) sample(placed []islandmodel.SupportPoint) []islandmodel.SupportPoint {
	if len(s.ex.Circles) == 0 {
		return nil
	}

	for _, p := range placed {
		src, ok := p.Source().(islandmodel.CenterSource)
		if !ok {
			continue
		}
		n := s.g.Edge(src.Position.Edge)
		s.setDist(n.From, src.Position.Ratio*n.Length)
		s.setDist(n.To, (1-src.Position.Ratio)*n.Length)
	}

	for _, c := range s.ex.Circles {
		for _, n := range c.Nodes {
			if _, ok := s.dist[n]; ok || !s.processed[n] {
				continue
			}
			if d, ok := s.searchDistance(n); ok {
				s.dist[n] = d
			}
		}
		for _, e := range c.Edges {
			if s.sampled[skeleton.Undirected(e)] {
				s.done[skeleton.Undirected(e)] = true
			}
		}
	}

	for _, group := range s.groups() {
		s.sampleGroup(group)
	}
	return s.points
}

func (s *circleSampler) setDist(n skeleton.NodeID, d float64) {
	if old, ok := s.dist[n]; !ok || d < old {
		s.dist[n] = d
	}
}

type searchItem struct {
	dist float64
	node skeleton.NodeID
}

func searchItemLess(a, b searchItem) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.node < b.node
}

// searchDistance looks for the nearest placed point through already sampled
// edges. The search gives up past half the sample distance.
func (s *circleSampler) searchDistance(from skeleton.NodeID) (float64, bool) {
	limit := s.cfg.MaxSampleDistance / 2

	queue := btree.NewG(2, searchItemLess)
	queue.ReplaceOrInsert(searchItem{node: from})
	settled := map[skeleton.NodeID]bool{}
	best := math.Inf(1)

	for queue.Len() > 0 {
		it, _ := queue.DeleteMin()
		if it.dist >= best || greater(it.dist, limit) {
			break
		}
		if settled[it.node] {
			continue
		}
		settled[it.node] = true

		if d, ok := s.dist[it.node]; ok {
			best = min(best, it.dist+d)
			continue
		}
		for _, e := range s.g.Nodes[it.node].Edges {
			n := s.g.Edge(e)
			if !s.sampled[skeleton.Undirected(e)] || !s.processed[n.To] || settled[n.To] {
				continue
			}
			queue.ReplaceOrInsert(searchItem{dist: it.dist + n.Length, node: n.To})
		}
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// groups joins connected circles, ordered by their smallest circle index.
func (s *circleSampler) groups() [][]int {
	seen := make([]bool, len(s.ex.Circles))
	var out [][]int
	for i := range s.ex.Circles {
		if seen[i] {
			continue
		}
		seen[i] = true
		group := []int{i}
		for j := 0; j < len(group); j++ {
			for _, k := range s.ex.ConnectedCircles[group[j]] {
				if !seen[k] {
					seen[k] = true
					group = append(group, k)
				}
			}
		}
		slices.Sort(group)
		out = append(out, group)
	}
	return out
}

func (s *circleSampler) sampleGroup(group []int) {
	adj := map[skeleton.NodeID][]skeleton.EdgeID{}
	var nodes []skeleton.NodeID
	for _, ci := range group {
		c := s.ex.Circles[ci]
		for _, e := range c.Edges {
			n := s.g.Edge(e)
			adj[n.From] = append(adj[n.From], e)
			adj[n.To] = append(adj[n.To], n.Twin)
		}
		nodes = append(nodes, c.Nodes...)
	}
	slices.Sort(nodes)
	nodes = slices.Compact(nodes)

	known := false
	for _, n := range nodes {
		if _, ok := s.dist[n]; ok {
			known = true
			break
		}
	}
	if !known {
		s.seedCircle(s.ex.Circles[group[0]])
	}

	var stack []skeleton.NodeID
	for i := len(nodes) - 1; i >= 0; i-- {
		if _, ok := s.dist[nodes[i]]; ok {
			stack = append(stack, nodes[i])
		}
	}

	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, e := range adj[u] {
			key := skeleton.Undirected(e)
			if s.done[key] {
				continue
			}
			s.done[key] = true

			v := s.g.Edge(e).To
			if dv, ok := s.dist[v]; ok {
				s.joinFronts(e, s.dist[u], dv)
				continue
			}
			s.dist[v] = s.walkEdge(e, s.dist[u])
			stack = append(stack, v)
		}
	}
}

// seedCircle spreads points evenly over a circle nothing else reaches.
func (s *circleSampler) seedCircle(c skeleton.Circle) {
	maxDist := s.cfg.MaxSampleDistance
	count := max(int(math.Ceil(c.Length/maxDist-epsilon)), 1)
	step := c.Length / float64(count)

	k := 0
	var walked float64
	for i, e := range c.Edges {
		l := s.g.Edge(e).Length
		pos := walked
		for k < count {
			at := step/2 + float64(k)*step
			if at > walked+l && i < len(c.Edges)-1 {
				break
			}
			s.points = append(s.points, CreatePoint(s.g, e, (at-walked)/l, islandmodel.CenterCircle))
			k++
		}
		off := math.Mod(pos-step/2, step)
		if off < 0 {
			off += step
		}
		s.setDist(c.Nodes[i], min(off, step-off))
		s.done[skeleton.Undirected(e)] = true
		walked += l
	}
}

// walkEdge continues a front of known distance du from the start of e and
// returns the distance from the end of e back to the last point.
func (s *circleSampler) walkEdge(e skeleton.EdgeID, du float64) float64 {
	maxDist := s.cfg.MaxSampleDistance
	l := s.g.Edge(e).Length

	last := -du
	for x := max(maxDist-du, 0); x < l-epsilon; x += maxDist {
		s.points = append(s.points, CreatePoint(s.g, e, x/l, islandmodel.CenterCircle))
		last = x
	}
	return l - last
}

// joinFronts closes the gap between two fronts meeting on e. Points are
// spread evenly over the whole gap; a point that would leave the edge is
// moved to its end and the rest are spread over what remains.
func (s *circleSampler) joinFronts(e skeleton.EdgeID, du, dv float64) {
	maxDist := s.cfg.MaxSampleDistance
	n := s.g.Edge(e)
	l := n.Length

	gap := du + l + dv
	if lessEq(gap, maxDist) {
		return
	}
	count := int(math.Ceil(gap/maxDist-epsilon)) - 1

	start, end := -du, l+dv
	first, last := math.Inf(1), math.Inf(-1)
	for k := count; k > 0; k-- {
		x := start + (end-start)/float64(k+1)
		x = max(x, 0)
		clamped := x >= l
		x = min(x, l)

		s.points = append(s.points, CreatePoint(s.g, e, x/l, islandmodel.CenterCircleEnd))
		first, last = min(first, x), max(last, x)
		start = x
		if clamped {
			break
		}
	}

	s.setDist(n.From, first)
	s.setDist(n.To, l-last)
}
