package sampler

import (
	"math"

	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/skeleton"
)

// centerLine samples the dominant path and, recursively, its side branches.
// Every branch is aligned to the spacing grid of the line it hangs from.
type centerLine struct {
	g   *skeleton.Graph
	ex  *skeleton.ExPath
	cfg Config

	points    []islandmodel.SupportPoint
	processed []bool
	sampled   map[skeleton.EdgeID]bool
}

func newCenterLine(g *skeleton.Graph, ex *skeleton.ExPath, cfg Config) *centerLine {
	return &centerLine{
		g:         g,
		ex:        ex,
		cfg:       cfg,
		processed: make([]bool, len(g.Nodes)),
		sampled:   map[skeleton.EdgeID]bool{},
	}
}

func (s *centerLine) sampleTrunk() {
	nodes := s.ex.Nodes
	if len(nodes) < 2 {
		return
	}
	root := nodes[0]
	s.processed[root] = true

	s.sampleBranches(root, s.cfg.SideDistance)
	trunk := skeleton.Path{Nodes: nodes[1:], Length: s.ex.Length}
	s.sampleBranch(root, trunk, s.cfg.MaxSampleDistance-s.cfg.SideDistance, islandmodel.CenterLineStart)
}

// sampleBranches recurses into the branches of n. offset is the distance
// from n to the nearest sample of the line n lies on.
func (s *centerLine) sampleBranches(n skeleton.NodeID, offset float64) {
	offset = min(max(offset, 0), s.cfg.MaxSampleDistance)
	for _, b := range s.ex.SideBranches[n] {
		if !greater(b.Length, s.cfg.MinSideBranchLength) {
			// sorted longest first
			break
		}
		s.sampleBranch(n, b, offset, islandmodel.CenterLine)
	}
}

// sampleBranch places the first sample MaxSampleDistance - startOffset from
// root, then every MaxSampleDistance, and ends with a point SideDistance
// before the tip. A regular sample that leaves no more than MaxSampleDistance
// to the tip becomes the end point instead.
func (s *centerLine) sampleBranch(root skeleton.NodeID, branch skeleton.Path, startOffset float64, firstType islandmodel.Type) {
	maxDist, side := s.cfg.MaxSampleDistance, s.cfg.SideDistance

	full := make([]skeleton.NodeID, 0, len(branch.Nodes)+1)
	full = append(full, root)
	full = append(full, branch.Nodes...)
	for i, n := range full {
		s.processed[n] = true
		if i > 0 {
			s.sampled[skeleton.Undirected(s.g.EdgeBetween(full[i-1], n))] = true
		}
	}

	length := branch.Length - side
	if length < 0 {
		// too short for a regular sample, measure back from the tip
		tip := min(side, branch.Length)
		s.points = append(s.points, CreatePointOnPath(s.g, reversedNodes(full), tip, islandmodel.CenterLineEnd))
		for _, n := range branch.Nodes {
			s.sampleBranches(n, 0)
		}
		return
	}

	next := maxDist - startOffset
	prev := -startOffset
	kind := firstType
	last := -1
	var walked float64

	promoted := func() bool {
		return last >= 0 && s.points[last].Type() == islandmodel.CenterLine && lessEq(length-prev, maxDist-side)
	}

	for i := 1; i < len(full); i++ {
		e := s.g.EdgeBetween(full[i-1], full[i])
		l := s.g.Edges[e].Length

		for next <= walked+l && next < length-epsilon {
			s.points = append(s.points, CreatePoint(s.g, e, (next-walked)/l, kind))
			last = len(s.points) - 1
			kind = islandmodel.CenterLine
			prev = next
			next += maxDist
		}
		walked += l

		if len(s.ex.SideBranches[full[i]]) == 0 {
			continue
		}
		before := walked - prev
		after := next - walked
		if next >= length-epsilon {
			// no regular sample follows, the next point is the end
			end := length
			if promoted() {
				end = prev
			}
			after = end - walked
			if walked >= end {
				before = walked - end
				after = math.Inf(1)
			}
		}
		s.sampleBranches(full[i], min(before, after))
	}

	if promoted() {
		s.points[last] = s.points[last].WithType(islandmodel.CenterLineEnd)
		return
	}
	s.points = append(s.points, CreatePointOnPath(s.g, full, length, islandmodel.CenterLineEnd))
}
