package skeleton

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidGraph = errors.New("invalid skeleton graph")

// Validate checks the structural invariants the samplers rely on. Samplers
// treat a violation as a programming error, so untrusted input should pass
// through here first.
func Validate(g *Graph) error {
	lines := 0
	if g.Boundary != nil {
		lines = len(g.Boundary.Lines)
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Width < 0 || math.IsNaN(n.Width) {
			return fmt.Errorf("%w: node %d has width %v", ErrInvalidGraph, i, n.Width)
		}
		for _, e := range n.Edges {
			if e < 0 || int(e) >= len(g.Edges) {
				return fmt.Errorf("%w: node %d references missing edge %d", ErrInvalidGraph, i, e)
			}
			if g.Edges[e].From != NodeID(i) {
				return fmt.Errorf("%w: edge %d listed at node %d starts at %d", ErrInvalidGraph, e, i, g.Edges[e].From)
			}
		}
	}

	for i := range g.Edges {
		e := EdgeID(i)
		n := &g.Edges[i]
		if !g.validNode(n.From) || !g.validNode(n.To) {
			return fmt.Errorf("%w: edge %d references a missing node", ErrInvalidGraph, e)
		}
		if n.Twin != e^1 || int(n.Twin) >= len(g.Edges) {
			return fmt.Errorf("%w: edge %d has no twin", ErrInvalidGraph, e)
		}
		twin := &g.Edges[n.Twin]
		if twin.Twin != e || twin.From != n.To || twin.To != n.From {
			return fmt.Errorf("%w: edge %d and its twin %d disagree", ErrInvalidGraph, e, n.Twin)
		}
		if twin.Left != n.Right || twin.Right != n.Left {
			return fmt.Errorf("%w: edge %d and its twin %d swap lines inconsistently", ErrInvalidGraph, e, n.Twin)
		}
		if !(n.Length > 0) {
			return fmt.Errorf("%w: edge %d has length %v", ErrInvalidGraph, e, n.Length)
		}
		for _, l := range [...]int{n.Left, n.Right} {
			if l != NoLine && (l < 0 || l >= lines) {
				return fmt.Errorf("%w: edge %d references missing line %d", ErrInvalidGraph, e, l)
			}
		}
	}

	if len(g.Nodes) == 0 {
		return nil
	}
	if !g.validNode(g.ContourStart) {
		return fmt.Errorf("%w: contour start %d is not a node", ErrInvalidGraph, g.ContourStart)
	}

	seen := make([]bool, len(g.Nodes))
	seen[g.ContourStart] = true
	stack := []NodeID{g.ContourStart}
	count := 1
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.Nodes[n].Edges {
			to := g.Edges[e].To
			if !seen[to] {
				seen[to] = true
				count++
				stack = append(stack, to)
			}
		}
	}
	if count != len(g.Nodes) {
		return fmt.Errorf("%w: %d of %d nodes are not connected to the contour start", ErrInvalidGraph, len(g.Nodes)-count, len(g.Nodes))
	}

	return nil
}
