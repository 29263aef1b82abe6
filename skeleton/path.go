package skeleton

// Position locates a point on an edge, Ratio 0 is the From node.
type Position struct {
	Edge  EdgeID
	Ratio float64
}

type Path struct {
	Nodes  []NodeID
	Length float64
}

// Circle is a cycle of nodes. Edges[i] leads from Nodes[i] to
// Nodes[(i+1)%len(Nodes)].
type Circle struct {
	Nodes  []NodeID
	Edges  []EdgeID
	Length float64
}

func (c Circle) Contains(n NodeID) bool {
	for _, m := range c.Nodes {
		if m == n {
			return true
		}
	}
	return false
}

// ExPath is the dominant path of the skeleton together with the side branches
// hanging off every node and the cycles of the graph.
type ExPath struct {
	Path
	// SideBranches are keyed by their root node. A branch does not contain
	// its root. Each slice is sorted longest first.
	SideBranches map[NodeID][]Path
	Circles      []Circle
	// ConnectedCircles links circles sharing at least one node.
	ConnectedCircles map[int][]int
}

// PathLength sums edge lengths along consecutive nodes.
func PathLength(g *Graph, nodes []NodeID) float64 {
	var l float64
	for i := 1; i < len(nodes); i++ {
		e := g.EdgeBetween(nodes[i-1], nodes[i])
		if e == NoEdge {
			continue
		}
		l += g.Edges[e].Length
	}
	return l
}
