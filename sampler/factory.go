package sampler

import (
	"github.com/royalcat/islandsupport/internal/assert"
	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/skeleton"
)

const epsilon = 1e-9

func lessEq(a, b float64) bool  { return a <= b+epsilon }
func greater(a, b float64) bool { return a > b+epsilon }

// CreatePoint places a point on the straight edge segment.
func CreatePoint(g *skeleton.Graph, e skeleton.EdgeID, ratio float64, kind islandmodel.Type) islandmodel.SupportPoint {
	assert.That(ratio >= -epsilon && ratio <= 1+epsilon, "ratio %v of edge %d out of range", ratio, e)
	ratio = min(max(ratio, 0), 1)

	pos := skeleton.Position{Edge: e, Ratio: ratio}
	return islandmodel.New(g.PointAt(pos), kind, islandmodel.CenterSource{Position: pos})
}

// CreatePointOnPath places a point where the cumulative edge length along
// nodes first reaches distance.
func CreatePointOnPath(g *skeleton.Graph, nodes []skeleton.NodeID, distance float64, kind islandmodel.Type) islandmodel.SupportPoint {
	assert.That(len(nodes) > 0, "empty path")
	assert.That(distance >= -epsilon, "negative distance %v", distance)

	if len(nodes) == 1 {
		assert.That(distance <= epsilon, "distance %v exceeds single node path", distance)
		n := nodes[0]
		if edges := g.Nodes[n].Edges; len(edges) > 0 {
			return CreatePoint(g, edges[0], 0, kind)
		}
		return islandmodel.New(g.Nodes[n].Point, kind, nil)
	}

	for i := 1; i < len(nodes); i++ {
		e := g.EdgeBetween(nodes[i-1], nodes[i])
		assert.That(e != skeleton.NoEdge, "no edge between %d and %d", nodes[i-1], nodes[i])

		l := g.Edges[e].Length
		if distance <= l || i == len(nodes)-1 {
			assert.That(lessEq(distance, l), "distance exceeds path length by %v", distance-l)
			return CreatePoint(g, e, min(max(distance/l, 0), 1), kind)
		}
		distance -= l
	}
	panic("unreachable")
}

func reversedNodes(nodes []skeleton.NodeID) []skeleton.NodeID {
	out := make([]skeleton.NodeID, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}
