// Package skeleton holds the medial-axis graph of an island as a flat arena
// of nodes and directed edges addressed by integer ids.
package skeleton

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/islandsupport/internal/assert"
)

type NodeID int32
type EdgeID int32

const (
	NoNode NodeID = -1
	NoEdge EdgeID = -1
	NoLine        = -1
)

type Node struct {
	Point orb.Point
	// Width is the island thickness at the node.
	Width float64
	Edges []EdgeID
}

// Neighbor is a directed edge. Left and Right are the boundary lines on each
// side of the edge when travelling From -> To.
type Neighbor struct {
	From, To  NodeID
	Twin      EdgeID
	Length    float64
	FromWidth float64
	ToWidth   float64
	Left      int
	Right     int
}

func (n *Neighbor) MaxWidth() float64 { return max(n.FromWidth, n.ToWidth) }
func (n *Neighbor) MinWidth() float64 { return min(n.FromWidth, n.ToWidth) }

// WidthAt interpolates the island width along the edge.
func (n *Neighbor) WidthAt(ratio float64) float64 {
	return n.FromWidth + (n.ToWidth-n.FromWidth)*ratio
}

type Graph struct {
	Nodes    []Node
	Edges    []Neighbor
	Boundary *Boundary
	// ContourStart is the node nearest to the start of the outer contour.
	ContourStart NodeID
}

func NewGraph(boundary *Boundary) *Graph {
	if boundary == nil {
		boundary = &Boundary{}
	}
	return &Graph{
		Boundary:     boundary,
		ContourStart: NoNode,
	}
}

func (g *Graph) AddNode(p orb.Point, width float64) NodeID {
	g.Nodes = append(g.Nodes, Node{Point: p, Width: width})
	return NodeID(len(g.Nodes) - 1)
}

// AddEdge creates the edge from -> to together with its twin and returns the
// id of the former. Twins always occupy the ids 2k and 2k+1.
func (g *Graph) AddEdge(from, to NodeID, left, right int) EdgeID {
	assert.That(g.validNode(from) && g.validNode(to), "edge %d -> %d references a missing node", from, to)

	a, b := g.Nodes[from], g.Nodes[to]
	length := planar.Distance(a.Point, b.Point)
	id := EdgeID(len(g.Edges))

	g.Edges = append(g.Edges,
		Neighbor{From: from, To: to, Twin: id + 1, Length: length, FromWidth: a.Width, ToWidth: b.Width, Left: left, Right: right},
		Neighbor{From: to, To: from, Twin: id, Length: length, FromWidth: b.Width, ToWidth: a.Width, Left: right, Right: left},
	)
	g.Nodes[from].Edges = append(g.Nodes[from].Edges, id)
	g.Nodes[to].Edges = append(g.Nodes[to].Edges, id+1)

	return id
}

func (g *Graph) Edge(e EdgeID) *Neighbor {
	return &g.Edges[e]
}

// EdgeBetween returns the first edge from a to b or NoEdge.
func (g *Graph) EdgeBetween(a, b NodeID) EdgeID {
	for _, e := range g.Nodes[a].Edges {
		if g.Edges[e].To == b {
			return e
		}
	}
	return NoEdge
}

// PointAt resolves a position into a coordinate on the straight edge segment.
func (g *Graph) PointAt(pos Position) orb.Point {
	n := &g.Edges[pos.Edge]
	return lerp(g.Nodes[n.From].Point, g.Nodes[n.To].Point, pos.Ratio)
}

// IsLeaf reports whether only one edge leaves the node.
func (g *Graph) IsLeaf(n NodeID) bool {
	return len(g.Nodes[n].Edges) == 1
}

// MaxEdgeWidth is the largest width over all edges.
func (g *Graph) MaxEdgeWidth() float64 {
	var w float64
	for i := range g.Edges {
		w = max(w, g.Edges[i].MaxWidth())
	}
	return w
}

func (g *Graph) validNode(n NodeID) bool {
	return n >= 0 && int(n) < len(g.Nodes)
}

// Undirected maps both edges of a twin pair onto one key.
func Undirected(e EdgeID) EdgeID {
	return e &^ 1
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}
