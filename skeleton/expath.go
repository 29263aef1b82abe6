package skeleton

import (
	"slices"
)

type tree struct {
	parent     []NodeID
	parentEdge []EdgeID
	depth      []int
	children   [][]NodeID
	// order lists reachable nodes parents first
	order []NodeID
}

// BuildExPath derives the longest path of the graph, the side branches of
// every node on it and the cycles of the graph. Nodes unreachable from the
// contour start are ignored.
func BuildExPath(g *Graph) ExPath {
	ex := ExPath{
		SideBranches:     map[NodeID][]Path{},
		ConnectedCircles: map[int][]int{},
	}
	if len(g.Nodes) == 0 {
		return ex
	}

	start := g.ContourStart
	if !g.validNode(start) {
		start = 0
	}

	inTree := spanningTree(g, start)
	first := farthest(g, inTree, start)
	t := rootTree(g, inTree, first)

	height := make([]float64, len(g.Nodes))
	best := make([]NodeID, len(g.Nodes))
	for i := range best {
		best[i] = NoNode
	}
	for i := len(t.order) - 1; i >= 0; i-- {
		n := t.order[i]
		for _, c := range t.children[n] {
			h := g.Edges[t.parentEdge[c]].Length + height[c]
			if best[n] == NoNode || h > height[n] {
				height[n] = h
				best[n] = c
			}
		}
	}

	descend := func(from NodeID) []NodeID {
		var nodes []NodeID
		for n := from; n != NoNode; n = best[n] {
			nodes = append(nodes, n)
		}
		return nodes
	}

	ex.Path = Path{Nodes: descend(first), Length: height[first]}

	stack := [][]NodeID{ex.Path.Nodes}
	for len(stack) > 0 {
		line := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, n := range line {
			for _, c := range t.children[n] {
				if c == best[n] {
					continue
				}
				branch := Path{
					Nodes:  descend(c),
					Length: g.Edges[t.parentEdge[c]].Length + height[c],
				}
				ex.SideBranches[n] = append(ex.SideBranches[n], branch)
				stack = append(stack, branch.Nodes)
			}
		}
	}
	for n, branches := range ex.SideBranches {
		slices.SortStableFunc(branches, func(a, b Path) int {
			switch {
			case a.Length > b.Length:
				return -1
			case a.Length < b.Length:
				return 1
			}
			return 0
		})
		ex.SideBranches[n] = branches
	}

	ex.Circles = findCircles(g, inTree, t)
	ex.ConnectedCircles = connectCircles(ex.Circles)

	return ex
}

// spanningTree marks the undirected edges of a breadth first tree.
func spanningTree(g *Graph, start NodeID) map[EdgeID]bool {
	inTree := map[EdgeID]bool{}
	seen := make([]bool, len(g.Nodes))
	seen[start] = true

	queue := []NodeID{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range g.Nodes[n].Edges {
			to := g.Edges[e].To
			if seen[to] {
				continue
			}
			seen[to] = true
			inTree[Undirected(e)] = true
			queue = append(queue, to)
		}
	}
	return inTree
}

func treeEdges(g *Graph, inTree map[EdgeID]bool, n NodeID) []EdgeID {
	var out []EdgeID
	for _, e := range g.Nodes[n].Edges {
		if inTree[Undirected(e)] {
			out = append(out, e)
		}
	}
	return out
}

func farthest(g *Graph, inTree map[EdgeID]bool, from NodeID) NodeID {
	dist := make([]float64, len(g.Nodes))
	seen := make([]bool, len(g.Nodes))
	seen[from] = true

	result := from
	stack := []NodeID{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if dist[n] > dist[result] {
			result = n
		}
		for _, e := range treeEdges(g, inTree, n) {
			to := g.Edges[e].To
			if seen[to] {
				continue
			}
			seen[to] = true
			dist[to] = dist[n] + g.Edges[e].Length
			stack = append(stack, to)
		}
	}
	return result
}

func rootTree(g *Graph, inTree map[EdgeID]bool, root NodeID) tree {
	t := tree{
		parent:     make([]NodeID, len(g.Nodes)),
		parentEdge: make([]EdgeID, len(g.Nodes)),
		depth:      make([]int, len(g.Nodes)),
		children:   make([][]NodeID, len(g.Nodes)),
	}
	seen := make([]bool, len(g.Nodes))
	for i := range t.parent {
		t.parent[i] = NoNode
		t.parentEdge[i] = NoEdge
	}

	seen[root] = true
	stack := []NodeID{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t.order = append(t.order, n)

		for _, e := range treeEdges(g, inTree, n) {
			to := g.Edges[e].To
			if seen[to] {
				continue
			}
			seen[to] = true
			t.parent[to] = n
			t.parentEdge[to] = e
			t.depth[to] = t.depth[n] + 1
			t.children[n] = append(t.children[n], to)
			stack = append(stack, to)
		}
	}
	return t
}

// findCircles closes one cycle per edge outside the spanning tree.
func findCircles(g *Graph, inTree map[EdgeID]bool, t tree) []Circle {
	reachable := make([]bool, len(g.Nodes))
	for _, n := range t.order {
		reachable[n] = true
	}

	var circles []Circle
	for i := 0; i < len(g.Edges); i += 2 {
		e := EdgeID(i)
		n := &g.Edges[e]
		if inTree[e] || n.From == n.To || !reachable[n.From] {
			continue
		}

		u, v := n.From, n.To
		if lca(t, u, v) == v {
			u, v = v, u
			e = n.Twin
		}
		top := lca(t, u, v)

		var down []NodeID
		for x := u; x != top; x = t.parent[x] {
			down = append(down, x)
		}
		down = append(down, top)
		slices.Reverse(down)

		var up []NodeID
		for x := v; x != top; x = t.parent[x] {
			up = append(up, x)
		}

		c := Circle{Nodes: append(down, up...)}
		for j := 1; j < len(down); j++ {
			c.Edges = append(c.Edges, t.parentEdge[down[j]])
		}
		c.Edges = append(c.Edges, e)
		for _, x := range up {
			c.Edges = append(c.Edges, g.Edges[t.parentEdge[x]].Twin)
		}
		for _, ce := range c.Edges {
			c.Length += g.Edges[ce].Length
		}
		circles = append(circles, c)
	}
	return circles
}

func lca(t tree, a, b NodeID) NodeID {
	for t.depth[a] > t.depth[b] {
		a = t.parent[a]
	}
	for t.depth[b] > t.depth[a] {
		b = t.parent[b]
	}
	for a != b {
		a, b = t.parent[a], t.parent[b]
	}
	return a
}

func connectCircles(circles []Circle) map[int][]int {
	out := map[int][]int{}
	byNode := map[NodeID][]int{}
	for i, c := range circles {
		for _, n := range c.Nodes {
			byNode[n] = append(byNode[n], i)
		}
	}
	for i, c := range circles {
		linked := map[int]bool{}
		for _, n := range c.Nodes {
			for _, j := range byNode[n] {
				if j != i && !linked[j] {
					linked[j] = true
					out[i] = append(out[i], j)
				}
			}
		}
		slices.Sort(out[i])
	}
	return out
}
