package sampler

import (
	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/skeleton"
)

// centerStart is a pending walk along thin parts of the skeleton.
type centerStart struct {
	edge  skeleton.EdgeID
	ratio float64
	// supportIn is the distance from the start to the next sample.
	supportIn float64
	// path holds the nodes behind the start, used to place end points.
	path []skeleton.NodeID
}

// fieldWalk samples an island that has wide parts. Thin parts are sampled
// by walking their center line, wide parts become fields.
type fieldWalk struct {
	g   *skeleton.Graph
	cfg Config

	done    []bool
	visited map[skeleton.EdgeID]bool
	starts  []centerStart

	points []islandmodel.SupportPoint
	fields []Field
}

func newFieldWalk(g *skeleton.Graph, cfg Config) *fieldWalk {
	return &fieldWalk{
		g:       g,
		cfg:     cfg,
		done:    make([]bool, len(g.Nodes)),
		visited: map[skeleton.EdgeID]bool{},
	}
}

func (w *fieldWalk) run(start skeleton.NodeID) {
	w.done[start] = true
	edges := w.g.Nodes[start].Edges
	for i := len(edges) - 1; i >= 0; i-- {
		w.starts = append(w.starts, centerStart{
			edge:      edges[i],
			supportIn: w.cfg.SideDistance,
			path:      []skeleton.NodeID{start},
		})
	}

	for len(w.starts) > 0 {
		cs := w.starts[len(w.starts)-1]
		w.starts = w.starts[:len(w.starts)-1]
		w.sampleCenter(cs)
	}
}

// sampleCenter follows thin edges from cs. At a fork the first unvisited
// edge continues the walk and the others are queued with the current
// distance to the next sample.
func (w *fieldWalk) sampleCenter(cs centerStart) {
	g := w.g
	maxDist := w.cfg.MaxSampleDistance
	wide := w.cfg.MaxWidthForCenterSupportLine

	e, ratio, supportIn := cs.edge, cs.ratio, cs.supportIn
	path := append([]skeleton.NodeID(nil), cs.path...)
	// walked is measured from the start, branch from the last fork
	var walked, branch float64
	last := -1

	for {
		key := skeleton.Undirected(e)
		if w.visited[key] {
			return
		}
		n := g.Edge(e)

		if greater(n.WidthAt(ratio), wide) {
			// standing inside a wide part
			w.addField(n.From, nil)
			return
		}
		w.visited[key] = true

		if greater(n.ToWidth, wide) {
			r := widthCrossing(n, ratio, w.cfg.MinWidthForOutlineSupport)
			l := n.Length * (r - ratio)
			for x := supportIn; x < l; x += maxDist {
				w.points = append(w.points, CreatePoint(g, e, ratio+x/n.Length, islandmodel.CenterLine))
			}
			if !w.done[n.To] {
				start := newChange(g, n.Twin, 1-r)
				w.addField(n.To, &start)
			}
			return
		}

		l := n.Length * (1 - ratio)
		x := supportIn
		for ; x <= l; x += maxDist {
			w.points = append(w.points, CreatePoint(g, e, ratio+x/n.Length, islandmodel.CenterLine))
			last = len(w.points) - 1
		}
		supportIn = x - l
		walked += l
		branch += l
		path = append(path, n.To)

		if w.done[n.To] {
			return
		}
		w.done[n.To] = true

		var next []skeleton.EdgeID
		for _, o := range g.Nodes[n.To].Edges {
			if o != n.Twin && !w.visited[skeleton.Undirected(o)] {
				next = append(next, o)
			}
		}

		if len(next) == 0 {
			if g.IsLeaf(n.To) && greater(branch, w.cfg.MinSideBranchLength) {
				w.addEnd(path, walked, last, maxDist-supportIn)
			}
			return
		}

		for i := len(next) - 1; i >= 1; i-- {
			w.starts = append(w.starts, centerStart{
				edge:      next[i],
				supportIn: supportIn,
				path:      []skeleton.NodeID{n.To},
			})
		}
		if len(next) > 1 {
			branch = 0
		}
		e, ratio = next[0], 0
	}
}

// addEnd marks the tip of a thin branch. tipDist is the distance from the
// tip back to the last sample. A sample of this walk within
// MaxSampleDistance of the tip becomes the end point, otherwise a new point
// is placed SideDistance before the tip.
func (w *fieldWalk) addEnd(path []skeleton.NodeID, walked float64, last int, tipDist float64) {
	if last >= 0 && lessEq(tipDist, w.cfg.MaxSampleDistance) {
		w.points[last] = w.points[last].WithType(islandmodel.CenterLineEnd)
		return
	}
	back := min(w.cfg.SideDistance, walked)
	w.points = append(w.points, CreatePointOnPath(w.g, reversedNodes(path), back, islandmodel.CenterLineEnd))
}

func (w *fieldWalk) addField(seed skeleton.NodeID, start *change) {
	b := fieldBuilder{g: w.g, cfg: w.cfg, done: w.done, visited: w.visited}
	field, changes := b.build(seed, start)
	if len(field.Border) > 0 {
		w.fields = append(w.fields, field)
	}

	for i := len(changes) - 1; i >= 0; i-- {
		c := changes[i]
		w.starts = append(w.starts, centerStart{
			edge:      c.edge,
			ratio:     c.ratio,
			supportIn: w.cfg.OutlineSampleDistance / 2,
			path:      []skeleton.NodeID{w.g.Edge(c.edge).From},
		})
	}
}
