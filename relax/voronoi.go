package relax

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/royalcat/islandsupport/kdbush"
)

type diagram struct {
	sites []orb.Point
	index *kdbush.KDBush[int]
	box   orb.Bound
	// diagonal of box, no cell can reach farther
	reach float64
	// first search radius
	radius float64
}

func newDiagram(sites []orb.Point, box orb.Bound) *diagram {
	points := make([]kdbush.Point[int], len(sites))
	for i, s := range sites {
		points[i] = kdbush.Point[int]{X: s[0], Y: s[1], Data: i}
	}

	w, h := box.Max[0]-box.Min[0], box.Max[1]-box.Min[1]
	reach := math.Hypot(w, h)
	radius := reach
	if len(sites) > 1 {
		radius = 2 * math.Sqrt(w*h/float64(len(sites)))
	}

	return &diagram{
		sites:  sites,
		index:  kdbush.NewBush(points, kdbush.DefaultNodeSize),
		box:    box,
		reach:  reach,
		radius: max(radius, 1e-9),
	}
}

type neighbour struct {
	site int
	dist float64
}

// cell returns the Voronoi cell of site i clipped to the box. Sites closer
// than r are cut in; the cell is final once no site beyond r can reach it.
func (d *diagram) cell(i int) orb.Ring {
	site := d.sites[i]
	r := d.radius

	for {
		var near []neighbour
		d.index.Within(site[0], site[1], r, func(j int, p kdbush.Point[int]) bool {
			if j != i {
				near = append(near, neighbour{site: j, dist: math.Hypot(p.X-site[0], p.Y-site[1])})
			}
			return true
		})
		slices.SortFunc(near, func(a, b neighbour) int {
			switch {
			case a.dist < b.dist:
				return -1
			case a.dist > b.dist:
				return 1
			}
			return a.site - b.site
		})

		cell := boxRing(d.box)
		for _, n := range near {
			if n.dist == 0 {
				// duplicate sites share their cell
				continue
			}
			cell = clipHalfPlane(cell, site, d.sites[n.site])
			if len(cell) == 0 {
				return nil
			}
		}

		var far float64
		for _, v := range cell {
			far = max(far, math.Hypot(v[0]-site[0], v[1]-site[1]))
		}
		if 2*far <= r || r >= 2*d.reach {
			return cell
		}
		r = max(2*far, 2*r)
	}
}

func boxRing(b orb.Bound) orb.Ring {
	return orb.Ring{
		b.Min,
		{b.Max[0], b.Min[1]},
		b.Max,
		{b.Min[0], b.Max[1]},
	}
}
