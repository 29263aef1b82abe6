package relax

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// clipHalfPlane keeps the part of the convex open ring that is closer to
// site than to other.
func clipHalfPlane(ring orb.Ring, site, other orb.Point) orb.Ring {
	nx, ny := other[0]-site[0], other[1]-site[1]
	c := nx*(site[0]+other[0])/2 + ny*(site[1]+other[1])/2
	side := func(p orb.Point) float64 { return nx*p[0] + ny*p[1] - c }

	out := make(orb.Ring, 0, len(ring)+1)
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		sa, sb := side(a), side(b)
		if sa <= 0 {
			out = append(out, a)
		}
		if (sa < 0 && sb > 0) || (sa > 0 && sb < 0) {
			t := sa / (sa - sb)
			out = append(out, orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t})
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

func toGeom(p orb.Polygon) geom.Polygon {
	out := make(geom.Polygon, 0, len(p))
	for _, r := range p {
		out = append(out, ringToGeom(r))
	}
	return out
}

func ringToGeom(r orb.Ring) []geom.Point {
	out := make([]geom.Point, 0, len(r)+1)
	for _, p := range r {
		out = append(out, geom.Point{X: p[0], Y: p[1]})
	}
	if len(r) > 0 && r[0] != r[len(r)-1] {
		out = append(out, geom.Point{X: r[0][0], Y: r[0][1]})
	}
	return out
}

func ringFromGeom(r []geom.Point) orb.Ring {
	out := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		out = append(out, orb.Point{p.X, p.Y})
	}
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}

// clipCell intersects the cell with the island and returns the connected
// piece holding site, or the nearest piece when site lies on none.
func clipCell(cell orb.Ring, island geom.Polygon, site orb.Point) orb.Polygon {
	if len(cell) < 3 {
		return nil
	}
	pieces := splitPieces(geom.Polygon{ringToGeom(cell)}.Intersection(island))
	if len(pieces) == 0 {
		return nil
	}

	for _, piece := range pieces {
		if planar.PolygonContains(piece, site) {
			return piece
		}
	}

	best, bestDist := 0, math.Inf(1)
	for i, piece := range pieces {
		if d := planar.DistanceFrom(piece, site); d < bestDist {
			best, bestDist = i, d
		}
	}
	return pieces[best]
}

// splitPieces groups the flat ring list of a clipping result into polygons.
// A ring nested in an even number of other rings is an outer ring, the
// others are holes of the ring directly around them.
func splitPieces(p geom.Polygon) []orb.Polygon {
	rings := make([]orb.Ring, 0, len(p))
	for _, r := range p {
		if ring := ringFromGeom(r); len(ring) >= 4 && planar.Area(ring) != 0 {
			rings = append(rings, ring)
		}
	}

	depth := make([]int, len(rings))
	parent := make([]int, len(rings))
	for i := range rings {
		parent[i] = -1
		for j := range rings {
			if i == j || !planar.RingContains(rings[j], rings[i][0]) {
				continue
			}
			depth[i]++
			if parent[i] == -1 || math.Abs(planar.Area(rings[j])) < math.Abs(planar.Area(rings[parent[i]])) {
				parent[i] = j
			}
		}
	}

	piece := make(map[int]int, len(rings))
	var out []orb.Polygon
	for i, r := range rings {
		if depth[i]%2 != 0 {
			continue
		}
		if r.Orientation() != orb.CCW {
			r.Reverse()
		}
		piece[i] = len(out)
		out = append(out, orb.Polygon{r})
	}
	for i, r := range rings {
		if depth[i]%2 == 0 || parent[i] == -1 {
			continue
		}
		k, ok := piece[parent[i]]
		if !ok {
			continue
		}
		if r.Orientation() != orb.CW {
			r.Reverse()
		}
		out[k] = append(out[k], r)
	}
	return out
}
