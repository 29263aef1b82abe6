// Package kdbush is a static 2D KD index over a fixed set of points.
package kdbush

import (
	"math"
)

const DefaultNodeSize = 16

type Point[T any] struct {
	X, Y float64
	Data T
}

type KDBush[T any] struct {
	NodeSize int
	Points   []Point[T]

	idxs   []int     // point indexes, reordered by the tree
	coords []float64 // x0, y0, x1, y1, ... in tree order
}

func NewBush[T any](points []Point[T], nodeSize int) *KDBush[T] {
	if nodeSize <= 0 {
		nodeSize = DefaultNodeSize
	}
	b := KDBush[T]{}
	b.buildIndex(points, nodeSize)
	return &b
}

func (bush *KDBush[T]) Len() int {
	return len(bush.Points)
}

// Range returns the indexes of the points inside the box.
func (bush *KDBush[T]) Range(minX, minY, maxX, maxY float64) []int {
	result := []int{}
	bush.walk(
		func(x, y float64, axis int) (bool, bool) {
			if axis == 0 {
				return minX <= x, maxX >= x
			}
			return minY <= y, maxY >= y
		},
		func(i int, x, y float64) bool {
			if x >= minX && x <= maxX && y >= minY && y <= maxY {
				result = append(result, i)
			}
			return true
		},
	)
	return result
}

// Within calls handler with the index of every point no farther than radius
// from (qx, qy) until the handler returns false.
func (bush *KDBush[T]) Within(qx, qy float64, radius float64, handler func(i int, p Point[T]) bool) {
	r2 := radius * radius
	bush.walk(
		func(x, y float64, axis int) (bool, bool) {
			if axis == 0 {
				return qx-radius <= x, qx+radius >= x
			}
			return qy-radius <= y, qy+radius >= y
		},
		func(i int, x, y float64) bool {
			if sqDist(x, y, qx, qy) <= r2 {
				return handler(i, bush.Points[i])
			}
			return true
		},
	)
}

// walk visits the tree without recursion. descend reports whether the left
// and the right half of a split may hold matches; visit returns false to stop.
func (bush *KDBush[T]) walk(descend func(x, y float64, axis int) (bool, bool), visit func(i int, x, y float64) bool) {
	if len(bush.idxs) == 0 {
		return
	}
	stack := []int{0, len(bush.idxs) - 1, 0}

	for len(stack) > 0 {
		axis := stack[len(stack)-1]
		right := stack[len(stack)-2]
		left := stack[len(stack)-3]
		stack = stack[:len(stack)-3]

		if right-left <= bush.NodeSize {
			for i := left; i <= right; i++ {
				if !visit(bush.idxs[i], bush.coords[2*i], bush.coords[2*i+1]) {
					return
				}
			}
			continue
		}

		m := (left + right) / 2
		x := bush.coords[2*m]
		y := bush.coords[2*m+1]

		if !visit(bush.idxs[m], x, y) {
			return
		}

		nextAxis := (axis + 1) % 2
		goLeft, goRight := descend(x, y, axis)
		if goLeft {
			stack = append(stack, left, m-1, nextAxis)
		}
		if goRight {
			stack = append(stack, m+1, right, nextAxis)
		}
	}
}

func (bush *KDBush[T]) buildIndex(points []Point[T], nodeSize int) {
	bush.NodeSize = nodeSize
	bush.Points = points

	bush.idxs = make([]int, len(points))
	bush.coords = make([]float64, 2*len(points))

	for i, v := range points {
		bush.idxs[i] = i
		bush.coords[i*2] = v.X
		bush.coords[i*2+1] = v.Y
	}

	sortKD(bush.idxs, bush.coords, bush.NodeSize, 0, len(bush.idxs)-1, 0)
}

func sortKD(idxs []int, coords []float64, nodeSize int, left, right, depth int) {
	if (right - left) <= nodeSize {
		return
	}

	m := (left + right) / 2

	sselect(idxs, coords, m, left, right, depth%2)

	sortKD(idxs, coords, nodeSize, left, m-1, depth+1)
	sortKD(idxs, coords, nodeSize, m+1, right, depth+1)
}

// sselect is Floyd-Rivest selection: it partially sorts the range so that the
// k-th coordinate on the given axis ends up at k.
func sselect(idxs []int, coords []float64, k, left, right, inc int) {
	for right > left {
		if (right - left) > 600 {
			n := right - left + 1
			m := k - left + 1
			z := math.Log(float64(n))
			s := 0.5 * math.Exp(2.0*z/3.0)
			sds := 1.0
			if float64(m)-float64(n)/2.0 < 0 {
				sds = -1.0
			}
			ns := float64(n) - s
			sd := 0.5 * math.Sqrt(z*s*ns/float64(n)) * sds
			newLeft := max(left, int(math.Floor(float64(k)-float64(m)*s/float64(n)+sd)))
			newRight := min(right, int(math.Floor(float64(k)+float64(n-m)*s/float64(n)+sd)))
			sselect(idxs, coords, k, newLeft, newRight, inc)
		}

		t := coords[2*k+inc]
		i := left
		j := right

		swapItem(idxs, coords, left, k)
		if coords[2*right+inc] > t {
			swapItem(idxs, coords, left, right)
		}

		for i < j {
			swapItem(idxs, coords, i, j)
			i++
			j--
			for coords[2*i+inc] < t {
				i++
			}
			for coords[2*j+inc] > t {
				j--
			}
		}

		if coords[2*left+inc] == t {
			swapItem(idxs, coords, left, j)
		} else {
			j++
			swapItem(idxs, coords, j, right)
		}

		if j <= k {
			left = j + 1
		}
		if k <= j {
			right = j - 1
		}
	}
}

func swapItem(idxs []int, coords []float64, i, j int) {
	idxs[i], idxs[j] = idxs[j], idxs[i]
	coords[2*i], coords[2*j] = coords[2*j], coords[2*i]
	coords[2*i+1], coords[2*j+1] = coords[2*j+1], coords[2*i+1]
}

func sqDist(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}
