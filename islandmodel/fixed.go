package islandmodel

import (
	"math"

	"github.com/paulmach/orb"
	"golang.org/x/image/math/fixed"
)

const fixedOne = 1 << 12

func toInt52_12(v float64) fixed.Int52_12 {
	return fixed.Int52_12(math.Round(v * fixedOne))
}

func ToFixed(p orb.Point) fixed.Point52_12 {
	return fixed.Point52_12{X: toInt52_12(p[0]), Y: toInt52_12(p[1])}
}

func ToOrb(p fixed.Point52_12) orb.Point {
	return orb.Point{float64(p.X) / fixedOne, float64(p.Y) / fixedOne}
}

// DistanceSquared is the squared distance in fixed-point units. It overflows
// for points more than about 7.4e5 units apart; use a float distance there.
func DistanceSquared(a, b fixed.Point52_12) int64 {
	d := a.Sub(b)
	return int64(d.X)*int64(d.X) + int64(d.Y)*int64(d.Y)
}

// FixedLength converts a length to fixed-point units.
func FixedLength(v float64) int64 {
	return int64(toInt52_12(v))
}
