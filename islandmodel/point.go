package islandmodel

import (
	"github.com/paulmach/orb"
	"github.com/royalcat/islandsupport/skeleton"
	"golang.org/x/image/math/fixed"
)

type Type uint8

const (
	SingleCenter Type = iota
	TwoPoints
	CenterLine
	CenterLineEnd
	CenterLineStart
	CenterCircle
	CenterCircleEnd
	Outline
	Inner
)

var typeNames = [...]string{
	SingleCenter:    "single_center",
	TwoPoints:       "two_points",
	CenterLine:      "center_line",
	CenterLineEnd:   "center_line_end",
	CenterLineStart: "center_line_start",
	CenterCircle:    "center_circle",
	CenterCircleEnd: "center_circle_end",
	Outline:         "outline",
	Inner:           "inner",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Movable reports whether the relaxation may relocate points of this type.
func (t Type) Movable() bool {
	switch t {
	case CenterLine, CenterCircle, Inner:
		return true
	}
	return false
}

// Source is the provenance of a support point. It is either CenterSource,
// OutlineSource or nil.
type Source interface {
	isSource()
}

type CenterSource struct {
	Position skeleton.Position
}

type OutlineSource struct {
	Line int
}

func (CenterSource) isSource()  {}
func (OutlineSource) isSource() {}

// SupportPoint is one support anchor. Only Point may change after creation.
type SupportPoint struct {
	Point fixed.Point52_12

	kind   Type
	source Source
}

func New(p orb.Point, kind Type, source Source) SupportPoint {
	return SupportPoint{
		Point:  ToFixed(p),
		kind:   kind,
		source: source,
	}
}

func (p SupportPoint) Type() Type     { return p.kind }
func (p SupportPoint) Source() Source { return p.source }
func (p SupportPoint) Orb() orb.Point { return ToOrb(p.Point) }

// WithType returns p with a different type, keeping position and source.
func (p SupportPoint) WithType(kind Type) SupportPoint {
	p.kind = kind
	return p
}
