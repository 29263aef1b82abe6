package islandmodel_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/skeleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	movable := map[islandmodel.Type]bool{
		islandmodel.CenterLine:   true,
		islandmodel.CenterCircle: true,
		islandmodel.Inner:        true,
	}
	all := []islandmodel.Type{
		islandmodel.SingleCenter, islandmodel.TwoPoints, islandmodel.CenterLine, islandmodel.CenterLineEnd,
		islandmodel.CenterLineStart, islandmodel.CenterCircle, islandmodel.CenterCircleEnd,
		islandmodel.Outline, islandmodel.Inner,
	}
	names := map[string]bool{}
	for _, typ := range all {
		assert.Equal(t, movable[typ], typ.Movable(), typ.String())
		names[typ.String()] = true
	}
	assert.Len(t, names, len(all))
	assert.Equal(t, "center_circle_end", islandmodel.CenterCircleEnd.String())
}

func TestSupportPoint(t *testing.T) {
	src := islandmodel.CenterSource{Position: skeleton.Position{Edge: 3, Ratio: 0.5}}
	p := islandmodel.New(orb.Point{1.5, -2.25}, islandmodel.CenterLine, src)

	assert.Equal(t, orb.Point{1.5, -2.25}, p.Orb())
	assert.Equal(t, islandmodel.CenterLine, p.Type())

	got, ok := p.Source().(islandmodel.CenterSource)
	require.True(t, ok)
	assert.Equal(t, skeleton.EdgeID(3), got.Position.Edge)

	_, ok = p.Source().(islandmodel.OutlineSource)
	assert.False(t, ok)

	end := p.WithType(islandmodel.CenterLineEnd)
	assert.Equal(t, islandmodel.CenterLineEnd, end.Type())
	assert.Equal(t, p.Point, end.Point)
	assert.Equal(t, p.Source(), end.Source())
	assert.Equal(t, islandmodel.CenterLine, p.Type())
}

func TestFixed(t *testing.T) {
	a := islandmodel.ToFixed(orb.Point{0, 0})
	b := islandmodel.ToFixed(orb.Point{3, 4})

	assert.Equal(t, islandmodel.FixedLength(5)*islandmodel.FixedLength(5), islandmodel.DistanceSquared(a, b))
	assert.Equal(t, int64(41), islandmodel.FixedLength(0.01))

	far := islandmodel.ToFixed(orb.Point{7e5, 0})
	d := islandmodel.DistanceSquared(a, far)
	assert.Positive(t, d)
	assert.Equal(t, islandmodel.FixedLength(7e5)*islandmodel.FixedLength(7e5), d)

	// values snap to 1/4096
	p := islandmodel.ToOrb(islandmodel.ToFixed(orb.Point{0.1, 0.1}))
	assert.InDelta(t, 0.1, p[0], 1.0/4096)
	assert.NotEqual(t, 0.1, p[0])
}
