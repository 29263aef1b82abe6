package sampler

import (
	"slices"
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/skeleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinFronts(t *testing.T) {
	tests := []struct {
		name   string
		du, dv float64
		length float64
		want   []float64
	}{
		{name: "even", du: 1, dv: 1, length: 10, want: []float64{3, 7}},
		{name: "slack at the end", du: 0, dv: 4.5, length: 1, want: []float64{1}},
		{name: "slack at the start", du: 4.5, dv: 0, length: 1, want: []float64{0}},
		{name: "uneven", du: 0.5, dv: 4.9, length: 3, want: []float64{3}},
		{name: "second point clamped", du: 0, dv: 4.9, length: 6, want: []float64{10.9 / 3, 6}},
		{name: "closed", du: 2, dv: 2, length: 1, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := skeleton.NewGraph(nil)
			a := g.AddNode(orb.Point{0, 0}, 1)
			b := g.AddNode(orb.Point{tt.length, 0}, 1)
			e := g.AddEdge(a, b, skeleton.NoLine, skeleton.NoLine)

			cfg := ConfigDefault()
			s := newCircleSampler(g, &skeleton.ExPath{}, cfg, nil, nil)
			s.joinFronts(e, tt.du, tt.dv)

			var at []float64
			for _, p := range s.points {
				assert.Equal(t, islandmodel.CenterCircleEnd, p.Type())
				src, ok := p.Source().(islandmodel.CenterSource)
				require.True(t, ok)
				at = append(at, src.Position.Ratio*tt.length)
			}
			slices.Sort(at)

			require.Len(t, at, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], at[i], 1e-9)
			}

			seam := append([]float64{-tt.du}, at...)
			seam = append(seam, tt.length+tt.dv)
			for i := 1; i < len(seam); i++ {
				assert.LessOrEqual(t, seam[i]-seam[i-1], cfg.MaxSampleDistance+1e-9, "gap %d", i)
			}

			if len(at) > 0 {
				assert.InDelta(t, at[0], s.dist[a], 1e-9)
				assert.InDelta(t, tt.length-at[len(at)-1], s.dist[b], 1e-9)
			}
		})
	}
}
