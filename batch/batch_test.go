package batch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/royalcat/islandsupport/batch"
	"github.com/royalcat/islandsupport/sampler"
	"github.com/royalcat/islandsupport/skeleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = `{"islands":[
	{"id":"line","nodes":[{"x":0,"y":0,"width":1},{"x":20,"y":0,"width":1},{"x":40,"y":0,"width":1}],
	 "edges":[{"from":0,"to":1},{"from":1,"to":2}]},
	{"nodes":[{"x":0,"y":0,"width":1},{"x":2,"y":0,"width":1}],"edges":[{"from":0,"to":1}]},
	{"id":"block","polygon":[[[0,0],[20,0],[20,10],[0,10],[0,0]]],
	 "nodes":[{"x":0,"y":0,"width":0},{"x":20,"y":0,"width":0},{"x":20,"y":10,"width":0},{"x":0,"y":10,"width":0},
	          {"x":5,"y":5,"width":10},{"x":15,"y":5,"width":10}],
	 "edges":[{"from":4,"to":5,"left":2,"right":0},{"from":4,"to":0,"left":0,"right":3},{"from":4,"to":3,"left":3,"right":2},
	          {"from":5,"to":1,"left":1,"right":0},{"from":5,"to":2,"left":2,"right":1}],
	 "contour_start":0}
]}`

func quiet() *sampler.Sampler {
	return sampler.New(sampler.ConfigDefault(), sampler.WithLogger(slog.New(slog.DiscardHandler)))
}

func TestDecode(t *testing.T) {
	in, err := batch.Decode(strings.NewReader(input))
	require.NoError(t, err)

	islands, err := in.Islands()
	require.NoError(t, err)
	require.Len(t, islands, 3)

	assert.Equal(t, "line", islands[0].ID)
	assert.InDelta(t, 40, islands[0].Path.Length, 1e-9)
	assert.Equal(t, skeleton.NodeID(0), islands[0].Graph.ContourStart)

	_, err = uuid.Parse(islands[1].ID)
	assert.NoError(t, err, "generated id")

	block := islands[2]
	require.Len(t, block.Graph.Boundary.Lines, 4)
	assert.Equal(t, 2, block.Graph.Edges[0].Left)
	assert.Equal(t, 0, block.Graph.Edges[1].Left, "twin swaps sides")
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing node", `{"islands":[{"nodes":[{"x":0,"y":0}],"edges":[{"from":0,"to":3}]}]}`},
		{"loop", `{"islands":[{"nodes":[{"x":0,"y":0}],"edges":[{"from":0,"to":0}]}]}`},
		{"zero length", `{"islands":[{"nodes":[{"x":0,"y":0},{"x":0,"y":0}],"edges":[{"from":0,"to":1}]}]}`},
		{"disconnected", `{"islands":[{"nodes":[{"x":0,"y":0},{"x":1,"y":0},{"x":5,"y":0}],"edges":[{"from":0,"to":1}]}]}`},
		{"line out of range", `{"islands":[{"polygon":[[[0,0],[4,0],[4,4]]],"nodes":[{"x":1,"y":1},{"x":2,"y":1}],"edges":[{"from":0,"to":1,"left":0,"right":9}]}]}`},
		{"missing lines", `{"islands":[{"polygon":[[[0,0],[4,0],[4,4]]],"nodes":[{"x":1,"y":1},{"x":2,"y":1}],"edges":[{"from":0,"to":1}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := batch.Decode(strings.NewReader(tt.input))
			require.NoError(t, err)
			_, err = in.Islands()
			require.ErrorIs(t, err, batch.ErrInvalidIsland)
		})
	}

	_, err := batch.Decode(strings.NewReader(`{"islands":[{"unknown":1}]}`))
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	in, err := batch.Decode(strings.NewReader(input))
	require.NoError(t, err)
	islands, err := in.Islands()
	require.NoError(t, err)

	var progress atomic.Int32
	r := batch.Runner{Sampler: quiet(), Threads: 2, Progress: func() { progress.Add(1) }}
	results, err := r.Run(context.Background(), islands)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.EqualValues(t, 3, progress.Load())
	assert.Equal(t, "line", results[0].ID)
	assert.Equal(t, sampler.StrategyCenterLine, results[0].Strategy)
	assert.Equal(t, sampler.StrategyOnePoint, results[1].Strategy)
	assert.Len(t, results[1].Points, 1)
	assert.Equal(t, sampler.StrategyField, results[2].Strategy)
	assert.NotEmpty(t, results[2].Points)
}

func TestRunCancelled(t *testing.T) {
	in, err := batch.Decode(strings.NewReader(input))
	require.NoError(t, err)
	islands, err := in.Islands()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := batch.Runner{Sampler: quiet()}
	results, err := r.Run(ctx, islands)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, results)
}

func TestWriteGeoJSON(t *testing.T) {
	in, err := batch.Decode(strings.NewReader(input))
	require.NoError(t, err)
	islands, err := in.Islands()
	require.NoError(t, err)

	r := batch.Runner{Sampler: quiet(), Threads: 1}
	results, err := r.Run(context.Background(), islands[2:])
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, batch.WriteGeoJSON(&buf, results))

	var out struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string     `json:"type"`
				Coordinates [2]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "FeatureCollection", out.Type)
	require.Len(t, out.Features, len(results[0].Points))
	outline := 0
	for _, f := range out.Features {
		assert.Equal(t, "Point", f.Geometry.Type)
		assert.Equal(t, "block", f.Properties["island"])
		if f.Properties["type"] == "outline" {
			outline++
			assert.Contains(t, f.Properties, "line")
		}
	}
	assert.Positive(t, outline)
}
