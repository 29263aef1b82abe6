// Package batch reads islands from JSON, samples them in parallel and
// writes the support points as GeoJSON.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/royalcat/islandsupport/sampler"
	"github.com/royalcat/islandsupport/skeleton"
)

var ErrInvalidIsland = errors.New("invalid island")

type Node struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

// Edge describes a skeleton edge together with its twin. Left and Right are
// boundary line ids, counted over the oriented polygon rings.
type Edge struct {
	From  int  `json:"from"`
	To    int  `json:"to"`
	Left  *int `json:"left,omitempty"`
	Right *int `json:"right,omitempty"`
}

type IslandInput struct {
	ID           string      `json:"id"`
	Polygon      orb.Polygon `json:"polygon"`
	Nodes        []Node      `json:"nodes"`
	Edges        []Edge      `json:"edges"`
	ContourStart *int        `json:"contour_start,omitempty"`
}

type Input struct {
	IslandInputs []IslandInput `json:"islands"`
}

func Decode(r io.Reader) (Input, error) {
	var in Input
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, fmt.Errorf("failed to decode islands: %w", err)
	}
	return in, nil
}

// Islands builds every island of the input, stopping at the first invalid
// one.
func (in Input) Islands() ([]sampler.Island, error) {
	out := make([]sampler.Island, 0, len(in.IslandInputs))
	for i, island := range in.IslandInputs {
		built, err := island.Build()
		if err != nil {
			return nil, fmt.Errorf("island %d: %w", i, err)
		}
		out = append(out, built)
	}
	return out, nil
}

// Build checks the references of the input and creates the skeleton graph.
// Islands without an id get a random one. When a polygon is given every edge
// must name the boundary lines on both of its sides.
func (in IslandInput) Build() (sampler.Island, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	boundary := skeleton.NewBoundary(in.Polygon)
	g := skeleton.NewGraph(boundary)
	for _, n := range in.Nodes {
		g.AddNode(orb.Point{n.X, n.Y}, n.Width)
	}

	line := func(l *int) (int, error) {
		if l == nil {
			return skeleton.NoLine, nil
		}
		if *l < 0 || *l >= len(boundary.Lines) {
			return 0, fmt.Errorf("%w: boundary line %d out of range", ErrInvalidIsland, *l)
		}
		return *l, nil
	}
	for i, e := range in.Edges {
		if e.From < 0 || e.From >= len(in.Nodes) || e.To < 0 || e.To >= len(in.Nodes) {
			return sampler.Island{}, fmt.Errorf("%w: edge %d references a missing node", ErrInvalidIsland, i)
		}
		if e.From == e.To {
			return sampler.Island{}, fmt.Errorf("%w: edge %d is a loop", ErrInvalidIsland, i)
		}
		left, err := line(e.Left)
		if err != nil {
			return sampler.Island{}, err
		}
		right, err := line(e.Right)
		if err != nil {
			return sampler.Island{}, err
		}
		if !boundary.Empty() && (left == skeleton.NoLine || right == skeleton.NoLine) {
			return sampler.Island{}, fmt.Errorf("%w: edge %d has no boundary lines", ErrInvalidIsland, i)
		}
		g.AddEdge(skeleton.NodeID(e.From), skeleton.NodeID(e.To), left, right)
	}

	if in.ContourStart != nil {
		g.ContourStart = skeleton.NodeID(*in.ContourStart)
	} else if len(in.Nodes) > 0 {
		g.ContourStart = 0
	}
	if err := skeleton.Validate(g); err != nil {
		return sampler.Island{}, fmt.Errorf("%w %s: %w", ErrInvalidIsland, id, err)
	}

	return sampler.NewIsland(id, g, in.Polygon), nil
}
