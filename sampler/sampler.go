package sampler

import (
	"log/slog"
	"math/rand"

	"github.com/paulmach/orb"
	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/relax"
	"github.com/royalcat/islandsupport/skeleton"
)

// Island is one connected area to support. Polygon is used for relaxation;
// when empty the graph boundary is used instead.
type Island struct {
	ID      string
	Graph   *skeleton.Graph
	Path    skeleton.ExPath
	Polygon orb.Polygon
}

// NewIsland builds the extended path of g.
func NewIsland(id string, g *skeleton.Graph, polygon orb.Polygon) Island {
	return Island{
		ID:      id,
		Graph:   g,
		Path:    skeleton.BuildExPath(g),
		Polygon: polygon,
	}
}

type Strategy string

const (
	StrategyEmpty      Strategy = "empty"
	StrategyRing       Strategy = "ring"
	StrategyOnePoint   Strategy = "one_point"
	StrategyTwoPoints  Strategy = "two_points"
	StrategyCenterLine Strategy = "center_line"
	StrategyField      Strategy = "field"
)

type Sampler struct {
	cfg Config
	log *slog.Logger

	inner bool
	relax bool
}

func New(cfg Config, opts ...Option) *Sampler {
	options := options{
		log:   slog.Default(),
		inner: true,
	}
	for _, o := range opts {
		o.apply(&options)
	}

	return &Sampler{
		cfg:   cfg,
		log:   options.log,
		inner: options.inner,
		relax: !options.noRelax,
	}
}

func (s *Sampler) Config() Config {
	return s.cfg
}

// Strategy reports how island would be sampled.
func (s *Sampler) Strategy(island Island) Strategy {
	g, ex := island.Graph, &island.Path
	if g == nil || len(ex.Nodes) == 0 || !greater(ex.Length, 0) {
		return StrategyEmpty
	}
	if isPureRing(ex) {
		return StrategyRing
	}
	if ex.Length < s.cfg.MaxLengthForOneSupportPoint {
		return StrategyOnePoint
	}
	if !greater(g.MaxEdgeWidth(), s.cfg.MaxWidthForCenterSupportLine) {
		if ex.Length < s.cfg.MaxLengthForTwoSupportPoints {
			return StrategyTwoPoints
		}
		return StrategyCenterLine
	}
	if g.Boundary.Empty() {
		// a wide part has no outline to sample
		return StrategyEmpty
	}
	return StrategyField
}

// Sample returns the support points of island. Identical inputs give
// identical output.
func (s *Sampler) Sample(island Island) []islandmodel.SupportPoint {
	strategy := s.Strategy(island)
	g, ex := island.Graph, &island.Path

	var points []islandmodel.SupportPoint
	relaxed := false
	switch strategy {
	case StrategyEmpty:
		s.log.Debug("island is degenerate", "island", island.ID)
		return nil

	case StrategyRing:
		circles := newCircleSampler(g, ex, s.cfg, nil, nil)
		points = circles.sample(nil)
		relaxed = true

	case StrategyOnePoint:
		points = append(points, CreatePointOnPath(g, ex.Nodes, ex.Length/2, islandmodel.SingleCenter))

	case StrategyTwoPoints:
		d := min(s.cfg.SideDistance, ex.Length/4)
		points = append(points,
			CreatePointOnPath(g, ex.Nodes, d, islandmodel.TwoPoints),
			CreatePointOnPath(g, ex.Nodes, ex.Length-d, islandmodel.TwoPoints),
		)

	case StrategyCenterLine:
		cl := newCenterLine(g, ex, s.cfg)
		cl.sampleTrunk()
		points = cl.points
		circles := newCircleSampler(g, ex, s.cfg, cl.processed, cl.sampled)
		points = append(points, circles.sample(points)...)
		relaxed = true

	case StrategyField:
		points = s.sampleFields(g, ex)
		relaxed = true
	}

	iterations := 0
	if relaxed && s.relax {
		iterations = s.relaxPoints(island, points)
	}

	s.log.Debug("island sampled",
		"island", island.ID,
		"strategy", string(strategy),
		"points", len(points),
		"iterations", iterations,
	)
	return points
}

func (s *Sampler) sampleFields(g *skeleton.Graph, ex *skeleton.ExPath) []islandmodel.SupportPoint {
	start := g.ContourStart
	if start == skeleton.NoNode {
		start = ex.Nodes[0]
	}

	walk := newFieldWalk(g, s.cfg)
	walk.run(start)

	points := walk.points
	rnd := rand.New(rand.NewSource(s.cfg.Seed))
	for _, field := range walk.fields {
		points = append(points, sampleOutline(field, s.cfg)...)
		if s.inner {
			points = append(points, sampleInner(field, s.cfg, rnd)...)
		}
	}
	return points
}

func (s *Sampler) relaxPoints(island Island, points []islandmodel.SupportPoint) int {
	polygon := island.Polygon
	if len(polygon) == 0 {
		polygon = island.Graph.Boundary.Polygon()
	}
	if len(polygon) == 0 || len(points) == 0 {
		return 0
	}

	res := relax.Relax(points, polygon, relax.Config{
		MaxIterations: s.cfg.CountIteration,
		MinimalMove:   s.cfg.MinimalMove,
	})
	if !res.Converged {
		s.log.Debug("relaxation stopped before convergence", "island", island.ID, "max_move", res.MaxMove)
	}
	return res.Iterations
}

func isPureRing(ex *skeleton.ExPath) bool {
	if len(ex.Circles) != 1 {
		return false
	}
	for _, branches := range ex.SideBranches {
		if len(branches) > 0 {
			return false
		}
	}
	c := ex.Circles[0]
	for _, n := range ex.Nodes {
		if !c.Contains(n) {
			return false
		}
	}
	return true
}
