package batch

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/royalcat/islandsupport/batch")

type metrics struct {
	islands metric.Int64Counter
	points  metric.Int64Counter
}

var loadMetrics = sync.OnceValues(func() (*metrics, error) {
	islands, err := meter.Int64Counter("islands_sampled_total")
	if err != nil {
		return nil, err
	}
	points, err := meter.Int64Counter("support_points_total")
	if err != nil {
		return nil, err
	}
	return &metrics{islands: islands, points: points}, nil
})

func (m *metrics) record(ctx context.Context, r Result) {
	attrs := metric.WithAttributes(attribute.String("strategy", string(r.Strategy)))
	m.islands.Add(ctx, 1, attrs)
	m.points.Add(ctx, int64(len(r.Points)), attrs)
}
