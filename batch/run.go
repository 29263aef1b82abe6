package batch

import (
	"context"
	"fmt"
	"runtime"

	"github.com/royalcat/islandsupport/islandmodel"
	"github.com/royalcat/islandsupport/sampler"
	"github.com/sourcegraph/conc/pool"
)

type Result struct {
	ID       string
	Strategy sampler.Strategy
	Points   []islandmodel.SupportPoint
}

type Runner struct {
	Sampler *sampler.Sampler
	Threads int
	// Progress is called once per sampled island, from any goroutine.
	Progress func()
}

// Run samples the islands in parallel. Results keep the input order. A
// cancelled context stops the run before the next island starts; islands
// already being sampled are finished.
func (r *Runner) Run(ctx context.Context, islands []sampler.Island) ([]Result, error) {
	threads := r.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	m, err := loadMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	results := make([]Result, len(islands))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(threads)
	for i, island := range islands {
		if ctx.Err() != nil {
			break
		}
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Result{
				ID:       island.ID,
				Strategy: r.Sampler.Strategy(island),
				Points:   r.Sampler.Sample(island),
			}
			m.record(ctx, results[i])
			if r.Progress != nil {
				r.Progress()
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
