package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one independent run of an Ensemble. Each job needs its own
// simulator because drives may carry state.
type Job struct {
	Name      string
	Simulator *Simulator
	Config    Config
}

// Ensemble runs independent simulations concurrently. Steps inside one run
// are always sequential.
type Ensemble struct {
	workers int
}

// NewEnsemble limits concurrency to workers; zero or less uses GOMAXPROCS.
func NewEnsemble(workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{workers: workers}
}

// Run returns results in job order. The first failing job cancels the rest.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, job := range jobs {
		g.Go(func() error {
			res, err := job.Simulator.Run(ctx, job.Config)
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", i, job.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
