package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/sph"
)

// Builder creates an independent simulation for one ensemble member.
type Builder func(seed int64) (*sph.Simulation, error)

// Ensemble runs the same scenario with consecutive seeds in parallel.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per member, in seed order. Each member gets its own
// runner with the standard metrics.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			s, err := e.build(e.seedStart + int64(i))
			if err != nil {
				return err
			}
			r := New(nil)
			for _, m := range metrics.Standard() {
				r.AddMetric(m)
			}
			res, err := r.Run(ctx, s, cfg)
			if err != nil {
				return err
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
