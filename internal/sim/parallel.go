package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent simulations concurrently. Each simulation is
// built by the factory with its own world, so runs share nothing.
type Ensemble struct {
	build   func(i int) (*Simulation, error)
	numRuns int
	limit   int
}

func NewEnsemble(numRuns int, build func(i int) (*Simulation, error)) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns}
}

// SetLimit caps the number of simulations running at once; zero or less
// means no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run returns one result per run in index order. The first failure cancels
// the remaining runs.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			s, err := e.build(i)
			if err != nil {
				return err
			}
			results[i], err = s.Run(ctx, cfg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
