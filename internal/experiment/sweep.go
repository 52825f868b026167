package experiment

import (
	"context"

	"github.com/san-kum/tgsim/internal/config"
	"github.com/san-kum/tgsim/internal/sim"
)

// Sweep runs n copies of base side by side, letting vary adjust the config
// of each copy first. Runs share dt and duration with base. At most limit
// runs execute at once; zero or less means no cap.
func Sweep(ctx context.Context, base *config.Config, r *Registry, n, limit int, vary func(i int, c *config.Config)) ([]*Experiment, []*sim.Result, error) {
	exps := make([]*Experiment, n)

	ens := sim.NewEnsemble(n, func(i int) (*sim.Simulation, error) {
		cfg := *base
		if vary != nil {
			vary(i, &cfg)
		}
		cfg.Dt, cfg.Duration = base.Dt, base.Duration

		e, err := New(&cfg, r)
		if err != nil {
			return nil, err
		}
		exps[i] = e
		return e.sim, nil
	})
	ens.SetLimit(limit)

	results, err := ens.Run(ctx, sim.Config{Dt: base.Dt, Duration: base.Duration})
	if err != nil {
		return nil, nil, err
	}
	return exps, results, nil
}
