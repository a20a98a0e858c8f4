package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/particlelife/internal/life"
	"github.com/san-kum/particlelife/internal/logging"
)

// BuildFunc creates the simulation for one ensemble member.
type BuildFunc func(seed uint64) (*life.Simulation, error)

// Ensemble runs independent simulations, one per seed, concurrently.
type Ensemble struct {
	build   BuildFunc
	seeds   []uint64
	metrics func() []Metric
	logger  logging.Logger
}

func NewEnsemble(build BuildFunc, seeds []uint64) *Ensemble {
	return &Ensemble{build: build, seeds: seeds, logger: logging.NewNoOp()}
}

// WithMetrics sets the factory producing each member's metrics. Metrics hold
// state, so every member needs its own set.
func (e *Ensemble) WithMetrics(factory func() []Metric) *Ensemble {
	e.metrics = factory
	return e
}

func (e *Ensemble) WithLogger(l logging.Logger) *Ensemble {
	e.logger = l
	return e
}

// SeedRange returns n consecutive seeds starting at start.
func SeedRange(start uint64, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = start + uint64(i)
	}
	return seeds
}

// Run returns one result per seed, in seed order. The first member error
// aborts the ensemble result.
func (e *Ensemble) Run(ctx context.Context, ticks int) ([]*Result, error) {
	results := make([]*Result, len(e.seeds))
	errs := make([]error, len(e.seeds))

	var wg sync.WaitGroup
	for i, seed := range e.seeds {
		wg.Add(1)
		go func(idx int, seed uint64) {
			defer wg.Done()

			s, err := e.build(seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}
			runner := New(s, WithLogger(e.logger))
			if e.metrics != nil {
				for _, m := range e.metrics() {
					runner.AddMetric(m)
				}
			}
			results[idx], errs[idx] = runner.Run(ctx, ticks)
			if errs[idx] != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, errs[idx])
			}
		}(i, seed)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
