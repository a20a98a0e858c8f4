package metrics

import "github.com/san-kum/particlelife/internal/sim"

// DefaultThreshold bounds Stability when none is given. Particles start in
// the unit square and drift slowly, so leaving this box means divergence.
const DefaultThreshold = 1e3

// Default returns a fresh set of the standard run metrics.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewMeanSpeed(),
		NewSpread(),
		NewStability(DefaultThreshold),
	}
}
