package analysis

import (
	"math"

	"github.com/san-kum/particlelife/internal/life"
)

// SeparationExponent estimates how fast a small displacement of one particle
// spreads through the population. Two copies of base's current state are
// advanced side by side, one with particle 0 shifted by perturbation along x,
// and
//
//	lambda = ln(d(T) / d(0)) / T
//
// is returned, where d is the RMS position difference over all particles.
// A positive value means nearby states diverge. base itself is not advanced.
func SeparationExponent(base *life.Simulation, ticks int, perturbation float64) (float64, error) {
	if ticks <= 0 || perturbation == 0 || base.Count() == 0 {
		return 0, nil
	}

	snap := base.Snapshot()
	a, err := life.NewWithParticles(base.Params(), snap.Particles(), base.Rules())
	if err != nil {
		return 0, err
	}
	snap[0].X += perturbation
	b, err := life.NewWithParticles(base.Params(), snap.Particles(), base.Rules())
	if err != nil {
		return 0, err
	}

	d0 := math.Abs(perturbation) / math.Sqrt(float64(base.Count()))
	for i := 0; i < ticks; i++ {
		a.Step()
		b.Step()
	}
	sa, sb := a.Snapshot(), b.Snapshot()

	sep := 0.0
	for i := range sa {
		dx, dy := sb[i].X-sa[i].X, sb[i].Y-sa[i].Y
		sep += dx*dx + dy*dy
	}
	sep = math.Sqrt(sep / float64(len(sa)))
	if sep == 0 {
		return math.Inf(-1), nil
	}

	return math.Log(sep/d0) / a.Time(), nil
}
