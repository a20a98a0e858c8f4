package metrics

import (
	"math"

	"github.com/san-kum/particlelife/internal/life"
)

// Stability is the fraction of observed ticks in which every position and
// velocity component stays within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap life.Snapshot, t float64) {
	s.samples++
	for _, p := range snap {
		if math.Abs(p.X) > s.threshold || math.Abs(p.Y) > s.threshold ||
			math.Abs(p.VX) > s.threshold || math.Abs(p.VY) > s.threshold ||
			math.IsNaN(p.X+p.Y+p.VX+p.VY) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
