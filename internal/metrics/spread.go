package metrics

import (
	"math"

	"github.com/san-kum/particlelife/internal/life"
)

// Spread is the root-mean-square distance of the particles from their
// centroid. Clustering drives it down; dispersal drives it up.
type Spread struct {
	name    string
	sum     float64
	last    float64
	samples int
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(snap life.Snapshot, t float64) {
	if len(snap) == 0 {
		return
	}
	c := snap.Centroid()
	sq := 0.0
	for _, p := range snap {
		dx, dy := p.X-c.X, p.Y-c.Y
		sq += dx*dx + dy*dy
	}
	s.last = math.Sqrt(sq / float64(len(snap)))
	s.sum += s.last
	s.samples++
}

func (s *Spread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Spread) Last() float64 { return s.last }

func (s *Spread) Reset() {
	s.sum = 0
	s.last = 0
	s.samples = 0
}
