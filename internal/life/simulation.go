package life

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Params are the global simulation parameters. All are fixed for the
// lifetime of a Simulation.
type Params struct {
	Count            int
	Dt               float64
	FrictionHalfLife float64
	RMax             float64
	M                int
	ForceFactor      float64

	// Beta is the near-field boundary; zero means DefaultBeta.
	Beta float64
	// Workers > 1 splits force accumulation across goroutines.
	Workers int
	// Layout places the initial particles; nil means UniformLayout.
	Layout Layout
}

func DefaultParams() Params {
	return Params{
		Count:            1000,
		Dt:               0.01,
		FrictionHalfLife: 0.06,
		RMax:             0.1,
		M:                6,
		ForceFactor:      1,
		Beta:             DefaultBeta,
	}
}

func (p Params) withDefaults() Params {
	if p.Beta == 0 {
		p.Beta = DefaultBeta
	}
	if p.Layout == nil {
		p.Layout = UniformLayout{}
	}
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate rejects parameters that would produce an empty population or
// NaN/Inf state. Zero Beta is accepted and means DefaultBeta.
func (p Params) Validate() error {
	p = p.withDefaults()
	switch {
	case p.Count <= 0:
		return &ConfigError{Field: "count", Value: p.Count, Reason: "must be positive"}
	case !finite(p.Dt) || p.Dt <= 0:
		return &ConfigError{Field: "dt", Value: p.Dt, Reason: "must be positive and finite"}
	case !finite(p.FrictionHalfLife) || p.FrictionHalfLife <= 0:
		return &ConfigError{Field: "friction_half_life", Value: p.FrictionHalfLife, Reason: "must be positive and finite"}
	case !finite(p.RMax) || p.RMax <= 0:
		return &ConfigError{Field: "r_max", Value: p.RMax, Reason: "must be positive and finite"}
	case p.M <= 0:
		return &ConfigError{Field: "m", Value: p.M, Reason: "must be positive"}
	case !finite(p.ForceFactor):
		return &ConfigError{Field: "force_factor", Value: p.ForceFactor, Reason: "must be finite"}
	case !(p.Beta > 0 && p.Beta < 1):
		return &ConfigError{Field: "beta", Value: p.Beta, Reason: "must lie in (0, 1)"}
	case p.Workers < 0:
		return &ConfigError{Field: "workers", Value: p.Workers, Reason: "must not be negative"}
	}
	return nil
}

// FrictionFactor is the per-tick velocity retention such that speed halves
// every halfLife units of simulated time.
func FrictionFactor(dt, halfLife float64) float64 {
	return math.Pow(0.5, dt/halfLife)
}

// Simulation owns the population and the rule matrix.
type Simulation struct {
	params         Params
	frictionFactor float64
	rules          *RuleMatrix
	particles      []Particle

	// Phase A reads positions/colors and writes forces; neither aliases
	// particles.
	positions []Vec
	colors    []int
	forces    []Vec

	tick int
}

// New validates p, places p.Count particles with p.Layout and draws a fresh
// rule matrix, all from src.
func New(p Params, src Source) (*Simulation, error) {
	p = p.withDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, &ConfigError{Field: "source", Value: nil, Reason: "random source is required"}
	}

	particles := make([]Particle, p.Count)
	for id := range particles {
		particles[id] = p.Layout.Place(id, p.M, src)
	}

	return newSimulation(p, particles, NewRuleMatrix(p.M, src)), nil
}

// NewWithParticles builds a simulation from an explicit population and rule
// matrix. Count and M in p are ignored and taken from len(particles) and
// rules; ids must equal their index and every color must index into rules.
func NewWithParticles(p Params, particles []Particle, rules *RuleMatrix) (*Simulation, error) {
	if rules == nil {
		return nil, &ConfigError{Field: "rules", Value: nil, Reason: "rule matrix is required"}
	}
	p.Count = len(particles)
	p.M = rules.M()
	p = p.withDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for i := range particles {
		if particles[i].id != i {
			return nil, &ConfigError{Field: "id", Value: particles[i].id, Reason: fmt.Sprintf("particle at index %d must have id %d", i, i)}
		}
		if c := particles[i].color; c < 0 || c >= p.M {
			return nil, &ConfigError{Field: "color", Value: c, Reason: fmt.Sprintf("particle %d color outside [0, %d)", i, p.M)}
		}
	}

	owned := make([]Particle, len(particles))
	copy(owned, particles)
	return newSimulation(p, owned, rules), nil
}

func newSimulation(p Params, particles []Particle, rules *RuleMatrix) *Simulation {
	n := len(particles)
	return &Simulation{
		params:         p,
		frictionFactor: FrictionFactor(p.Dt, p.FrictionHalfLife),
		rules:          rules,
		particles:      particles,
		positions:      make([]Vec, n),
		colors:         make([]int, n),
		forces:         make([]Vec, n),
	}
}

func (s *Simulation) Params() Params          { return s.params }
func (s *Simulation) M() int                  { return s.params.M }
func (s *Simulation) Count() int              { return len(s.particles) }
func (s *Simulation) Tick() int               { return s.tick }
func (s *Simulation) Time() float64           { return float64(s.tick) * s.params.Dt }
func (s *Simulation) FrictionFactor() float64 { return s.frictionFactor }
func (s *Simulation) Rules() *RuleMatrix      { return s.rules }

// Step advances the simulation by one tick.
//
// Phase A computes every particle's total force from a snapshot of all
// positions. Phase B applies drag and the force, then integrates. No
// particle moves until every force is known.
func (s *Simulation) Step() {
	for i := range s.particles {
		s.positions[i] = s.particles[i].position
		s.colors[i] = s.particles[i].color
	}

	parallelFor(len(s.particles), s.params.Workers, s.accumulate)

	for i := range s.particles {
		p := &s.particles[i]
		p.ApplyDrag(s.frictionFactor)
		p.ApplyForce(s.forces[i])
	}
	for i := range s.particles {
		s.particles[i].Move(s.params.Dt)
	}
	s.tick++
}

// accumulate fills forces[start:end]. Each index is written by exactly one
// caller.
func (s *Simulation) accumulate(start, end int) {
	rMax := s.params.RMax
	beta := s.params.Beta
	scale := s.params.ForceFactor * rMax

	for i := start; i < end; i++ {
		pi := s.positions[i]
		ci := s.colors[i]

		var total Vec
		for j, pj := range s.positions {
			if j == i {
				continue
			}
			rx := pj.X - pi.X
			ry := pj.Y - pi.Y
			distance := math.Sqrt(rx*rx + ry*ry)
			if !(distance > 0 && distance < rMax) {
				continue
			}

			force := ForceLaw(distance/rMax, s.rules.Get(ci, s.colors[j]), beta)
			total.X += rx / distance * force
			total.Y += ry / distance * force
		}
		s.forces[i] = r2.Scale(scale, total)
	}
}

// Snapshot returns a copy of every particle ordered by id.
func (s *Simulation) Snapshot() Snapshot {
	return s.SnapshotInto(nil)
}

// SnapshotInto is Snapshot reusing dst's storage when it is large enough.
func (s *Simulation) SnapshotInto(dst Snapshot) Snapshot {
	if cap(dst) < len(s.particles) {
		dst = make(Snapshot, len(s.particles))
	}
	dst = dst[:len(s.particles)]
	for i := range s.particles {
		p := &s.particles[i]
		dst[i] = ParticleState{
			ID:     p.id,
			X:      p.position.X,
			Y:      p.position.Y,
			VX:     p.velocity.X,
			VY:     p.velocity.Y,
			Color:  p.color,
			Radius: p.radius,
		}
	}
	return dst
}
