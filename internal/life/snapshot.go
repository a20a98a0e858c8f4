package life

import "math"

// ParticleState is a read-only copy of one particle.
type ParticleState struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Color  int     `json:"color"`
	Radius float64 `json:"radius"`
}

// Particle restores a particle from its recorded state. The acceleration
// accumulator starts empty, as it does after every Move.
func (ps ParticleState) Particle() Particle {
	p := NewParticle(ps.X, ps.Y, ps.Radius, ps.Color, ps.ID)
	p.velocity = Vec{X: ps.VX, Y: ps.VY}
	return p
}

// Particles restores the whole population, for NewWithParticles.
func (s Snapshot) Particles() []Particle {
	out := make([]Particle, len(s))
	for i, ps := range s {
		out[i] = ps.Particle()
	}
	return out
}

// Snapshot is the population ordered by id.
type Snapshot []ParticleState

func (s Snapshot) Clone() Snapshot {
	c := make(Snapshot, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every position and velocity is finite.
func (s Snapshot) IsValid() bool {
	for _, p := range s {
		for _, v := range [4]float64{p.X, p.Y, p.VX, p.VY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// KineticEnergy returns the sum of ½|v|² with unit mass.
func (s Snapshot) KineticEnergy() float64 {
	ke := 0.0
	for _, p := range s {
		ke += 0.5 * (p.VX*p.VX + p.VY*p.VY)
	}
	return ke
}

// Centroid returns the mean position, or the origin for an empty snapshot.
func (s Snapshot) Centroid() Vec {
	if len(s) == 0 {
		return Vec{}
	}
	var c Vec
	for _, p := range s {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(s))
	return Vec{X: c.X / n, Y: c.Y / n}
}

// ColorCounts returns how many particles fall in each of m color classes.
func (s Snapshot) ColorCounts(m int) []int {
	counts := make([]int, m)
	for _, p := range s {
		if p.Color >= 0 && p.Color < m {
			counts[p.Color]++
		}
	}
	return counts
}
