package life

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2-D vector.
type Vec = r2.Vec

// DefaultRadius is the display radius given to randomly placed particles.
const DefaultRadius = 3.0

// Particle is a point mass with a color class. The zero acceleration at the
// start of every tick is maintained by Move.
type Particle struct {
	id     int
	color  int
	radius float64

	position     Vec
	velocity     Vec
	acceleration Vec
}

// NewParticle returns a particle at rest at (x, y).
func NewParticle(x, y, radius float64, color, id int) Particle {
	return Particle{
		id:       id,
		color:    color,
		radius:   radius,
		position: Vec{X: x, Y: y},
	}
}

// FromRandom places a particle uniformly in the unit square and draws its
// color uniformly from [0, m).
func FromRandom(id, m int, src Source) Particle {
	x := src.Float64()
	y := src.Float64()
	color := ColorFor(src.Float64(), m)
	return NewParticle(x, y, DefaultRadius, color, id)
}

// ColorFor discretizes r into one of m buckets. r is clamped to [0, 1]
// first; r == 1 lands in the last bucket.
func ColorFor(r float64, m int) int {
	if m <= 0 {
		return 0
	}
	r = math.Max(0, math.Min(1, r))
	c := int(math.Floor(r * float64(m)))
	if c >= m {
		c = m - 1
	}
	return c
}

func (p *Particle) ID() int           { return p.id }
func (p *Particle) Color() int        { return p.color }
func (p *Particle) Radius() float64   { return p.radius }
func (p *Particle) Position() Vec     { return p.position }
func (p *Particle) Velocity() Vec     { return p.velocity }
func (p *Particle) Acceleration() Vec { return p.acceleration }

// ApplyForce accumulates f into the acceleration.
func (p *Particle) ApplyForce(f Vec) {
	p.acceleration = r2.Add(p.acceleration, f)
}

// ApplyDrag scales the velocity by factor, the per-tick retention fraction.
func (p *Particle) ApplyDrag(factor float64) {
	p.velocity = r2.Scale(factor, p.velocity)
}

// Move integrates one tick: velocity first, then position from the updated
// velocity, then the acceleration is cleared. The order matters.
func (p *Particle) Move(dt float64) {
	p.velocity = r2.Add(p.velocity, p.acceleration)
	p.position = r2.Add(p.position, r2.Scale(dt, p.velocity))
	p.acceleration = Vec{}
}

// DistanceTo returns the Euclidean distance between the two positions.
func (p *Particle) DistanceTo(other *Particle) float64 {
	dx := p.position.X - other.position.X
	dy := p.position.Y - other.position.Y
	return math.Sqrt(dx*dx + dy*dy)
}
