package life

import perlin "github.com/aquilax/go-perlin"

// Layout decides the initial position and color of particle id.
type Layout interface {
	Place(id, m int, src Source) Particle
}

// UniformLayout places particles uniformly in the unit square with
// uniformly drawn colors.
type UniformLayout struct{}

func (UniformLayout) Place(id, m int, src Source) Particle {
	return FromRandom(id, m, src)
}

// NoiseLayout places particles uniformly but picks each color from 2-D
// Perlin noise sampled at the particle's position, so neighbors tend to
// share a color class at the start of a run.
type NoiseLayout struct {
	noise *perlin.Perlin
	scale float64
}

// NewNoiseLayout returns a layout whose color field is fixed by seed.
// scale is the number of noise periods across the unit square.
func NewNoiseLayout(seed int64, scale float64) *NoiseLayout {
	if scale <= 0 {
		scale = 3
	}
	return &NoiseLayout{
		noise: perlin.NewPerlin(2, 2, 3, seed),
		scale: scale,
	}
}

func (l *NoiseLayout) Place(id, m int, src Source) Particle {
	x := src.Float64()
	y := src.Float64()
	n := l.noise.Noise2D(x*l.scale, y*l.scale)
	return NewParticle(x, y, DefaultRadius, ColorFor(0.5+n, m), id)
}
