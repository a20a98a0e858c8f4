package metrics

import (
	"math"

	"github.com/san-kum/particlelife/internal/life"
)

// KineticEnergy averages the total kinetic energy of the population over
// the observed ticks.
type KineticEnergy struct {
	name    string
	sum     float64
	last    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s life.Snapshot, t float64) {
	k.last = s.KineticEnergy()
	k.sum += k.last
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.sum / float64(k.samples)
}

func (k *KineticEnergy) Last() float64 { return k.last }

func (k *KineticEnergy) Reset() {
	k.sum = 0
	k.last = 0
	k.samples = 0
}

// MeanSpeed averages the per-particle speed.
type MeanSpeed struct {
	name    string
	sum     float64
	last    float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(s life.Snapshot, t float64) {
	if len(s) == 0 {
		return
	}
	total := 0.0
	for _, p := range s {
		total += math.Hypot(p.VX, p.VY)
	}
	m.last = total / float64(len(s))
	m.sum += m.last
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Last() float64 { return m.last }

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.last = 0
	m.samples = 0
}
