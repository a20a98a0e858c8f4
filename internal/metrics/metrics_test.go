package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/particlelife/internal/life"
)

func snap(states ...life.ParticleState) life.Snapshot { return states }

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(snap(life.ParticleState{VX: 2}), 0)
	m.Observe(snap(life.ParticleState{VX: 4}), 0.01)

	// (2 + 8) / 2
	if math.Abs(m.Value()-5) > 1e-12 {
		t.Errorf("expected mean energy 5, got %f", m.Value())
	}
	if math.Abs(m.Last()-8) > 1e-12 {
		t.Errorf("expected last energy 8, got %f", m.Last())
	}

	m.Reset()
	if m.Value() != 0 || m.Last() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanSpeed(t *testing.T) {
	m := NewMeanSpeed()
	m.Observe(snap(
		life.ParticleState{VX: 3, VY: 4},
		life.ParticleState{VX: 0, VY: 1},
	), 0)

	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected mean speed 3, got %f", m.Value())
	}

	m.Observe(nil, 0)
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Error("empty snapshot must not count as a sample")
	}
}

func TestSpread(t *testing.T) {
	m := NewSpread()
	m.Observe(snap(
		life.ParticleState{X: -1, Y: 0},
		life.ParticleState{X: 1, Y: 0},
		life.ParticleState{X: 0, Y: 2},
		life.ParticleState{X: 0, Y: -2},
	), 0)

	// centroid at origin, squared distances 1 1 4 4
	want := math.Sqrt(10.0 / 4)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected spread %f, got %f", want, m.Value())
	}
}

func TestSpread_ShrinksWhenClustered(t *testing.T) {
	wide, tight := NewSpread(), NewSpread()
	wide.Observe(snap(life.ParticleState{X: 0}, life.ParticleState{X: 1}), 0)
	tight.Observe(snap(life.ParticleState{X: 0.4}, life.ParticleState{X: 0.5}), 0)

	if tight.Value() >= wide.Value() {
		t.Errorf("tight %f should be below wide %f", tight.Value(), wide.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)

	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", m.Value())
	}

	m.Observe(snap(life.ParticleState{X: 1, VX: 1}), 0)
	m.Observe(snap(life.ParticleState{X: 20}), 0)
	m.Observe(snap(life.ParticleState{VY: math.NaN()}), 0)
	m.Observe(snap(life.ParticleState{Y: -5}), 0)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Error("expected 1.0 after reset")
	}
}

func TestDefault_FreshInstances(t *testing.T) {
	a, b := Default(), Default()
	if len(a) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(a))
	}
	names := map[string]bool{}
	for i := range a {
		if a[i] == b[i] {
			t.Errorf("metric %s shared between calls", a[i].Name())
		}
		names[a[i].Name()] = true
	}
	for _, n := range []string{"kinetic_energy", "mean_speed", "spread", "stability"} {
		if !names[n] {
			t.Errorf("missing metric %s", n)
		}
	}
}
