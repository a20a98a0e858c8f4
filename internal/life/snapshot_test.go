package life

import (
	"math"
	"testing"
)

func TestSnapshot_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		snap  Snapshot
		valid bool
	}{
		{"empty", Snapshot{}, true},
		{"normal", Snapshot{{X: 1, Y: 2, VX: 0.1}}, true},
		{"NaN position", Snapshot{{X: math.NaN()}}, false},
		{"Inf velocity", Snapshot{{VY: math.Inf(-1)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestSnapshot_Diagnostics(t *testing.T) {
	snap := Snapshot{
		{X: 0, Y: 0, VX: 3, VY: 4, Color: 0},
		{X: 2, Y: 4, VX: 0, VY: 0, Color: 1},
		{X: 1, Y: 2, VX: 1, VY: 0, Color: 1},
	}

	if ke := snap.KineticEnergy(); ke != 13 {
		t.Errorf("KineticEnergy = %v, want 13", ke)
	}
	if c := snap.Centroid(); c != (Vec{X: 1, Y: 2}) {
		t.Errorf("Centroid = %v, want (1, 2)", c)
	}
	counts := snap.ColorCounts(3)
	if counts[0] != 1 || counts[1] != 2 || counts[2] != 0 {
		t.Errorf("ColorCounts = %v, want [1 2 0]", counts)
	}
}

func TestSnapshot_ParticlesRoundTrip(t *testing.T) {
	p := DefaultParams()
	p.Count = 30
	p.M = 4
	sim, err := New(p, NewSource(9))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		sim.Step()
	}

	restored, err := NewWithParticles(sim.Params(), sim.Snapshot().Particles(), sim.Rules())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		sim.Step()
		restored.Step()
	}

	a, b := sim.Snapshot(), restored.Snapshot()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d diverged after restore: %+v vs %+v", i, a[i], b[i])
		}
	}
}
