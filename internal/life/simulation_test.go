package life

import (
	"errors"
	"math"
	"testing"
)

func twoParticleSim(t *testing.T, rule float64) *Simulation {
	t.Helper()
	rules, err := RuleMatrixFromRows([][]float64{{rule}})
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	particles := []Particle{
		NewParticle(0, 0, 1, 0, 0),
		NewParticle(1, 0, 1, 0, 1),
	}
	p := Params{Dt: 0.01, FrictionHalfLife: 0.06, RMax: 10, ForceFactor: 1}
	sim, err := NewWithParticles(p, particles, rules)
	if err != nil {
		t.Fatalf("NewWithParticles: %v", err)
	}
	return sim
}

func TestStep_TwoParticleRepulsion(t *testing.T) {
	sim := twoParticleSim(t, 1.0)

	magnitude := ForceLaw(0.1, 1.0, DefaultBeta)
	if math.Abs(magnitude-(-2.0/3.0)) > 1e-12 {
		t.Fatalf("magnitude = %v, want -2/3", magnitude)
	}

	sim.Step()
	snap := sim.Snapshot()

	want := magnitude * 1 * 10
	if math.Abs(snap[0].VX-want) > 1e-12 {
		t.Errorf("particle 0 vx = %v, want %v", snap[0].VX, want)
	}
	if math.Abs(snap[1].VX+want) > 1e-12 {
		t.Errorf("particle 1 vx = %v, want %v", snap[1].VX, -want)
	}
	if snap[0].VY != 0 || snap[1].VY != 0 {
		t.Errorf("expected motion along x only, got vy %v and %v", snap[0].VY, snap[1].VY)
	}
	if snap[0].X >= 0 || snap[1].X <= 1 {
		t.Errorf("particles should move apart, got x0=%v x1=%v", snap[0].X, snap[1].X)
	}
	if math.Abs(snap[0].X+(snap[1].X-1)) > 1e-12 {
		t.Errorf("displacements not symmetric: %v vs %v", snap[0].X, snap[1].X-1)
	}
}

func TestStep_SingleParticleStaysPut(t *testing.T) {
	rules, _ := RuleMatrixFromRows([][]float64{{1}})
	sim, err := NewWithParticles(Params{Dt: 0.1, FrictionHalfLife: 1, RMax: 1, ForceFactor: 5}, []Particle{NewParticle(0.4, 0.6, 1, 0, 0)}, rules)
	if err != nil {
		t.Fatalf("NewWithParticles: %v", err)
	}

	for i := 0; i < 10; i++ {
		sim.Step()
	}

	snap := sim.Snapshot()
	if snap[0].X != 0.4 || snap[0].Y != 0.6 {
		t.Errorf("position changed to (%v, %v)", snap[0].X, snap[0].Y)
	}
	if snap[0].VX != 0 || snap[0].VY != 0 {
		t.Errorf("velocity changed to (%v, %v)", snap[0].VX, snap[0].VY)
	}
}

func TestStep_CoincidentParticlesIgnored(t *testing.T) {
	rules, _ := RuleMatrixFromRows([][]float64{{1}})
	particles := []Particle{NewParticle(0.5, 0.5, 1, 0, 0), NewParticle(0.5, 0.5, 1, 0, 1)}
	sim, err := NewWithParticles(Params{Dt: 0.01, FrictionHalfLife: 0.06, RMax: 0.1, ForceFactor: 1}, particles, rules)
	if err != nil {
		t.Fatalf("NewWithParticles: %v", err)
	}

	sim.Step()
	if !sim.Snapshot().IsValid() {
		t.Fatal("coincident particles produced NaN state")
	}
	if ke := sim.Snapshot().KineticEnergy(); ke != 0 {
		t.Errorf("kinetic energy = %v, want 0", ke)
	}
}

func TestStep_BeyondRadiusNoForce(t *testing.T) {
	rules, _ := RuleMatrixFromRows([][]float64{{1}})
	particles := []Particle{NewParticle(0, 0, 1, 0, 0), NewParticle(0.3, 0, 1, 0, 1)}
	sim, err := NewWithParticles(Params{Dt: 0.01, FrictionHalfLife: 0.06, RMax: 0.1, ForceFactor: 1}, particles, rules)
	if err != nil {
		t.Fatalf("NewWithParticles: %v", err)
	}

	sim.Step()
	if ke := sim.Snapshot().KineticEnergy(); ke != 0 {
		t.Errorf("particles beyond r_max interacted, kinetic energy %v", ke)
	}
}

func TestStep_AttractionInTentRegion(t *testing.T) {
	base := twoParticleSim(t, 1.0)
	// normalized distance 0.65, the tent peak
	particles := []Particle{NewParticle(0, 0, 1, 0, 0), NewParticle(6.5, 0, 1, 0, 1)}
	sim, err := NewWithParticles(base.Params(), particles, base.Rules())
	if err != nil {
		t.Fatalf("NewWithParticles: %v", err)
	}

	sim.Step()
	snap := sim.Snapshot()
	if snap[0].VX <= 0 || snap[1].VX >= 0 {
		t.Errorf("expected attraction, got vx0=%v vx1=%v", snap[0].VX, snap[1].VX)
	}
}

func TestStep_RuleRowIsAffectedColor(t *testing.T) {
	// color 0 is drawn to color 1, color 1 flees color 0
	rules, err := RuleMatrixFromRows([][]float64{{0, 1}, {-1, 0}})
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	particles := []Particle{NewParticle(0, 0, 1, 0, 0), NewParticle(6.5, 0, 1, 1, 1)}
	sim, err := NewWithParticles(Params{Dt: 0.01, FrictionHalfLife: 0.06, RMax: 10, ForceFactor: 1}, particles, rules)
	if err != nil {
		t.Fatalf("NewWithParticles: %v", err)
	}

	sim.Step()
	snap := sim.Snapshot()
	if snap[0].VX <= 0 {
		t.Errorf("color 0 should chase color 1, got vx0=%v", snap[0].VX)
	}
	if snap[1].VX <= 0 {
		t.Errorf("color 1 should flee color 0, got vx1=%v", snap[1].VX)
	}
	if math.Abs(snap[0].VX-snap[1].VX) > 1e-12 {
		t.Errorf("equal and same-signed pushes expected, got vx0=%v vx1=%v", snap[0].VX, snap[1].VX)
	}
}

func TestNewWithParticles_SizesFromArguments(t *testing.T) {
	rules, _ := RuleMatrixFromRows([][]float64{{1}})
	particles := []Particle{NewParticle(0, 0, 1, 0, 0), NewParticle(0.5, 0, 1, 0, 1)}

	sim, err := NewWithParticles(DefaultParams(), particles, rules)
	if err != nil {
		t.Fatalf("NewWithParticles: %v", err)
	}
	if sim.Count() != 2 || sim.Params().Count != 2 {
		t.Errorf("count = %d (params %d), want 2", sim.Count(), sim.Params().Count)
	}
	if sim.M() != 1 {
		t.Errorf("m = %d, want 1", sim.M())
	}
}

func TestStep_DragOnlyHalvesAtHalfLife(t *testing.T) {
	if got := FrictionFactor(0.05, 0.05); got != 0.5 {
		t.Errorf("FrictionFactor(dt, dt) = %v, want 0.5", got)
	}

	rules, _ := RuleMatrixFromRows([][]float64{{0}})
	p := NewParticle(0, 0, 1, 0, 0)
	p.velocity = Vec{X: 4, Y: 0}
	sim, err := NewWithParticles(Params{Dt: 0.05, FrictionHalfLife: 0.05, RMax: 1, ForceFactor: 1}, []Particle{p}, rules)
	if err != nil {
		t.Fatalf("NewWithParticles: %v", err)
	}

	sim.Step()
	snap := sim.Snapshot()
	if snap[0].VX != 2 {
		t.Errorf("vx after one half-life = %v, want 2", snap[0].VX)
	}
	if math.Abs(snap[0].X-0.1) > 1e-15 {
		t.Errorf("x = %v, want 0.1", snap[0].X)
	}
}

func TestFrictionFactor_IndependentOfDt(t *testing.T) {
	halfLife := 0.06
	for _, dt := range []float64{0.001, 0.01, 0.02} {
		ticks := halfLife / dt
		retained := math.Pow(FrictionFactor(dt, halfLife), ticks)
		if math.Abs(retained-0.5) > 1e-12 {
			t.Errorf("dt=%v: retained %v after one half-life, want 0.5", dt, retained)
		}
	}
}

func TestStep_Deterministic(t *testing.T) {
	p := DefaultParams()
	p.Count = 200
	p.RMax = 0.2

	a, err := New(p, NewSource(11))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(p, NewSource(11))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 25; i++ {
		a.Step()
		b.Step()
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("particle %d diverged: %+v vs %+v", i, sa[i], sb[i])
		}
	}
}

func TestStep_ParallelMatchesSerial(t *testing.T) {
	p := DefaultParams()
	p.Count = 500
	p.RMax = 0.15

	serial, err := New(p, NewSource(5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Workers = 4
	parallel, err := New(p, NewSource(5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 10; i++ {
		serial.Step()
		parallel.Step()
	}

	ss, ps := serial.Snapshot(), parallel.Snapshot()
	for i := range ss {
		if ss[i] != ps[i] {
			t.Fatalf("particle %d: serial %+v, parallel %+v", i, ss[i], ps[i])
		}
	}
}

func TestNew_Population(t *testing.T) {
	p := DefaultParams()
	p.Count = 300
	p.M = 4

	sim, err := New(p, NewSource(9))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if sim.Count() != 300 {
		t.Errorf("Count = %d, want 300", sim.Count())
	}
	if sim.M() != 4 || sim.Rules().M() != 4 {
		t.Errorf("M = %d, rules M = %d, want 4", sim.M(), sim.Rules().M())
	}
	for i, ps := range sim.Snapshot() {
		if ps.ID != i {
			t.Errorf("snapshot[%d].ID = %d", i, ps.ID)
		}
		if ps.Color < 0 || ps.Color >= 4 {
			t.Errorf("particle %d color %d out of range", i, ps.Color)
		}
		if ps.X < 0 || ps.X >= 1 || ps.Y < 0 || ps.Y >= 1 {
			t.Errorf("particle %d at (%v, %v) outside unit square", i, ps.X, ps.Y)
		}
	}
	want := FrictionFactor(p.Dt, p.FrictionHalfLife)
	if sim.FrictionFactor() != want {
		t.Errorf("FrictionFactor = %v, want %v", sim.FrictionFactor(), want)
	}
}

func TestNew_InvalidParams(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(*Params)
	}{
		{"zero count", "count", func(p *Params) { p.Count = 0 }},
		{"zero dt", "dt", func(p *Params) { p.Dt = 0 }},
		{"negative dt", "dt", func(p *Params) { p.Dt = -0.1 }},
		{"NaN dt", "dt", func(p *Params) { p.Dt = math.NaN() }},
		{"zero half-life", "friction_half_life", func(p *Params) { p.FrictionHalfLife = 0 }},
		{"zero r_max", "r_max", func(p *Params) { p.RMax = 0 }},
		{"zero m", "m", func(p *Params) { p.M = 0 }},
		{"infinite force", "force_factor", func(p *Params) { p.ForceFactor = math.Inf(1) }},
		{"beta one", "beta", func(p *Params) { p.Beta = 1 }},
		{"negative workers", "workers", func(p *Params) { p.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.edit(&p)
			_, err := New(p, NewSource(1))
			if !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected ErrInvalidParams, got %v", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Errorf("expected ConfigError on %q, got %v", tt.field, err)
			}
		})
	}
}

func TestNew_NilSource(t *testing.T) {
	if _, err := New(DefaultParams(), nil); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestNewWithParticles_Invalid(t *testing.T) {
	rules, _ := RuleMatrixFromRows([][]float64{{0, 0}, {0, 0}})
	base := Params{Dt: 0.01, FrictionHalfLife: 0.06, RMax: 0.1, ForceFactor: 1}

	tests := []struct {
		name      string
		particles []Particle
		rules     *RuleMatrix
	}{
		{"empty", nil, rules},
		{"color out of range", []Particle{NewParticle(0, 0, 1, 2, 0)}, rules},
		{"sparse ids", []Particle{NewParticle(0, 0, 1, 0, 0), NewParticle(0, 0, 1, 0, 5)}, rules},
		{"missing rules", []Particle{NewParticle(0, 0, 1, 0, 0)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWithParticles(base, tt.particles, tt.rules); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	sim := twoParticleSim(t, 1)
	snap := sim.Snapshot()
	snap[0].X = 42

	if sim.Snapshot()[0].X == 42 {
		t.Error("mutating a snapshot changed the simulation")
	}
}

func TestSnapshotInto_ReusesBuffer(t *testing.T) {
	sim := twoParticleSim(t, 1)
	buf := make(Snapshot, 0, 8)
	out := sim.SnapshotInto(buf)

	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if &out[0] != &buf[:1][0] {
		t.Error("SnapshotInto allocated despite sufficient capacity")
	}
}

func TestSimulation_TickAndTime(t *testing.T) {
	sim := twoParticleSim(t, 0.5)
	for i := 0; i < 3; i++ {
		sim.Step()
	}
	if sim.Tick() != 3 {
		t.Errorf("Tick = %d, want 3", sim.Tick())
	}
	if math.Abs(sim.Time()-0.03) > 1e-12 {
		t.Errorf("Time = %v, want 0.03", sim.Time())
	}
}
