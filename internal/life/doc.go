// Package life implements the particle life force engine.
//
// A fixed population of colored point particles attracts and repels each
// other according to a per-color-pair rule table:
//
//   - [Particle]: kinematic state plus identity (id, color class)
//   - [RuleMatrix]: M×M table of coefficients in [-1, 1]
//   - [ForceLaw]: piecewise radial kernel (near-field repulsion, tent-shaped far field)
//   - [Simulation]: owns particles and rules, advances one tick per [Simulation.Step]
//
// # Example
//
//	sim, err := life.New(life.DefaultParams(), life.NewSource(42))
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 100; i++ {
//	    sim.Step()
//	}
//	snap := sim.Snapshot()
//
// # Thread Safety
//
// A Simulation is NOT safe for concurrent use. Step may fan the force
// accumulation out over Params.Workers goroutines internally, but it returns
// only after every particle has been integrated. Snapshots are copies and
// may be shared freely.
package life
