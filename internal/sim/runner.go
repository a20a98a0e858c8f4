package sim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/particlelife/internal/life"
	"github.com/san-kum/particlelife/internal/logging"
)

// Runner drives a Simulation for a fixed number of ticks, feeding every
// post-tick snapshot to its metrics and observers.
type Runner struct {
	sim       *life.Simulation
	metrics   []Metric
	observers []Observer
	logger    logging.Logger
	validate  bool
}

type Option func(*Runner)

func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithValidation toggles the per-tick NaN/Inf check. It is on by default.
func WithValidation(on bool) Option {
	return func(r *Runner) { r.validate = on }
}

func New(s *life.Simulation, opts ...Option) *Runner {
	r := &Runner{
		sim:       s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logging.NewNoOp(),
		validate:  true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) AddMetric(m Metric)           { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)       { r.observers = append(r.observers, o) }
func (r *Runner) Simulation() *life.Simulation { return r.sim }

func (r *Runner) logSetup() {
	p := r.sim.Params()
	r.logger.Debugf("particles=%d colors=%d workers=%d", r.sim.Count(), p.M, p.Workers)
	r.logger.Debugf("dt=%g friction_factor=%g force_factor=%g r_max=%g beta=%g",
		p.Dt, r.sim.FrictionFactor(), p.ForceFactor, p.RMax, p.Beta)
	for i, row := range r.sim.Rules().Rows() {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%+.3f", v)
		}
		r.logger.Debugf("rules[%d] = [%s]", i, strings.Join(cells, " "))
	}
}

// Run advances the simulation by ticks steps. On cancellation or divergence
// the partial result is returned together with the error.
func (r *Runner) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks < 0 {
		return nil, &life.ConfigError{Field: "ticks", Value: ticks, Reason: "must not be negative"}
	}
	r.logSetup()

	result := &Result{
		Times:   make([]float64, 0, ticks),
		Series:  make(map[string][]float64, len(r.metrics)),
		Metrics: make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, ticks)
	}

	var snap life.Snapshot
	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		for _, m := range r.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
		result.Final = r.sim.Snapshot()
	}()

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			r.logger.Warnf("run canceled at tick %d", r.sim.Tick())
			return result, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		default:
		}

		r.sim.Step()
		snap = r.sim.SnapshotInto(snap)
		t := r.sim.Time()

		if r.validate && !snap.IsValid() {
			err := &SimError{Tick: r.sim.Tick(), Time: t, Message: "non-finite particle state", Wrapped: ErrDiverged}
			r.logger.Errorf("%v", err)
			return result, err
		}

		for _, m := range r.metrics {
			m.Observe(snap, t)
			v := m.Value()
			if s, ok := m.(Sampler); ok {
				v = s.Last()
			}
			result.Series[m.Name()] = append(result.Series[m.Name()], v)
		}
		for _, obs := range r.observers {
			obs.OnStep(snap, r.sim.Tick(), t)
		}

		result.Times = append(result.Times, t)
		result.Ticks++
	}

	r.logger.Infof("completed %d ticks (t=%.4f)", result.Ticks, r.sim.Time())
	return result, nil
}

// RunWithCallback hands the current snapshot to callback before every tick
// and stops when it returns false. ticks <= 0 runs until the context ends or
// the callback stops it.
func (r *Runner) RunWithCallback(ctx context.Context, ticks int, callback func(life.Snapshot, int) bool) error {
	var snap life.Snapshot
	for i := 0; ticks <= 0 || i < ticks; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		default:
		}

		snap = r.sim.SnapshotInto(snap)
		if !callback(snap, r.sim.Tick()) {
			return nil
		}

		r.sim.Step()

		if r.validate {
			snap = r.sim.SnapshotInto(snap)
			if !snap.IsValid() {
				return &SimError{Tick: r.sim.Tick(), Time: r.sim.Time(), Message: "non-finite particle state", Wrapped: ErrDiverged}
			}
		}
	}
	return nil
}
