package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlelife/internal/config"
	"github.com/san-kum/particlelife/internal/logging"
	"github.com/san-kum/particlelife/internal/metrics"
	"github.com/san-kum/particlelife/internal/sim"
)

// ParamRange is an inclusive, evenly spaced range of one parameter.
type ParamRange struct {
	Name  string  `yaml:"name"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

// Values expands the range. Fewer than two steps yields Min only.
func (r ParamRange) Values() []float64 {
	if r.Steps < 2 {
		return []float64{r.Min}
	}
	vals := make([]float64, r.Steps)
	step := (r.Max - r.Min) / float64(r.Steps-1)
	for i := range vals {
		vals[i] = r.Min + float64(i)*step
	}
	return vals
}

// Sweep runs a base configuration over the cartesian product of its
// parameter ranges, with Seeds independent simulations per point.
type Sweep struct {
	Name   string         `yaml:"name"`
	Preset string         `yaml:"preset"`
	Base   *config.Config `yaml:"base"`
	Params []ParamRange   `yaml:"params"`
	Ticks  int            `yaml:"ticks"`
	Seeds  int            `yaml:"seeds"`
}

// SweepResult holds the seed-averaged metrics of one grid point.
type SweepResult struct {
	Params   map[string]float64 `yaml:"params"`
	Metrics  map[string]float64 `yaml:"metrics"`
	Diverged int                `yaml:"diverged"`
}

// sweepFile mirrors Sweep with base kept undecoded until its starting
// configuration is known.
type sweepFile struct {
	Name   string       `yaml:"name"`
	Preset string       `yaml:"preset"`
	Base   yaml.Node    `yaml:"base"`
	Params []ParamRange `yaml:"params"`
	Ticks  int          `yaml:"ticks"`
	Seeds  int          `yaml:"seeds"`
}

// LoadSweep reads a sweep file. A base block overlays the named preset, or
// the defaults when no preset is given, the same way config.Load does.
func LoadSweep(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw sweepFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}

	sweep := &Sweep{
		Name:   raw.Name,
		Preset: raw.Preset,
		Params: raw.Params,
		Ticks:  raw.Ticks,
		Seeds:  raw.Seeds,
	}
	if raw.Base.Kind != 0 {
		cfg, err := sweep.base()
		if err != nil {
			return nil, err
		}
		if err := raw.Base.Decode(cfg); err != nil {
			return nil, fmt.Errorf("automation: parse %s base: %w", path, err)
		}
		sweep.Base = cfg
	}
	return sweep, nil
}

// base returns the starting configuration: Base when set, else the preset,
// else the defaults.
func (s *Sweep) base() (*config.Config, error) {
	switch {
	case s.Base != nil:
		return s.Base.Clone(), nil
	case s.Preset != "":
		cfg := config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("automation: unknown preset %q", s.Preset)
		}
		return cfg, nil
	default:
		return config.DefaultConfig(), nil
	}
}

// Points expands the grid in row-major order, the last parameter varying
// fastest.
func (s *Sweep) Points() []map[string]float64 {
	points := make([]map[string]float64, 0)
	s.expand(0, map[string]float64{}, &points)
	return points
}

func (s *Sweep) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(s.Params) {
		*out = append(*out, current)
		return
	}

	r := s.Params[depth]
	for _, val := range r.Values() {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[r.Name] = val
		s.expand(depth+1, next, out)
	}
}

// RunSweep evaluates every grid point. A point whose members diverge is
// reported with Diverged set rather than aborting the sweep.
func RunSweep(ctx context.Context, s *Sweep, logger logging.Logger) ([]SweepResult, error) {
	base, err := s.base()
	if err != nil {
		return nil, err
	}
	ticks := s.Ticks
	if ticks <= 0 {
		ticks = base.Ticks
	}
	seeds := s.Seeds
	if seeds <= 0 {
		seeds = 1
	}

	points := s.Points()
	results := make([]SweepResult, 0, len(points))

	for i, point := range points {
		cfg := base.Clone()
		for name, v := range point {
			if err := cfg.Set(name, v); err != nil {
				return nil, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("point %d %v: %w", i+1, point, err)
		}

		res, err := runPoint(ctx, cfg, seeds, ticks)
		if err != nil {
			return results, fmt.Errorf("point %d %v: %w", i+1, point, err)
		}
		res.Params = point
		results = append(results, res)

		logger.Infof("sweep %d/%d: %v kinetic_energy=%.4g spread=%.4g",
			i+1, len(points), point, res.Metrics["kinetic_energy"], res.Metrics["spread"])
	}

	return results, nil
}

func runPoint(ctx context.Context, cfg *config.Config, seeds, ticks int) (SweepResult, error) {
	res := SweepResult{Metrics: map[string]float64{}}

	// Members run one by one so a divergence does not discard the others.
	ok := 0
	for _, seed := range sim.SeedRange(cfg.Seed, seeds) {
		c := cfg.Clone()
		c.Seed = seed
		s, err := c.NewSimulation()
		if err != nil {
			return res, err
		}
		runner := sim.New(s)
		for _, m := range metrics.Default() {
			runner.AddMetric(m)
		}

		out, err := runner.Run(ctx, ticks)
		switch {
		case err == nil:
			for name, v := range out.Metrics {
				res.Metrics[name] += v
			}
			ok++
		case errors.Is(err, sim.ErrDiverged):
			res.Diverged++
		default:
			return res, err
		}
	}

	for name := range res.Metrics {
		res.Metrics[name] /= float64(ok)
	}
	return res, nil
}

// Best returns the result minimizing (or maximizing) metric among points that
// did not diverge entirely.
func Best(results []SweepResult, metric string, maximize bool) (SweepResult, bool) {
	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}

	var out SweepResult
	found := false
	for _, r := range results {
		v, ok := r.Metrics[metric]
		if !ok {
			continue
		}
		if (maximize && v > best) || (!maximize && v < best) {
			best, out, found = v, r, true
		}
	}
	return out, found
}
