package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlelife/internal/life"
)

const (
	DefaultCount            = 1000
	DefaultDt               = 0.01
	DefaultFrictionHalfLife = 0.06
	DefaultRMax             = 0.1
	DefaultM                = 6
	DefaultForceFactor      = 1.0
	DefaultTicks            = 1000
	DefaultSeed             = 1
	DefaultNoiseScale       = 3.0
)

const (
	LayoutUniform = "uniform"
	LayoutNoise   = "noise"
)

type Config struct {
	Count            int         `yaml:"count"`
	Dt               float64     `yaml:"dt"`
	FrictionHalfLife float64     `yaml:"friction_half_life"`
	RMax             float64     `yaml:"r_max"`
	M                int         `yaml:"m"`
	ForceFactor      float64     `yaml:"force_factor"`
	Beta             float64     `yaml:"beta"`
	Workers          int         `yaml:"workers"`
	Seed             uint64      `yaml:"seed"`
	Ticks            int         `yaml:"ticks"`
	Layout           string      `yaml:"layout"`
	NoiseScale       float64     `yaml:"noise_scale,omitempty"`
	Rules            [][]float64 `yaml:"rules,omitempty"`
	LogLevel         string      `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Count:            DefaultCount,
		Dt:               DefaultDt,
		FrictionHalfLife: DefaultFrictionHalfLife,
		RMax:             DefaultRMax,
		M:                DefaultM,
		ForceFactor:      DefaultForceFactor,
		Beta:             life.DefaultBeta,
		Seed:             DefaultSeed,
		Ticks:            DefaultTicks,
		Layout:           LayoutUniform,
		NoiseScale:       DefaultNoiseScale,
		LogLevel:         "info",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, including the rule rows.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Rules != nil {
		cp.Rules = make([][]float64, len(c.Rules))
		for i, row := range c.Rules {
			cp.Rules[i] = append([]float64(nil), row...)
		}
	}
	return &cp
}

// Params converts the configuration into core parameters, building the
// initial layout.
func (c *Config) Params() (life.Params, error) {
	p := life.Params{
		Count:            c.Count,
		Dt:               c.Dt,
		FrictionHalfLife: c.FrictionHalfLife,
		RMax:             c.RMax,
		M:                c.M,
		ForceFactor:      c.ForceFactor,
		Beta:             c.Beta,
		Workers:          c.Workers,
	}
	switch c.Layout {
	case "", LayoutUniform:
		p.Layout = life.UniformLayout{}
	case LayoutNoise:
		p.Layout = life.NewNoiseLayout(int64(c.Seed), c.NoiseScale)
	default:
		return life.Params{}, &life.ConfigError{Field: "layout", Value: c.Layout, Reason: "must be uniform or noise"}
	}
	return p, nil
}

// Validate checks everything New would check plus the host-only fields.
func (c *Config) Validate() error {
	p, err := c.Params()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if c.Ticks < 0 {
		return &life.ConfigError{Field: "ticks", Value: c.Ticks, Reason: "must not be negative"}
	}
	if c.Rules != nil {
		rules, err := life.RuleMatrixFromRows(c.Rules)
		if err != nil {
			return err
		}
		if rules.M() != c.M {
			return &life.ConfigError{Field: "rules", Value: rules.M(), Reason: fmt.Sprintf("matrix size must equal m=%d", c.M)}
		}
	}
	return nil
}

// NewSimulation builds a simulation seeded from c.Seed. When Rules is set the
// particles are still placed from the seed but the matrix is taken verbatim.
func (c *Config) NewSimulation() (*life.Simulation, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p, _ := c.Params()
	src := life.NewSource(c.Seed)
	if c.Rules == nil {
		return life.New(p, src)
	}

	rules, err := life.RuleMatrixFromRows(c.Rules)
	if err != nil {
		return nil, err
	}
	particles := make([]life.Particle, p.Count)
	for i := range particles {
		particles[i] = p.Layout.Place(i, p.M, src)
	}
	return life.NewWithParticles(p, particles, rules)
}
