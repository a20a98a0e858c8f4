package config

import (
	"fmt"
	"math"
	"sort"
)

var setters = map[string]func(c *Config, v float64){
	"count":              func(c *Config, v float64) { c.Count = int(math.Round(v)) },
	"dt":                 func(c *Config, v float64) { c.Dt = v },
	"friction_half_life": func(c *Config, v float64) { c.FrictionHalfLife = v },
	"r_max":              func(c *Config, v float64) { c.RMax = v },
	"m":                  func(c *Config, v float64) { c.M = int(math.Round(v)) },
	"force_factor":       func(c *Config, v float64) { c.ForceFactor = v },
	"beta":               func(c *Config, v float64) { c.Beta = v },
	"noise_scale":        func(c *Config, v float64) { c.NoiseScale = v },
	"workers":            func(c *Config, v float64) { c.Workers = int(math.Round(v)) },
}

// Set assigns a numeric parameter by its YAML name. Integer fields are
// rounded.
func (c *Config) Set(name string, v float64) error {
	set, ok := setters[name]
	if !ok {
		return fmt.Errorf("config: unknown parameter %q (have %v)", name, Tunable())
	}
	set(c, v)
	return nil
}

// Tunable lists the parameter names accepted by Set.
func Tunable() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
