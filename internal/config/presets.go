package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"small": {
		Count: 200, Dt: 0.01, FrictionHalfLife: 0.06, RMax: 0.1, M: 4, ForceFactor: 1,
		Beta: 0.3, Seed: 1, Ticks: 500, Layout: LayoutUniform, LogLevel: "info",
	},
	"dense": {
		Count: 3000, Dt: 0.01, FrictionHalfLife: 0.04, RMax: 0.05, M: 6, ForceFactor: 1,
		Beta: 0.3, Workers: 8, Seed: 7, Ticks: 1000, Layout: LayoutUniform, LogLevel: "info",
	},
	"territories": {
		Count: 1500, Dt: 0.01, FrictionHalfLife: 0.06, RMax: 0.1, M: 5, ForceFactor: 1,
		Beta: 0.3, Workers: 4, Seed: 42, Ticks: 2000, Layout: LayoutNoise, NoiseScale: 4, LogLevel: "info",
	},
	"chase": {
		Count: 600, Dt: 0.01, FrictionHalfLife: 0.1, RMax: 0.12, M: 3, ForceFactor: 2,
		Beta: 0.3, Seed: 3, Ticks: 1500, Layout: LayoutUniform, LogLevel: "info",
		Rules: [][]float64{
			{0.6, 1, -0.4},
			{-0.4, 0.6, 1},
			{1, -0.4, 0.6},
		},
	},
	"cells": {
		Count: 800, Dt: 0.01, FrictionHalfLife: 0.06, RMax: 0.1, M: 2, ForceFactor: 1,
		Beta: 0.3, Seed: 11, Ticks: 1500, Layout: LayoutUniform, LogLevel: "info",
		Rules: [][]float64{
			{1, -0.5},
			{0.8, 0.2},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
