package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlelife/internal/config"
	"github.com/san-kum/particlelife/internal/logging"
	"github.com/san-kum/particlelife/internal/metrics"
	"github.com/san-kum/particlelife/internal/sim"
	"github.com/san-kum/particlelife/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults), applies Set overrides
// and runs for Ticks. SaveAs records the run in the store under that name.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Seed   uint64             `yaml:"seed"`
	Ticks  int                `yaml:"ticks"`
	Set    map[string]float64 `yaml:"set"`
	SaveAs string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}

	return &scenario, nil
}

// RunScenario executes all steps in order. store may be nil when no step
// saves.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, logger logging.Logger) ([]*sim.Result, error) {
	results := make([]*sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg := config.DefaultConfig()
		if step.Preset != "" {
			if cfg = config.GetPreset(step.Preset); cfg == nil {
				return results, fmt.Errorf("step %d: unknown preset %q", i+1, step.Preset)
			}
		}
		if step.Seed != 0 {
			cfg.Seed = step.Seed
		}
		if step.Ticks > 0 {
			cfg.Ticks = step.Ticks
		}
		for name, v := range step.Set {
			if err := cfg.Set(name, v); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		s, err := cfg.NewSimulation()
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		logger.Infof("running step %d/%d: %d particles, %d ticks", i+1, len(scenario.Steps), cfg.Count, cfg.Ticks)

		runner := sim.New(s, sim.WithLogger(logger))
		for _, m := range metrics.Default() {
			runner.AddMetric(m)
		}
		result, err := runner.Run(ctx, cfg.Ticks)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)

		if step.SaveAs != "" {
			if store == nil {
				return results, fmt.Errorf("step %d: save_as set without a store", i+1)
			}
			id, err := store.Save(storage.NewMetadata(step.SaveAs, cfg, s.Rules().Rows()), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			logger.Infof("saved step %d as %s", i+1, id)
		}
	}

	return results, nil
}
