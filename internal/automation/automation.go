// Package automation runs scripted sequences of experiments from YAML.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tgsim/internal/config"
	"github.com/san-kum/tgsim/internal/experiment"
	"github.com/san-kum/tgsim/internal/logging"
	"github.com/san-kum/tgsim/internal/sim"
	"github.com/san-kum/tgsim/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset of the model with config keys laid
// over it.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Model  string    `yaml:"model"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
	Save   bool      `yaml:"save"`
}

// StepResult is the outcome of one step. RunID is empty unless the step
// was saved.
type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// Resolve builds the config for a step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	model := s.Model
	if model == "" {
		model = "crater"
	}

	cfg := config.DefaultConfig()
	cfg.Model = model
	if s.Preset != "" {
		if cfg = config.GetPreset(model, s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets(model))
		}
	}
	if s.Config.Kind != 0 {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return cfg, nil
}

func (s ScenarioStep) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step %d", i+1)
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the steps that completed. st may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store) ([]StepResult, error) {
	log := logging.FromContext(ctx)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.label(i)
		log.Info("scenario step", "scenario", scenario.Name, "step", name, "index", i+1, "of", len(scenario.Steps))

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		exp, err := experiment.New(cfg, registry)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s run: %w", name, err)
		}

		out := StepResult{Name: name, Result: result}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("%s: no store to save into", name)
			}
			if out.RunID, err = exp.Save(st, result); err != nil {
				return results, fmt.Errorf("%s save: %w", name, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}
