package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tgsim/internal/crater"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultGravity  = -9.81
	DefaultKp       = 4.0
	DefaultKi       = 0.0
	DefaultKd       = 4.0
)

type Config struct {
	Model            string           `yaml:"model"`
	World            string           `yaml:"world"`
	Integrator       string           `yaml:"integrator"`
	Controller       string           `yaml:"controller"`
	Dt               float64          `yaml:"dt"`
	Duration         float64          `yaml:"duration"`
	Gravity          float64          `yaml:"gravity"`
	LogLevel         string           `yaml:"log_level"`
	Crater           crater.Config    `yaml:"crater"`
	Probe            ProbeConfig      `yaml:"probe"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
}

// ProbeConfig describes a sphere dropped into the scene to exercise it.
type ProbeConfig struct {
	Enabled     bool       `yaml:"enabled"`
	Radius      float64    `yaml:"radius"`
	Density     float64    `yaml:"density"`
	Friction    float64    `yaml:"friction"`
	Restitution float64    `yaml:"restitution"`
	Position    [3]float64 `yaml:"position"`
	Velocity    [3]float64 `yaml:"velocity"`
}

type ControllerConfig struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Target float64 `yaml:"target"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "crater",
		World:      "memory",
		Integrator: "rk4",
		Controller: "none",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Gravity:    DefaultGravity,
		LogLevel:   "info",
		Crater:     crater.DefaultConfig(),
		Probe: ProbeConfig{
			Enabled:     true,
			Radius:      1,
			Density:     1,
			Friction:    0.5,
			Restitution: 0.5,
			Position:    [3]float64{0, 20, 0},
		},
		ControllerParams: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Dt > c.Duration {
		return fmt.Errorf("dt %f exceeds duration %f", c.Dt, c.Duration)
	}
	if err := c.Crater.Validate(); err != nil {
		return fmt.Errorf("crater: %w", err)
	}
	if c.Probe.Enabled {
		if c.Probe.Radius <= 0 {
			return fmt.Errorf("probe radius must be positive, got %f", c.Probe.Radius)
		}
		if c.Probe.Density < 0 {
			return fmt.Errorf("probe density must not be negative, got %f", c.Probe.Density)
		}
	}
	return nil
}
