package config

import "sort"

func preset(edit func(c *Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"crater": {
		"default": preset(func(c *Config) {}),
		"empty": preset(func(c *Config) {
			c.Probe.Enabled = false
			c.Duration = 1
		}),
		"bounce": preset(func(c *Config) {
			c.Probe.Position = [3]float64{0, 40, 0}
			c.Probe.Restitution = 0.9
			c.Duration = 20
		}),
		"skim": preset(func(c *Config) {
			c.Probe.Position = [3]float64{-40, 5, 0}
			c.Probe.Velocity = [3]float64{15, 0, 2}
			c.Gravity = 0
		}),
		"hover": preset(func(c *Config) {
			c.Controller = "pid"
			c.ControllerParams.Target = 10
			c.Duration = 15
		}),
		"wide": preset(func(c *Config) {
			c.Crater.Shift = 40
			c.Crater.Width = 20
			c.Probe.Position = [3]float64{0, 30, 0}
		}),
		"planar": preset(func(c *Config) {
			c.World = "planar"
			c.Gravity = 0
			c.Probe.Position = [3]float64{-40, 0, 0}
			c.Probe.Velocity = [3]float64{8, 0, 6}
			c.Duration = 20
		}),
		"coarse": preset(func(c *Config) {
			c.Integrator = "euler"
			c.Dt = 0.05
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, name string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

// ListPresets returns the preset names for a model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
