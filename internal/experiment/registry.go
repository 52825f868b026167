package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/tgsim/internal/chipmunk"
	"github.com/san-kum/tgsim/internal/config"
	"github.com/san-kum/tgsim/internal/controllers"
	"github.com/san-kum/tgsim/internal/crater"
	"github.com/san-kum/tgsim/internal/dynamo"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/integrators"
	"github.com/san-kum/tgsim/internal/metrics"
	"github.com/san-kum/tgsim/internal/model"
	"github.com/san-kum/tgsim/internal/sim"
	"github.com/san-kum/tgsim/internal/world"
)

type (
	ModelFactory      func(cfg *config.Config) *model.Model
	WorldFactory      func(cfg *config.Config, integ dynamo.Integrator) world.World
	ControllerFactory func(cfg *config.Config) model.Observer
)

type Registry struct {
	models      map[string]ModelFactory
	worlds      map[string]WorldFactory
	controllers map[string]ControllerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]ModelFactory),
		worlds:      make(map[string]WorldFactory),
		controllers: make(map[string]ControllerFactory),
	}

	r.models["crater"] = func(cfg *config.Config) *model.Model { return crater.New(cfg.Crater).Model }

	r.worlds["memory"] = func(cfg *config.Config, integ dynamo.Integrator) world.World {
		return world.NewMemory(integ, geom.V(0, cfg.Gravity, 0))
	}
	// The planar world looks down on the ground plane, where vertical
	// gravity has no component.
	r.worlds["planar"] = func(cfg *config.Config, integ dynamo.Integrator) world.World {
		return chipmunk.New(0, 0)
	}

	r.controllers["none"] = func(cfg *config.Config) model.Observer { return nil }
	r.controllers["pid"] = func(cfg *config.Config) model.Observer {
		p := cfg.ControllerParams
		return controllers.NewPID(p.Kp, p.Ki, p.Kd, geom.UnitY, p.Target)
	}

	return r
}

// RegisterModel adds or replaces a model factory.
func (r *Registry) RegisterModel(name string, fn ModelFactory) { r.models[name] = fn }

func (r *Registry) GetModel(name string, cfg *config.Config) (*model.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) GetWorld(name string, cfg *config.Config, integ dynamo.Integrator) (world.World, error) {
	fn, ok := r.worlds[name]
	if !ok {
		return nil, fmt.Errorf("unknown world: %s", name)
	}
	return fn(cfg, integ), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	return integrators.ByName(name)
}

// GetController returns nil, nil for "none".
func (r *Registry) GetController(name string, cfg *config.Config) (model.Observer, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListModels() []string      { return sortedKeys(r.models) }
func (r *Registry) ListWorlds() []string      { return sortedKeys(r.worlds) }
func (r *Registry) ListControllers() []string { return sortedKeys(r.controllers) }
func (r *Registry) ListIntegrators() []string { return integrators.Names() }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics measures the probe against gravity and the crater rim.
func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	g := geom.V(0, cfg.Gravity, 0)
	rim := cfg.Crater.Shift + cfg.Crater.Width
	return []sim.Metric{
		metrics.NewEnergy(g),
		metrics.NewEnergyDrift(g),
		metrics.NewContainment(cfg.Crater.OriginVec(), rim),
		metrics.NewPeakSpeed(),
	}
}
