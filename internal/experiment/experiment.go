// Package experiment assembles a runnable scene from a config: the world,
// the terrain model, an optional probe and the observers watching it.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/tgsim/internal/config"
	"github.com/san-kum/tgsim/internal/controllers"
	"github.com/san-kum/tgsim/internal/logging"
	"github.com/san-kum/tgsim/internal/model"
	"github.com/san-kum/tgsim/internal/sim"
	"github.com/san-kum/tgsim/internal/storage"
	"github.com/san-kum/tgsim/internal/world"
)

type Experiment struct {
	cfg      *config.Config
	world    world.World
	terrain  *model.Model
	probe    *model.Model
	recorder *controllers.Recorder
	census   *census
	sim      *sim.Simulation
}

func New(cfg *config.Config, r *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	w, err := r.GetWorld(cfg.World, cfg, integ)
	if err != nil {
		return nil, err
	}
	terrain, err := r.GetModel(cfg.Model, cfg)
	if err != nil {
		return nil, err
	}
	ctrl, err := r.GetController(cfg.Controller, cfg)
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:      cfg,
		world:    w,
		terrain:  terrain,
		recorder: controllers.NewRecorder(),
		census:   &census{},
		sim:      sim.New(w, terrain),
	}
	terrain.Attach(e.census)

	if cfg.Probe.Enabled {
		e.probe = newProbe(cfg.Probe)
		e.probe.Attach(&controllers.Kick{Velocity: vec(cfg.Probe.Velocity)})
		if ctrl != nil {
			e.probe.Attach(ctrl)
		}
		e.probe.Attach(e.recorder)
		e.probe.Attach(e.census)
		e.sim.AddHost(e.probe)
	} else {
		if ctrl != nil {
			terrain.Attach(ctrl)
		}
		terrain.Attach(e.recorder)
	}

	for _, m := range r.DefaultMetrics(cfg) {
		e.sim.AddMetric(m)
	}
	return e, nil
}

// SetLogger routes model lifecycle logging to l.
func (e *Experiment) SetLogger(l *slog.Logger) {
	e.terrain.SetLogger(l)
	e.terrain.Attach(controllers.NewLogger(l))
	if e.probe != nil {
		e.probe.SetLogger(l)
	}
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{Dt: e.cfg.Dt, Duration: e.cfg.Duration}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.RunWithCallback(ctx, nil)
}

func (e *Experiment) RunWithCallback(ctx context.Context, fn func(sim.Frame) bool) (*sim.Result, error) {
	log := logging.FromContext(ctx)
	log.Info("running experiment",
		"model", e.cfg.Model, "world", e.cfg.World, "integrator", e.cfg.Integrator,
		"dt", e.cfg.Dt, "duration", e.cfg.Duration, "probe", e.probe != nil)

	result, err := e.sim.RunWithCallback(ctx, e.SimConfig(), fn)
	if err != nil {
		return result, fmt.Errorf("experiment %s: %w", e.cfg.Model, err)
	}
	return result, nil
}

// Start begins a run the caller advances frame by frame.
func (e *Experiment) Start() (*sim.Session, error) {
	return e.sim.Start()
}

// Bodies lists every body built during the last setup, terrain first.
func (e *Experiment) Bodies() []storage.BodyRecord {
	out := make([]storage.BodyRecord, len(e.census.records))
	copy(out, e.census.records)
	return out
}

// Metadata describes a finished run for storage.
func (e *Experiment) Metadata(result *sim.Result) storage.RunMetadata {
	meta := storage.RunMetadata{
		Model:      e.cfg.Model,
		World:      e.cfg.World,
		Integrator: e.cfg.Integrator,
		Controller: e.cfg.Controller,
		Dt:         e.cfg.Dt,
		Duration:   e.cfg.Duration,
	}
	if result != nil {
		meta.Steps = result.Steps
		meta.SimTime = result.Time
		meta.Metrics = result.Metrics
	}
	return meta
}

// Save stores a finished run and returns its ID.
func (e *Experiment) Save(st *storage.Store, result *sim.Result) (string, error) {
	return st.Save(e.Metadata(result), e.Bodies(), e.recorder.Samples())
}

// census records each model's bodies as the model comes up.
type census struct {
	records []storage.BodyRecord
}

func (c *census) OnSetup(m *model.Model) { m.Visit(c) }

func (c *census) OnStep(m *model.Model, dt float64) {}
func (c *census) OnTeardown(m *model.Model)         {}

func (c *census) VisitModel(m *model.Model) {}

func (c *census) VisitBody(owner *model.Model, b world.Body) {
	c.records = append(c.records, storage.BodyRecord{Model: owner.Name(), ID: b.ID(), Spec: b.Spec()})
}

func (e *Experiment) Config() *config.Config          { return e.cfg }
func (e *Experiment) World() world.World              { return e.world }
func (e *Experiment) Terrain() *model.Model           { return e.terrain }
func (e *Experiment) Probe() *model.Model             { return e.probe }
func (e *Experiment) Recorder() *controllers.Recorder { return e.recorder }
