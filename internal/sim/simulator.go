// Package sim drives a world and the hosts living in it frame by frame.
//
// Every frame steps each host in registration order and then the world.
// Hosts are set up before the first frame and always torn down when the run
// ends, including on error and cancellation.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/tgsim/internal/logging"
	"github.com/san-kum/tgsim/internal/world"
)

// ErrClosed is returned when advancing a session that has ended.
var ErrClosed = errors.New("sim: session closed")

type Simulation struct {
	world   world.World
	hosts   []Host
	metrics []Metric
}

func New(w world.World, hosts ...Host) *Simulation {
	return &Simulation{
		world:   w,
		hosts:   hosts,
		metrics: make([]Metric, 0),
	}
}

func (s *Simulation) AddHost(h Host)     { s.hosts = append(s.hosts, h) }
func (s *Simulation) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulation) World() world.World { return s.world }

func (s *Simulation) Run(ctx context.Context, cfg Config) (*Result, error) {
	return s.RunWithCallback(ctx, cfg, nil)
}

// RunWithCallback runs like Run and calls fn after every frame. The run
// stops early, without error, once fn returns false.
func (s *Simulation) RunWithCallback(ctx context.Context, cfg Config, fn func(Frame) bool) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ss, err := s.start(logging.FromContext(ctx))
	if err != nil {
		return nil, err
	}
	defer ss.Close()

	steps := cfg.Steps()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ss.Result(), ctx.Err()
		default:
		}

		f, err := ss.Advance(cfg.Dt)
		if err != nil {
			return ss.Result(), err
		}
		if fn != nil && !fn(f) {
			break
		}
	}

	return ss.Result(), nil
}

// Start sets up every host and returns a session the caller advances
// frame by frame. The caller must Close it.
func (s *Simulation) Start() (*Session, error) {
	return s.start(logging.Discard())
}

func (s *Simulation) start(log *slog.Logger) (*Session, error) {
	if s.world == nil {
		return nil, fmt.Errorf("simulation has no world")
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	for i, h := range s.hosts {
		if err := h.Setup(s.world); err != nil {
			for j := i - 1; j >= 0; j-- {
				s.hosts[j].Teardown()
			}
			return nil, fmt.Errorf("setup host %d: %w", i, err)
		}
	}

	log.Debug("simulation started", "hosts", len(s.hosts), "bodies", len(s.world.Bodies()))
	return &Session{sim: s, log: log}, nil
}

// Session is a started simulation.
type Session struct {
	sim    *Simulation
	log    *slog.Logger
	steps  int
	t      float64
	closed bool
}

// Advance runs one frame of length dt.
func (ss *Session) Advance(dt float64) (Frame, error) {
	if ss.closed {
		return Frame{}, ErrClosed
	}
	if !(dt > 0) {
		return Frame{}, fmt.Errorf("dt must be positive, got %f", dt)
	}

	s := ss.sim
	for i, h := range s.hosts {
		if err := h.Step(dt); err != nil {
			return Frame{}, &StepError{Step: ss.steps, Time: ss.t, Source: fmt.Sprintf("host %d", i), Wrapped: err}
		}
	}
	if err := s.world.Step(dt); err != nil {
		return Frame{}, &StepError{Step: ss.steps, Time: ss.t, Source: "world", Wrapped: err}
	}

	f := Frame{Step: ss.steps, Time: ss.t + dt}
	ss.steps++
	ss.t = f.Time

	bodies := s.world.Bodies()
	for _, m := range s.metrics {
		m.Observe(bodies, ss.t)
	}
	ss.log.Log(context.Background(), logging.LevelTrace, "frame", "step", f.Step, "t", f.Time)
	return f, nil
}

func (ss *Session) Time() float64 { return ss.t }
func (ss *Session) Steps() int    { return ss.steps }

// Result reports the frames completed so far and the current metric values.
func (ss *Session) Result() *Result {
	r := &Result{
		Steps:   ss.steps,
		Time:    ss.t,
		Metrics: make(map[string]float64, len(ss.sim.metrics)),
	}
	for _, m := range ss.sim.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	return r
}

// Close tears the hosts down in reverse order. Further calls do nothing.
func (ss *Session) Close() {
	if ss.closed {
		return
	}
	ss.closed = true
	hosts := ss.sim.hosts
	for i := len(hosts) - 1; i >= 0; i-- {
		hosts[i].Teardown()
	}
	ss.log.Debug("simulation finished", "steps", ss.steps, "t", ss.t)
}
