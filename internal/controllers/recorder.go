package controllers

import (
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/model"
	"github.com/san-kum/tgsim/internal/world"
)

// Sample is the state of the tracked body at the start of a frame, before
// anything has advanced.
type Sample struct {
	Step     int
	Time     float64
	Position geom.Vec3
	Velocity geom.Vec3
}

// Recorder counts lifecycle notifications and samples one body every step.
// Without an explicit Track it follows the first body of the model it is
// attached to.
type Recorder struct {
	Setups    int
	Steps     int
	Teardowns int
	Dts       []float64

	body    world.Body
	samples []Sample
	t       float64
}

func NewRecorder() *Recorder {
	return &Recorder{
		Dts:     make([]float64, 0),
		samples: make([]Sample, 0),
	}
}

func (r *Recorder) Track(b world.Body) { r.body = b }

func (r *Recorder) Tracked() world.Body { return r.body }

func (r *Recorder) OnSetup(m *model.Model) {
	r.Setups++
	if r.body == nil {
		if bodies := m.Bodies(); len(bodies) > 0 {
			r.body = bodies[0]
		}
	}
}

func (r *Recorder) OnStep(m *model.Model, dt float64) {
	r.sample()
	r.Steps++
	r.Dts = append(r.Dts, dt)
	r.t += dt
}

func (r *Recorder) OnTeardown(m *model.Model) {
	r.Teardowns++
	r.body = nil
}

func (r *Recorder) sample() {
	if r.body == nil {
		return
	}
	r.samples = append(r.samples, Sample{
		Step:     r.Steps,
		Time:     r.t,
		Position: r.body.Position(),
		Velocity: r.body.Velocity(),
	})
}

func (r *Recorder) Samples() []Sample {
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// Elapsed is the sum of every dt seen.
func (r *Recorder) Elapsed() float64 { return r.t }
