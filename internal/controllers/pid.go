package controllers

import (
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/model"
	"github.com/san-kum/tgsim/internal/world"
)

// PID holds the position of the model's kinetic bodies along Axis at Target
// by adjusting their velocity every step. Bodies that cannot be driven are
// left alone.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Axis   geom.Vec3
	Target float64

	integral float64
	prevErr  float64
	first    bool
}

func NewPID(kp, ki, kd float64, axis geom.Vec3, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Axis:   axis.Normalize(),
		Target: target,
		first:  true,
	}
}

// Compute returns the control for the error measured dt after the previous one.
func (p *PID) Compute(err, dt float64) float64 {
	if p.first || dt <= 0 {
		p.prevErr = err
		p.first = false
		return p.Kp * err
	}

	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err

	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

func (p *PID) OnSetup(m *model.Model) {
	p.integral = 0
	p.first = true
}

func (p *PID) OnStep(m *model.Model, dt float64) {
	bodies := m.Bodies()
	if len(bodies) == 0 {
		return
	}

	var sum float64
	for _, b := range bodies {
		sum += b.Position().Dot(p.Axis)
	}
	u := p.Compute(p.Target-sum/float64(len(bodies)), dt)

	for _, b := range bodies {
		k, ok := b.(world.Kinetic)
		if !ok || b.Spec().Static() {
			continue
		}
		k.SetVelocity(b.Velocity().Add(p.Axis.Scale(u * dt)))
	}
}

func (p *PID) OnTeardown(m *model.Model) {}

// Kick sets the velocity of every kinetic body once, when the model is set up.
type Kick struct {
	Velocity geom.Vec3
}

func (k *Kick) OnSetup(m *model.Model) {
	for _, b := range m.Bodies() {
		if kb, ok := b.(world.Kinetic); ok {
			kb.SetVelocity(k.Velocity)
		}
	}
}

func (k *Kick) OnStep(m *model.Model, dt float64) {}
func (k *Kick) OnTeardown(m *model.Model)         {}
