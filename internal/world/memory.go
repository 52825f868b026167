package world

import (
	"fmt"

	"github.com/san-kum/tgsim/internal/dynamo"
	"github.com/san-kum/tgsim/internal/geom"
)

// Ballistic is the free-flight system for a point mass:
// x = [px, py, pz, vx, vy, vz].
type Ballistic struct {
	Gravity geom.Vec3
}

func (b Ballistic) Dim() int { return 6 }

func (b Ballistic) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[3], x[4], x[5], b.Gravity.X, b.Gravity.Y, b.Gravity.Z}
}

type memBody struct {
	id      int
	spec    BodySpec
	state   dynamo.State
	elapsed float64
}

func (b *memBody) ID() int        { return b.id }
func (b *memBody) Spec() BodySpec { return b.spec }

func (b *memBody) Position() geom.Vec3 {
	return geom.V(b.state[0], b.state[1], b.state[2])
}

func (b *memBody) Velocity() geom.Vec3 {
	return geom.V(b.state[3], b.state[4], b.state[5])
}

func (b *memBody) SetVelocity(v geom.Vec3) {
	if b.spec.Static() {
		return
	}
	b.state[3], b.state[4], b.state[5] = v.X, v.Y, v.Z
}

func (b *memBody) Step(dt float64) { b.elapsed += dt }

// Elapsed is the time accumulated through the owner's Step calls.
func (b *memBody) Elapsed() float64 { return b.elapsed }

// Memory is a self-contained World. Static bodies never move; dynamic
// bodies are point masses in free flight, advanced by the integrator.
// Bodies do not collide.
type Memory struct {
	bodies     []*memBody
	nextID     int
	integrator dynamo.Integrator
	system     Ballistic
	t          float64
}

func NewMemory(integ dynamo.Integrator, gravity geom.Vec3) *Memory {
	return &Memory{
		bodies:     make([]*memBody, 0),
		nextID:     1,
		integrator: integ,
		system:     Ballistic{Gravity: gravity},
	}
}

func (m *Memory) Insert(spec BodySpec) (Body, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	c := spec.Center()
	b := &memBody{
		id:    m.nextID,
		spec:  spec,
		state: dynamo.State{c.X, c.Y, c.Z, 0, 0, 0},
	}
	m.nextID++
	m.bodies = append(m.bodies, b)
	return b, nil
}

func (m *Memory) Remove(b Body) error {
	if b == nil {
		return fmt.Errorf("%w: nil body", ErrUnknownBody)
	}
	for i, mb := range m.bodies {
		if Body(mb) == b {
			m.bodies = append(m.bodies[:i], m.bodies[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownBody, b.ID())
}

func (m *Memory) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", dt)
	}
	// Every body is checked before any is committed.
	next := make([]dynamo.State, len(m.bodies))
	for i, b := range m.bodies {
		if b.spec.Static() || m.integrator == nil {
			continue
		}
		next[i] = m.integrator.Step(m.system, b.state, m.t, dt)
		if err := dynamo.Check(m.system, next[i]); err != nil {
			return fmt.Errorf("body %d at t=%.4f: %w", b.id, m.t, err)
		}
	}
	for i, b := range m.bodies {
		if next[i] != nil {
			b.state = next[i]
		}
	}
	m.t += dt
	return nil
}

func (m *Memory) Bodies() []Body {
	out := make([]Body, len(m.bodies))
	for i, b := range m.bodies {
		out[i] = b
	}
	return out
}

// Time is the simulated time advanced by Step.
func (m *Memory) Time() float64 { return m.t }
