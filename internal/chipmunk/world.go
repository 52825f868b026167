// Package chipmunk runs resolved structures on the Chipmunk2D port
// github.com/jakecoffman/cp.
//
// The 3D scene is projected onto the ground plane: world x maps to cp x and
// world z to cp y, so the crater is seen from above. Height is carried
// through unchanged from each body's spec. Boxes and rods become cp boxes
// whose long side follows the projected From→To span, spheres become
// circles, and zero density bodies are attached to static cp bodies.
// Rolling friction has no cp counterpart and is kept in the spec only.
package chipmunk

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/world"
)

type body struct {
	id      int
	spec    world.BodySpec
	cpBody  *cp.Body
	cpShape *cp.Shape
	elapsed float64
}

func (b *body) ID() int              { return b.id }
func (b *body) Spec() world.BodySpec { return b.spec }

func (b *body) Position() geom.Vec3 {
	p := b.cpBody.Position()
	return geom.V(p.X, b.spec.Center().Y, p.Y)
}

func (b *body) Velocity() geom.Vec3 {
	v := b.cpBody.Velocity()
	return geom.V(v.X, 0, v.Y)
}

func (b *body) SetVelocity(v geom.Vec3) {
	if b.spec.Static() {
		return
	}
	b.cpBody.SetVelocityVector(cp.Vector{X: v.X, Y: v.Z})
}

func (b *body) Step(dt float64) { b.elapsed += dt }

// Angle is the heading of the body in the ground plane, in radians.
func (b *body) Angle() float64 { return b.cpBody.Angle() }

type World struct {
	space  *cp.Space
	bodies []*body
	nextID int
}

// New creates a world whose ground-plane gravity is (gx, gz). Top-down
// scenes normally pass zero.
func New(gx, gz float64) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: gx, Y: gz})
	return &World{
		space:  space,
		bodies: make([]*body, 0),
		nextID: 1,
	}
}

// Footprint returns the ground-plane length, thickness and heading of a spec.
func Footprint(spec world.BodySpec) (length, thickness, angle float64) {
	switch spec.Shape {
	case world.ShapeSphere:
		return 2 * spec.Radius, 2 * spec.Radius, 0
	case world.ShapeRod:
		thickness = 2 * spec.Radius
	default:
		thickness = spec.Width
	}
	d := spec.To.Sub(spec.From)
	length = math.Hypot(d.X, d.Z)
	if length == 0 {
		length = thickness
	}
	return length, thickness, math.Atan2(d.Z, d.X)
}

func (w *World) Insert(spec world.BodySpec) (world.Body, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	length, thickness, angle := Footprint(spec)

	var cb *cp.Body
	if spec.Static() {
		cb = cp.NewStaticBody()
	} else {
		mass := spec.Mass()
		var moment float64
		if spec.Shape == world.ShapeSphere {
			moment = cp.MomentForCircle(mass, 0, spec.Radius, cp.Vector{})
		} else {
			moment = cp.MomentForBox(mass, length, thickness)
		}
		cb = cp.NewBody(mass, moment)
	}

	c := spec.Center()
	cb.SetPosition(cp.Vector{X: c.X, Y: c.Z})
	cb.SetAngle(angle)
	w.space.AddBody(cb)

	var shape *cp.Shape
	if spec.Shape == world.ShapeSphere {
		shape = cp.NewCircle(cb, spec.Radius, cp.Vector{})
	} else {
		shape = cp.NewBox(cb, length, thickness, 0)
	}
	shape.SetFriction(spec.Material.Friction)
	shape.SetElasticity(spec.Material.Restitution)
	w.space.AddShape(shape)

	b := &body{id: w.nextID, spec: spec, cpBody: cb, cpShape: shape}
	w.nextID++
	w.bodies = append(w.bodies, b)
	return b, nil
}

func (w *World) Remove(wb world.Body) error {
	if wb == nil {
		return fmt.Errorf("%w: nil body", world.ErrUnknownBody)
	}
	for i, b := range w.bodies {
		if world.Body(b) != wb {
			continue
		}
		w.space.RemoveShape(b.cpShape)
		w.space.RemoveBody(b.cpBody)
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %d", world.ErrUnknownBody, wb.ID())
}

func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", dt)
	}
	w.space.Step(dt)
	return nil
}

func (w *World) Bodies() []world.Body {
	out := make([]world.Body, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b
	}
	return out
}
