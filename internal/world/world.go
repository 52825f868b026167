// Package world defines the contract between resolved structures and the
// physics engine that hosts them, together with an in-memory reference
// implementation.
//
// Constraint solving, collision detection and rendering belong to the
// engine behind [World]. The structure side only ever asks for bodies to
// be inserted, removed and advanced.
package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/tgsim/internal/geom"
)

var (
	// ErrUnknownBody indicates a body that this world did not create or already removed.
	ErrUnknownBody = errors.New("world: unknown body")

	// ErrInvalidSpec indicates a body spec with non-positive dimensions or negative material values.
	ErrInvalidSpec = errors.New("world: invalid body spec")
)

type Shape int

const (
	ShapeBox Shape = iota
	ShapeRod
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeRod:
		return "rod"
	case ShapeSphere:
		return "sphere"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

func ParseShape(name string) (Shape, error) {
	switch name {
	case "box":
		return ShapeBox, nil
	case "rod":
		return ShapeRod, nil
	case "sphere":
		return ShapeSphere, nil
	}
	return 0, fmt.Errorf("%w: unknown shape %q", ErrInvalidSpec, name)
}

// Material carries the geometry-independent physical parameters of a body.
// A zero density makes the body static.
type Material struct {
	Density      float64 `json:"density" yaml:"density"`
	Friction     float64 `json:"friction" yaml:"friction"`
	RollFriction float64 `json:"roll_friction" yaml:"roll_friction"`
	Restitution  float64 `json:"restitution" yaml:"restitution"`
}

func (m Material) Validate() error {
	if m.Density < 0 || m.Friction < 0 || m.RollFriction < 0 || m.Restitution < 0 {
		return fmt.Errorf("%w: negative material parameter %+v", ErrInvalidSpec, m)
	}
	return nil
}

// BodySpec describes one body to construct. Boxes and rods span From→To;
// Width and Height are the box cross-section, Radius the rod or sphere
// radius. A sphere is centred on From.
type BodySpec struct {
	Shape    Shape
	Tag      string
	From     geom.Vec3
	To       geom.Vec3
	Width    float64
	Height   float64
	Radius   float64
	Material Material
}

func (s BodySpec) Center() geom.Vec3 {
	if s.Shape == ShapeSphere {
		return s.From
	}
	return s.From.Midpoint(s.To)
}

func (s BodySpec) Length() float64 {
	if s.Shape == ShapeSphere {
		return 2 * s.Radius
	}
	return s.To.Sub(s.From).Len()
}

// Axis is the unit direction From→To, zero for spheres and degenerate spans.
func (s BodySpec) Axis() geom.Vec3 {
	if s.Shape == ShapeSphere {
		return geom.Vec3{}
	}
	return s.To.Sub(s.From).Normalize()
}

func (s BodySpec) Volume() float64 {
	switch s.Shape {
	case ShapeBox:
		return s.Length() * s.Width * s.Height
	case ShapeRod:
		return math.Pi * s.Radius * s.Radius * s.Length()
	case ShapeSphere:
		return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
	}
	return 0
}

func (s BodySpec) Mass() float64 { return s.Material.Density * s.Volume() }

func (s BodySpec) Static() bool { return s.Material.Density == 0 }

func (s BodySpec) Validate() error {
	if !s.From.IsValid() || !s.To.IsValid() {
		return fmt.Errorf("%w: non-finite endpoint", ErrInvalidSpec)
	}
	switch s.Shape {
	case ShapeBox:
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%w: box needs positive width and height, got %g x %g", ErrInvalidSpec, s.Width, s.Height)
		}
	case ShapeRod, ShapeSphere:
		if s.Radius <= 0 {
			return fmt.Errorf("%w: %s needs positive radius, got %g", ErrInvalidSpec, s.Shape, s.Radius)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSpec, s.Shape)
	}
	return s.Material.Validate()
}

type Body interface {
	ID() int
	Spec() BodySpec
	Position() geom.Vec3
	Velocity() geom.Vec3
	// Step is the per-frame hook driven by the model that owns the body.
	// Integration of rigid-body motion happens in World.Step.
	Step(dt float64)
}

// Kinetic is implemented by bodies whose velocity can be set directly.
type Kinetic interface {
	SetVelocity(v geom.Vec3)
}

type World interface {
	Insert(spec BodySpec) (Body, error)
	Remove(b Body) error
	Step(dt float64) error
	Bodies() []Body
}
