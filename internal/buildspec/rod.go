package buildspec

import (
	"fmt"

	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/world"
)

type RodConfig struct {
	Radius       float64
	Density      float64
	Friction     float64
	RollFriction float64
	Restitution  float64
}

func (c RodConfig) Material() world.Material {
	return world.Material{
		Density:      c.Density,
		Friction:     c.Friction,
		RollFriction: c.RollFriction,
		Restitution:  c.Restitution,
	}
}

func (c RodConfig) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("%w: rod radius %g", ErrInvalidConfig, c.Radius)
	}
	if err := c.Material().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// RodInfo builds cylinders of Radius between the two nodes of a pair.
type RodInfo struct {
	Config RodConfig
}

func NewRodInfo(cfg RodConfig) (*RodInfo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RodInfo{Config: cfg}, nil
}

func (r *RodInfo) Build(from, to geom.Vec3) (world.BodySpec, error) {
	if from == to {
		return world.BodySpec{}, fmt.Errorf("%w: rod endpoints coincide at %v", ErrInvalidConfig, from)
	}
	return world.BodySpec{
		Shape:    world.ShapeRod,
		From:     from,
		To:       to,
		Radius:   r.Config.Radius,
		Material: r.Config.Material(),
	}, nil
}
