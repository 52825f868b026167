package buildspec

import (
	"fmt"

	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/world"
)

type SphereConfig struct {
	Radius       float64
	Density      float64
	Friction     float64
	RollFriction float64
	Restitution  float64
}

func (c SphereConfig) Material() world.Material {
	return world.Material{
		Density:      c.Density,
		Friction:     c.Friction,
		RollFriction: c.RollFriction,
		Restitution:  c.Restitution,
	}
}

func (c SphereConfig) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("%w: sphere radius %g", ErrInvalidConfig, c.Radius)
	}
	if err := c.Material().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SphereInfo builds a sphere centred between the two nodes of a pair. The
// nodes may coincide.
type SphereInfo struct {
	Config SphereConfig
}

func NewSphereInfo(cfg SphereConfig) (*SphereInfo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SphereInfo{Config: cfg}, nil
}

func (s *SphereInfo) Build(from, to geom.Vec3) (world.BodySpec, error) {
	c := from.Midpoint(to)
	return world.BodySpec{
		Shape:    world.ShapeSphere,
		From:     c,
		To:       c,
		Radius:   s.Config.Radius,
		Material: s.Config.Material(),
	}, nil
}
