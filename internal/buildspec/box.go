package buildspec

import (
	"fmt"

	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/world"
)

// BoxConfig is the physical configuration shared by every box built under one tag.
type BoxConfig struct {
	Width        float64
	Height       float64
	Density      float64
	Friction     float64
	RollFriction float64
	Restitution  float64
}

func (c BoxConfig) Material() world.Material {
	return world.Material{
		Density:      c.Density,
		Friction:     c.Friction,
		RollFriction: c.RollFriction,
		Restitution:  c.Restitution,
	}
}

func (c BoxConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: box dimensions %g x %g", ErrInvalidConfig, c.Width, c.Height)
	}
	if err := c.Material().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// BoxInfo builds boxes with a Width x Height cross-section whose long axis
// runs between the two nodes of a pair.
type BoxInfo struct {
	Config BoxConfig
}

func NewBoxInfo(cfg BoxConfig) (*BoxInfo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BoxInfo{Config: cfg}, nil
}

func (b *BoxInfo) Build(from, to geom.Vec3) (world.BodySpec, error) {
	if from == to {
		return world.BodySpec{}, fmt.Errorf("%w: box endpoints coincide at %v", ErrInvalidConfig, from)
	}
	return world.BodySpec{
		Shape:    world.ShapeBox,
		From:     from,
		To:       to,
		Width:    b.Config.Width,
		Height:   b.Config.Height,
		Material: b.Config.Material(),
	}, nil
}
