// Package crater builds a ring of four box obstacles around a pit.
//
// All four boxes are the same diagonal slab. Before each one is added the
// structure turns a further quarter turn about the vertical axis, so the
// slabs end up at 90, 180, 270 and 360 degrees. The finished ring is moved to
// Origin and lowered by Drop so it sits partly below the ground plane.
package crater

import (
	"math"

	"github.com/san-kum/tgsim/internal/buildspec"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/model"
	"github.com/san-kum/tgsim/internal/resolve"
	"github.com/san-kum/tgsim/internal/structure"
)

const (
	// Tag labels every crater box.
	Tag = "box"

	// Boxes is the number of slabs in the ring.
	Boxes = 4
)

type Config struct {
	Width        float64    `yaml:"width" json:"width"`
	Height       float64    `yaml:"height" json:"height"`
	Density      float64    `yaml:"density" json:"density"`
	Friction     float64    `yaml:"friction" json:"friction"`
	RollFriction float64    `yaml:"roll_friction" json:"roll_friction"`
	Restitution  float64    `yaml:"restitution" json:"restitution"`
	Shift        float64    `yaml:"shift" json:"shift"`
	VShift       float64    `yaml:"vshift" json:"vshift"`
	Drop         float64    `yaml:"drop" json:"drop"`
	Origin       [3]float64 `yaml:"origin" json:"origin"`
}

func DefaultConfig() Config {
	return Config{
		Width:        10,
		Height:       10,
		Density:      0,
		Friction:     1.0,
		RollFriction: 0.01,
		Restitution:  0.2,
		Shift:        20,
		VShift:       2,
		Drop:         5,
	}
}

func (c Config) Box() buildspec.BoxConfig {
	return buildspec.BoxConfig{
		Width:        c.Width,
		Height:       c.Height,
		Density:      c.Density,
		Friction:     c.Friction,
		RollFriction: c.RollFriction,
		Restitution:  c.Restitution,
	}
}

func (c Config) Validate() error {
	return c.Box().Validate()
}

func (c Config) OriginVec() geom.Vec3 {
	return geom.V(c.Origin[0], c.Origin[1], c.Origin[2])
}

// Crater is a static terrain model. The embedded Model carries the lifecycle;
// Crater only supplies the blueprint.
type Crater struct {
	*model.Model
	cfg Config
}

func New(cfg Config) *Crater {
	c := &Crater{cfg: cfg}
	c.Model = model.New("crater", c)
	return c
}

func (c *Crater) Config() Config { return c.cfg }

// Blueprint lays out the four slabs and registers the box builder for them.
func (c *Crater) Blueprint() (*resolve.StructureInfo, error) {
	box, err := buildspec.NewBoxInfo(c.cfg.Box())
	if err != nil {
		return nil, err
	}
	spec := buildspec.New()
	if err := spec.AddBuilder(Tag, box); err != nil {
		return nil, err
	}

	s, err := c.structure()
	if err != nil {
		return nil, err
	}
	return resolve.New(s, spec), nil
}

func (c *Crater) structure() (*structure.Structure, error) {
	nodeH := c.cfg.Height/2 + c.cfg.VShift
	nodeW := c.cfg.Width / 2
	reach := c.cfg.Shift + nodeW
	origin := c.OriginVec()

	s := structure.New()
	for i := 0; i < Boxes; i++ {
		from := s.AddNode(-reach, -nodeH, -reach)
		to := s.AddNode(reach, nodeH, reach)
		if err := s.AddRotation(geom.Vec3{}, geom.UnitY, math.Pi/2); err != nil {
			return nil, err
		}
		if err := s.AddPair(from, to, Tag); err != nil {
			return nil, err
		}
	}

	// Laid out around zero, then shifted as a whole.
	s.Move(origin.Add(geom.V(0, -c.cfg.Drop, 0)))
	return s, nil
}
