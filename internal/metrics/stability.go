package metrics

import (
	"math"

	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/world"
)

// Containment is the fraction of frames in which every dynamic body stays
// within radius of center in the ground plane.
type Containment struct {
	name       string
	center     geom.Vec3
	radius     float64
	violations int
	samples    int
}

func NewContainment(center geom.Vec3, radius float64) *Containment {
	return &Containment{
		name:   "containment",
		center: center,
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(bodies []world.Body, t float64) {
	c.samples++
	for _, b := range bodies {
		if b.Spec().Static() {
			continue
		}
		d := b.Position().Sub(c.center)
		if math.Hypot(d.X, d.Z) > c.radius {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
