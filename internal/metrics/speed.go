package metrics

import (
	"math"

	"github.com/san-kum/tgsim/internal/world"
)

// PeakSpeed is the highest speed any body reached.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{
		name: "peak_speed",
	}
}

func (p *PeakSpeed) Name() string {
	return p.name
}

func (p *PeakSpeed) Observe(bodies []world.Body, t float64) {
	for _, b := range bodies {
		p.peak = math.Max(p.peak, b.Velocity().Len())
	}
}

func (p *PeakSpeed) Value() float64 {
	return p.peak
}

func (p *PeakSpeed) Reset() {
	p.peak = 0
}
