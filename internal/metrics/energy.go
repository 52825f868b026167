package metrics

import (
	"math"

	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/world"
)

// MechanicalEnergy is the kinetic plus potential energy of the dynamic
// bodies, measured against the gravity vector g. Static bodies hold none.
func MechanicalEnergy(bodies []world.Body, g geom.Vec3) float64 {
	var total float64
	for _, b := range bodies {
		spec := b.Spec()
		if spec.Static() {
			continue
		}
		m := spec.Mass()
		v := b.Velocity()
		total += 0.5*m*v.Dot(v) - m*g.Dot(b.Position())
	}
	return total
}

// Energy averages the mechanical energy over every observed frame.
type Energy struct {
	name        string
	gravity     geom.Vec3
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity geom.Vec3) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(bodies []world.Body, t float64) {
	e.totalEnergy += MechanicalEnergy(bodies, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative departure from the first observed
// energy. Free flight conserves energy, so this measures integrator error.
type EnergyDrift struct {
	name          string
	gravity       geom.Vec3
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity geom.Vec3) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []world.Body, t float64) {
	energy := MechanicalEnergy(bodies, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
