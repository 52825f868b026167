package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/integrators"
	"github.com/san-kum/tgsim/internal/world"
)

var gravity = geom.V(0, -9.81, 0)

func sphere(at geom.Vec3, density float64) world.BodySpec {
	return world.BodySpec{
		Shape:    world.ShapeSphere,
		From:     at,
		To:       at,
		Radius:   1,
		Material: world.Material{Density: density},
	}
}

func insert(t *testing.T, w *world.Memory, spec world.BodySpec) world.Body {
	t.Helper()
	b, err := w.Insert(spec)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestMechanicalEnergy(t *testing.T) {
	w := world.NewMemory(nil, gravity)
	b := insert(t, w, sphere(geom.V(0, 2, 0), 1))
	insert(t, w, sphere(geom.V(0, 50, 0), 0))
	b.(world.Kinetic).SetVelocity(geom.V(3, 0, 4))

	m := b.Spec().Mass()
	expected := 0.5*m*25 + m*9.81*2

	if got := MechanicalEnergy(w.Bodies(), gravity); math.Abs(got-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, got)
	}
}

func TestEnergyReset(t *testing.T) {
	w := world.NewMemory(nil, gravity)
	insert(t, w, sphere(geom.V(0, 1, 0), 1))

	e := NewEnergy(gravity)
	e.Observe(w.Bodies(), 0)
	if e.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	e.Reset()
	if e.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", e.Value())
	}
}

func TestEnergyDrift_FreeFall(t *testing.T) {
	tests := []struct {
		name     string
		maxDrift float64
	}{
		{"rk4", 1e-9},
		{"verlet", 1e-9},
		{"euler", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ, err := integrators.ByName(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			w := world.NewMemory(integ, gravity)
			insert(t, w, sphere(geom.V(0, 100, 0), 1))

			drift := NewEnergyDrift(gravity)
			for i := 0; i < 100; i++ {
				drift.Observe(w.Bodies(), float64(i)*0.01)
				if err := w.Step(0.01); err != nil {
					t.Fatal(err)
				}
			}

			if drift.Value() > tt.maxDrift {
				t.Errorf("drift %g exceeds %g", drift.Value(), tt.maxDrift)
			}
		})
	}
}

func TestContainment(t *testing.T) {
	w := world.NewMemory(integrators.NewEuler(), geom.Vec3{})
	b := insert(t, w, sphere(geom.V(0, 0, 0), 1))
	insert(t, w, sphere(geom.V(500, 0, 0), 0))

	c := NewContainment(geom.Vec3{}, 10)
	if c.Value() != 1.0 {
		t.Errorf("empty containment = %v", c.Value())
	}

	c.Observe(w.Bodies(), 0)
	b.(world.Kinetic).SetVelocity(geom.V(100, 0, 0))
	if err := w.Step(1); err != nil {
		t.Fatal(err)
	}
	c.Observe(w.Bodies(), 1)

	if got := c.Value(); got != 0.5 {
		t.Errorf("containment = %v, want 0.5", got)
	}
}

func TestPeakSpeed(t *testing.T) {
	w := world.NewMemory(nil, gravity)
	b := insert(t, w, sphere(geom.Vec3{}, 1))

	p := NewPeakSpeed()
	b.(world.Kinetic).SetVelocity(geom.V(3, 4, 0))
	p.Observe(w.Bodies(), 0)
	b.(world.Kinetic).SetVelocity(geom.V(1, 0, 0))
	p.Observe(w.Bodies(), 1)

	if p.Value() != 5 {
		t.Errorf("peak = %v, want 5", p.Value())
	}
	p.Reset()
	if p.Value() != 0 {
		t.Error("reset did not clear peak")
	}
}
