package sim

import (
	"fmt"

	"github.com/san-kum/tgsim/internal/world"
)

// Host is anything the driver sets up, steps each frame and tears down.
// *model.Model satisfies it.
type Host interface {
	Setup(w world.World) error
	Step(dt float64) error
	Teardown()
}

// Metric observes the world once per frame, after it has advanced.
type Metric interface {
	Name() string
	Observe(bodies []world.Body, t float64)
	Value() float64
	Reset()
}

type Config struct {
	Dt       float64 `yaml:"dt" json:"dt"`
	Duration float64 `yaml:"duration" json:"duration"`
}

// Steps is the number of whole frames that fit in Duration.
func (c Config) Steps() int {
	return int(c.Duration/c.Dt + 1e-9)
}

func (c Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	return nil
}

// Frame describes a completed frame.
type Frame struct {
	Step int
	Time float64
}

type Result struct {
	Steps   int
	Time    float64
	Metrics map[string]float64
}

// StepError locates a failure inside the frame loop.
type StepError struct {
	Step    int
	Time    float64
	Source  string
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) %s: %v", e.Step, e.Time, e.Source, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
