package dynamo

import (
	"math"
)

type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Axpy returns s + a*d.
func (s State) Axpy(a float64, d State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(d) {
			result[i] = s[i] + a*d[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

type System interface {
	Derive(x State, t float64) State
	Dim() int
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}
