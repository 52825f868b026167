package integrators

import "github.com/san-kum/tgsim/internal/dynamo"

// Euler is the explicit first-order scheme.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return x.Axpy(dt, sys.Derive(x, t))
}
