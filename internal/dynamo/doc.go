// Package dynamo provides the numeric core used to advance free bodies:
// flat state vectors, the ODE system interface and the stepper interface
// implemented by package integrators.
//
//   - [State]: position/velocity vector, positions first
//   - [System]: dX/dt = f(X, t)
//   - [Integrator]: one fixed step of a numerical scheme
//
// # Layout
//
// Integrators that split position and velocity (Verlet, Leapfrog) expect
// the first half of a State to hold positions and the second half the
// matching velocities.
package dynamo
