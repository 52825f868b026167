package dynamo

import "errors"

var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates a state whose length does not match its system.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// Check validates x against sys before it is handed to an integrator.
func Check(sys System, x State) error {
	if len(x) != sys.Dim() {
		return ErrDimensionMismatch
	}
	if !x.IsValid() {
		return ErrInvalidState
	}
	return nil
}
