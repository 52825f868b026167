package dynamo

import (
	"errors"
	"math"
	"testing"
)

type constant struct{ n int }

func (c constant) Derive(x State, t float64) State { return make(State, c.n) }
func (c constant) Dim() int                        { return c.n }

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Axpy(t *testing.T) {
	got := State{1, 2, 3}.Axpy(2, State{1, 1, 1})
	if got[0] != 3 || got[1] != 4 || got[2] != 5 {
		t.Errorf("Axpy failed: got %v", got)
	}
}

func TestCheck(t *testing.T) {
	sys := constant{n: 2}

	if err := Check(sys, State{0, 0}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Check(sys, State{0}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if err := Check(sys, State{0, math.NaN()}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}
