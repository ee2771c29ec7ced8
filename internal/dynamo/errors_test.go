package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestTickError(t *testing.T) {
	err := &TickError{Tick: 7, Wrapped: ErrDeviceWriteFailed}
	expected := "tick 7: dynamo: device write failed"
	if err.Error() != expected {
		t.Errorf("TickError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrDeviceWriteFailed) {
		t.Error("expected TickError to unwrap to ErrDeviceWriteFailed")
	}
}

func TestStepError(t *testing.T) {
	err := &StepError{Step: 150, Time: 1.5, Wrapped: ErrInvalidHandle}
	expected := "step 150 (t=1.5000): dynamo: invalid body handle"
	if err.Error() != expected {
		t.Errorf("StepError.Error() = %q, want %q", err.Error(), expected)
	}

	var se *StepError
	if !errors.As(err, &se) || se.Step != 150 {
		t.Error("expected errors.As to find StepError")
	}
}

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

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}
}
