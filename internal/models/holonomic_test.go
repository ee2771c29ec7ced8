package models

import (
	"math"
	"testing"

	"github.com/san-kum/botlink/internal/dynamo"
)

func TestHolonomicDims(t *testing.T) {
	h := NewHolonomic()
	if h.StateDim() != 3 {
		t.Errorf("expected 3 states, got %d", h.StateDim())
	}
	if h.ControlDim() != 3 {
		t.Errorf("expected 3 controls, got %d", h.ControlDim())
	}
}

func TestHolonomicRotatesIntoWorldFrame(t *testing.T) {
	h := NewHolonomic()

	tests := []struct {
		name   string
		theta  float64
		u      dynamo.Control
		wantVx float64
		wantVy float64
	}{
		{"forward at zero heading", 0, dynamo.Control{1, 0, 0}, 1, 0},
		{"forward at quarter turn", math.Pi / 2, dynamo.Control{1, 0, 0}, 0, 1},
		{"strafe at zero heading", 0, dynamo.Control{0, 1, 0}, 0, 1},
		{"no control", 1.0, nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx := h.Derive(dynamo.State{0, 0, tt.theta}, tt.u, 0)
			if math.Abs(dx[0]-tt.wantVx) > 1e-9 || math.Abs(dx[1]-tt.wantVy) > 1e-9 {
				t.Errorf("expected (%.3f, %.3f), got (%.3f, %.3f)", tt.wantVx, tt.wantVy, dx[0], dx[1])
			}
		})
	}
}

func TestHolonomicClamps(t *testing.T) {
	h := &Holonomic{MaxSpeed: 1, MaxTurnRate: 2}
	dx := h.Derive(dynamo.State{0, 0, 0}, dynamo.Control{3, 4, -10}, 0)

	if speed := math.Hypot(dx[0], dx[1]); math.Abs(speed-1) > 1e-9 {
		t.Errorf("expected clamped speed 1, got %f", speed)
	}
	if dx[2] != -2 {
		t.Errorf("expected clamped turn rate -2, got %f", dx[2])
	}
}
