package models

import (
	"math"

	"github.com/san-kum/botlink/internal/dynamo"
)

// Holonomic is an omnidirectional robot base driven by robot-frame velocity
// targets. State is (x, y, theta); control is (vx, vy, omega) in the robot frame.
type Holonomic struct {
	// MaxSpeed clamps the planar speed command; zero disables the clamp.
	MaxSpeed float64
	// MaxTurnRate clamps |omega|; zero disables the clamp.
	MaxTurnRate float64
}

func NewHolonomic() *Holonomic {
	return &Holonomic{}
}

func (h *Holonomic) StateDim() int   { return 3 }
func (h *Holonomic) ControlDim() int { return 3 }

func (h *Holonomic) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta := x[2]

	var vx, vy, omega float64
	if len(u) >= 3 {
		vx, vy, omega = u[0], u[1], u[2]
	}

	if h.MaxSpeed > 0 {
		if speed := math.Hypot(vx, vy); speed > h.MaxSpeed {
			k := h.MaxSpeed / speed
			vx, vy = vx*k, vy*k
		}
	}
	if h.MaxTurnRate > 0 {
		omega = math.Max(-h.MaxTurnRate, math.Min(h.MaxTurnRate, omega))
	}

	sin, cos := math.Sincos(theta)
	return dynamo.State{
		vx*cos - vy*sin,
		vx*sin + vy*cos,
		omega,
	}
}
