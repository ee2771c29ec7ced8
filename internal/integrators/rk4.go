package integrators

import "github.com/san-kum/botlink/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta step. The control is held for
// the whole step, the way the device holds its last frame between ticks.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	half := dt / 2

	k1 := dyn.Derive(x, u, t)
	k2 := dyn.Derive(x.Add(k1.Scale(half)), u, t+half)
	k3 := dyn.Derive(x.Add(k2.Scale(half)), u, t+half)
	k4 := dyn.Derive(x.Add(k3.Scale(dt)), u, t+dt)

	slope := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return x.Add(slope.Scale(dt / 6))
}
