package integrators

import "github.com/san-kum/botlink/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	return x.Add(dyn.Derive(x, u, t).Scale(dt))
}

// ByName returns the integrator registered under name.
func ByName(name string) (dynamo.Integrator, bool) {
	switch name {
	case "euler":
		return NewEuler(), true
	case "rk4", "":
		return NewRK4(), true
	}
	return nil, false
}
