package metrics

import (
	"github.com/san-kum/botlink/internal/world"
)

// Metric folds the snapshots of a run into one number.
type Metric interface {
	Name() string
	OnStep(s world.Snapshot)
	Value() float64
	Reset()
}

// Set feeds every metric it holds; add it to a stepper as an observer.
type Set []Metric

func (s Set) OnStep(snap world.Snapshot) {
	for _, m := range s {
		m.OnStep(snap)
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Default returns the metrics reported for a field run.
func Default(params world.Params, gravity world.Vec) Set {
	return Set{
		NewEnergy(params, gravity),
		NewEnergyDrift(params, gravity),
		NewTravel(),
		NewPeakSpeed(),
	}
}
