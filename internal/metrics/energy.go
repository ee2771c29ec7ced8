package metrics

import (
	"math"

	"github.com/san-kum/botlink/internal/world"
)

// bodyEnergy is the kinetic plus potential energy of one solid disc.
func bodyEnergy(b world.BodyState, params world.Params, gravity world.Vec) float64 {
	mass, radius := params.RobotMass, params.RobotRadius
	if b.Kind == world.Ball {
		mass, radius = params.BallMass, params.BallRadius
	}
	inertia := 0.5 * mass * radius * radius

	ke := 0.5*mass*(b.VX*b.VX+b.VY*b.VY) + 0.5*inertia*b.Omega*b.Omega
	pe := -mass * (gravity.X*b.X + gravity.Y*b.Y)
	return ke + pe
}

func totalEnergy(s world.Snapshot, params world.Params, gravity world.Vec) float64 {
	sum := 0.0
	for _, b := range s.Bodies {
		sum += bodyEnergy(b, params, gravity)
	}
	return sum
}

// Energy is the mean total mechanical energy over the run.
type Energy struct {
	params  world.Params
	gravity world.Vec
	samples int
	total   float64
}

func NewEnergy(params world.Params, gravity world.Vec) *Energy {
	return &Energy{params: params, gravity: gravity}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) OnStep(s world.Snapshot) {
	e.total += totalEnergy(s, e.params, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of total energy from the first
// observed snapshot.
type EnergyDrift struct {
	params   world.Params
	gravity  world.Vec
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(params world.Params, gravity world.Vec) *EnergyDrift {
	return &EnergyDrift{params: params, gravity: gravity}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) OnStep(s world.Snapshot) {
	energy := totalEnergy(s, e.params, e.gravity)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
