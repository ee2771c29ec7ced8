package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/botlink/internal/world"
)

func TestEnergyAtRest(t *testing.T) {
	params := world.DefaultParams()
	g := world.Vec{Y: -9.81}
	w := world.Build(world.Scene{Params: params, Robots: 2})

	m := NewEnergy(params, g)
	m.OnStep(w.Snapshot())

	expected := 0.0
	for _, b := range w.Snapshot().Bodies {
		mass := params.RobotMass
		if b.Kind == world.Ball {
			mass = params.BallMass
		}
		expected += mass * 9.81 * b.Y
	}
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected potential energy %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDriftFreeFall(t *testing.T) {
	params := world.DefaultParams()
	g := world.Vec{Y: -9.81}
	w := world.New(params)
	w.CreateBody(world.Ball, 0, 10)

	drift := NewEnergyDrift(params, g)
	drift.OnStep(w.Snapshot())
	for i := 0; i < 60; i++ {
		w.Step(g, world.StepParams{Dt: 1.0 / 240})
		drift.OnStep(w.Snapshot())
	}

	if drift.Value() <= 0 || drift.Value() > 0.05 {
		t.Errorf("expected small non-zero drift, got %f", drift.Value())
	}
}

func TestTravelAndPeakSpeed(t *testing.T) {
	w := world.Build(world.Scene{Params: world.DefaultParams(), Robots: 1})
	robot := w.Robots()[0]
	if err := w.SetDrive(robot, 0.6, 0.8, 0); err != nil {
		t.Fatal(err)
	}

	set := Set{NewTravel(), NewPeakSpeed()}
	set.OnStep(w.Snapshot())
	for i := 0; i < 10; i++ {
		w.Step(world.Vec{}, world.StepParams{Dt: 0.1})
		set.OnStep(w.Snapshot())
	}

	values := set.Values()
	if math.Abs(values["robot_travel"]-1.0) > 1e-9 {
		t.Errorf("expected 1m of travel, got %f", values["robot_travel"])
	}
	if math.Abs(values["peak_speed"]-1.0) > 1e-9 {
		t.Errorf("expected peak speed 1, got %f", values["peak_speed"])
	}

	set.Reset()
	for name, v := range set.Values() {
		if v != 0 {
			t.Errorf("%s: expected 0 after reset, got %f", name, v)
		}
	}
}

func TestDefaultSet(t *testing.T) {
	set := Default(world.DefaultParams(), world.Vec{Y: -9.81})
	names := map[string]bool{}
	for _, m := range set {
		names[m.Name()] = true
	}
	for _, want := range []string{"energy", "energy_drift", "robot_travel", "peak_speed"} {
		if !names[want] {
			t.Errorf("missing metric %s", want)
		}
	}
}
