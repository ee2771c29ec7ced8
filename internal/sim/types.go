package sim

import (
	"github.com/san-kum/botlink/internal/world"
)

// Observer receives every snapshot the stepper produces, on the stepper
// goroutine. Implementations must not block.
type Observer interface {
	OnStep(s world.Snapshot)
}

type ObserverFunc func(s world.Snapshot)

func (f ObserverFunc) OnStep(s world.Snapshot) { f(s) }

type Config struct {
	// Dt is the fixed physics step in seconds.
	Dt float64
	// Steps bounds the run; 0 runs until the context is done.
	Steps int
	// Rate is the update-event frequency in Hz; 0 steps as fast as possible.
	Rate float64
	// RecordEvery keeps every n-th snapshot in the Result; 0 keeps only the
	// first and last.
	RecordEvery int
	Gravity     world.Vec
}

func DefaultConfig() Config {
	return Config{
		Dt:          1.0 / 60,
		Steps:       600,
		RecordEvery: 1,
	}
}

type Result struct {
	Snapshots  []world.Snapshot
	StepsTaken int
	Final      world.Snapshot
}
