package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for actuation and simulation.
var (
	// ErrDeviceOpenFailed indicates the device link could not be opened.
	// The actuation worker never starts its loop after this error.
	ErrDeviceOpenFailed = errors.New("dynamo: device open failed")

	// ErrDeviceWriteFailed indicates a frame could not be written to the device link.
	// Writes are never retried.
	ErrDeviceWriteFailed = errors.New("dynamo: device write failed")

	// ErrChannelClosed indicates the consumer side of a command channel is gone.
	ErrChannelClosed = errors.New("dynamo: command channel closed")

	// ErrInvalidHandle indicates a body handle unknown to the world.
	ErrInvalidHandle = errors.New("dynamo: invalid body handle")

	// ErrInvalidFrame indicates bytes that do not form a device frame.
	ErrInvalidFrame = errors.New("dynamo: invalid device frame")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")
)

// TickError wraps an error with the actuation tick it happened on.
type TickError struct {
	Tick    uint64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}

// StepError wraps an error with simulation context.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
