// Package dynamo provides the shared primitives of botlink.
//
// It defines the numeric types used by the simulated device model and the
// error taxonomy shared by the actuation and simulation paths:
//
//   - [State], [Control]: plain float vectors
//   - [System]: continuous-time model (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper for a [System]
//   - [ErrDeviceOpenFailed], [ErrDeviceWriteFailed], [ErrChannelClosed],
//     [ErrInvalidHandle]: failures surfaced by the core
//
// Errors are wrapped with %w by callers; test them with errors.Is.
//
// # Example
//
//	if err := worker.Run(ctx); errors.Is(err, dynamo.ErrDeviceWriteFailed) {
//	    // the device is in an unknown state; do not resend
//	}
package dynamo
