// Package viz provides the terminal front ends built on Bubble Tea.
//
//   - [TeleopModel]: keyboard teleoperation; each key press becomes one
//     command sent to the actuation worker.
//   - [FieldModel]: top view of the simulated field, fed with snapshots
//     from the stepper through [SnapshotMsg].
//   - [Canvas]: Braille-based pixel canvas used for the field.
//
// # Teleop keys
//
//	w/s   - forward/back
//	a/d   - strafe left/right
//	z/c   - turn left/right
//	Space - halt (zero velocity frame)
//	x     - release (Stop, no more frames)
//	+/-   - speed up/down
//	q/Esc - quit
package viz
