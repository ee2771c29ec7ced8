// Package actuator runs the fixed-cadence actuation loop.
//
// A [Worker] owns one [device.Link] for its lifetime. Every tick it drains
// its command source, keeps the newest command (sample-and-hold) and writes
// a frame when that command is a MoveLocal. Stop and "no command yet" write
// nothing. Write failures end the loop; there is no retry.
//
//	client, err := actuator.StartClient(ctx, device.OpenerFor(port), cfg, logger)
//	if err != nil {
//	    return err // dynamo.ErrDeviceOpenFailed
//	}
//	defer client.Close()
//	client.Send(command.MoveLocal(0.5, 0, 0))
package actuator
