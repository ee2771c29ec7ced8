package command

import "fmt"

// Kind tags the variant carried by a Command.
type Kind uint8

const (
	KindStop Kind = iota
	KindMoveLocal
)

func (k Kind) String() string {
	switch k {
	case KindStop:
		return "stop"
	case KindMoveLocal:
		return "move_local"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Command is an actuation command. It is a value type; copies are independent.
// X, Y and Omega are meaningful only for KindMoveLocal.
type Command struct {
	Kind  Kind
	X     float32 // robot-frame velocity target
	Y     float32
	Omega float32 // angular velocity target
}

// MoveLocal returns a robot-frame velocity command.
func MoveLocal(x, y, omega float32) Command {
	return Command{Kind: KindMoveLocal, X: x, Y: y, Omega: omega}
}

// Stop returns a stop command.
func Stop() Command {
	return Command{Kind: KindStop}
}

func (c Command) IsMove() bool { return c.Kind == KindMoveLocal }

func (c Command) String() string {
	if c.Kind == KindMoveLocal {
		return fmt.Sprintf("move_local(x=%g, y=%g, omega=%g)", c.X, c.Y, c.Omega)
	}
	return c.Kind.String()
}

// Sink is the producer side of a command queue.
type Sink interface {
	Send(cmd Command) error
}

// Source is the consumer side of a command queue. Neither method blocks.
type Source interface {
	TryReceive() (Command, bool)
	// Drain appends every command queued at the time of the call to dst, oldest
	// first, and returns the extended slice. Commands sent during or after the
	// call are left for the next Drain.
	Drain(dst []Command) []Command
}

// Queue is a command queue with both ends plus consumer teardown.
type Queue interface {
	Sink
	Source
	Close()
}

// NewQueue returns the queue implementation registered under policy:
// "fifo" (default) or "mailbox".
func NewQueue(policy string) (Queue, error) {
	switch policy {
	case "", "fifo":
		return NewChannel(), nil
	case "mailbox":
		return NewMailbox(), nil
	}
	return nil, fmt.Errorf("unknown queue policy: %s", policy)
}
