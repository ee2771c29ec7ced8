package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/botlink/internal/command"
	"github.com/san-kum/botlink/internal/dynamo"
	"github.com/san-kum/botlink/internal/integrators"
	"github.com/san-kum/botlink/internal/models"
)

// SimOpener opens simulated devices. It remembers the last link it opened so
// callers can inspect the simulated robot.
type SimOpener struct {
	// Now overrides the link clock; nil means time.Now.
	Now func() time.Time
	// Integrator names the pose integrator ("euler" or "rk4"); empty is rk4.
	Integrator string

	mu   sync.Mutex
	last *SimLink
}

func (o *SimOpener) Open(identifier string, baud int, readTimeout time.Duration) (Link, error) {
	if !isSimIdentifier(identifier) {
		return nil, fmt.Errorf("%w: %q is not a simulated device", dynamo.ErrDeviceOpenFailed, identifier)
	}

	integ, ok := integrators.ByName(o.Integrator)
	if !ok {
		return nil, fmt.Errorf("%w: unknown integrator %q", dynamo.ErrDeviceOpenFailed, o.Integrator)
	}

	link := NewSimLink(identifier)
	link.integ = integ
	if o.Now != nil {
		link.now = o.Now
		link.last = o.Now()
	}

	o.mu.Lock()
	o.last = link
	o.mu.Unlock()
	return link, nil
}

// Last returns the most recently opened link, or nil.
func (o *SimOpener) Last() *SimLink {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Pose is the planar pose of the simulated robot base.
type Pose struct {
	X, Y, Theta float64
}

// SimLink is a simulated actuator. Each frame it receives becomes the new
// robot-frame velocity target; between frames the base pose is integrated
// under the previous target (the device holds its last command).
type SimLink struct {
	name  string
	model dynamo.System
	integ dynamo.Integrator
	now   func() time.Time

	// MaxStep bounds a single integration step; longer gaps are subdivided.
	MaxStep time.Duration

	mu       sync.Mutex
	state    dynamo.State
	control  dynamo.Control
	last     time.Time
	frames   int
	failNext error
	closed   bool
}

func NewSimLink(name string) *SimLink {
	return &SimLink{
		name:    name,
		model:   models.NewHolonomic(),
		integ:   integrators.NewRK4(),
		now:     time.Now,
		MaxStep: 10 * time.Millisecond,
		state:   dynamo.State{0, 0, 0},
		control: dynamo.Control{0, 0, 0},
		last:    time.Now(),
	}
}

func (l *SimLink) WriteAll(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("%s: link closed", l.name)
	}
	if l.failNext != nil {
		err := l.failNext
		l.failNext = nil
		return err
	}

	cmd, err := ParseFrame(p)
	if err != nil {
		return err
	}

	l.advance(l.now())
	l.control = dynamo.Control{float64(cmd.X), float64(cmd.Y), float64(cmd.Omega)}
	l.frames++
	return nil
}

func (l *SimLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// advance integrates the pose up to now. Caller holds mu.
func (l *SimLink) advance(now time.Time) {
	gap := now.Sub(l.last)
	l.last = now
	if gap <= 0 {
		return
	}

	step := l.MaxStep
	if step <= 0 {
		step = gap
	}
	t := 0.0
	for gap > 0 {
		d := min(step, gap)
		dt := d.Seconds()
		next := l.integ.Step(l.model, l.state, l.control, t, dt)
		if !next.IsValid() {
			return
		}
		l.state = next
		t += dt
		gap -= d
	}
}

// Pose returns the simulated base pose as of now.
func (l *SimLink) Pose() Pose {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(l.now())
	return Pose{X: l.state[0], Y: l.state[1], Theta: l.state[2]}
}

// Velocity returns the command the device is currently holding.
func (l *SimLink) Velocity() command.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	return command.MoveLocal(float32(l.control[0]), float32(l.control[1]), float32(l.control[2]))
}

// Frames returns how many frames were accepted.
func (l *SimLink) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// FailNextWrite makes the next WriteAll return err.
func (l *SimLink) FailNextWrite(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failNext = err
}

func (l *SimLink) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *SimLink) String() string { return l.name }
