package world

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/botlink/internal/dynamo"
)

// Kind identifies what a body represents on the field.
type Kind int

const (
	Robot Kind = iota
	Ball
)

func (k Kind) String() string {
	switch k {
	case Robot:
		return "robot"
	case Ball:
		return "ball"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Handle is an opaque body identity. The zero Handle never refers to a body.
type Handle uint32

// Vec is a 2D vector in meters (or meters per second squared for gravity).
type Vec struct {
	X, Y float64
}

// Pose is a body position and heading as reported by the engine.
type Pose struct {
	X, Y, Angle float64
}

// BodyState is a full read-out of one body.
type BodyState struct {
	Handle Handle  `json:"id"`
	Kind   Kind    `json:"-"`
	Type   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Omega  float64 `json:"omega"`
}

// StepParams are the integration parameters of one step.
type StepParams struct {
	Dt float64
}

type drive struct {
	vx, vy, omega float64
}

type entry struct {
	kind  Kind
	body  *cp.Body
	drive *drive
}

// World owns the engine space and every body in it. Bodies are never removed.
// A World is not safe for concurrent use; Step must have a single caller.
type World struct {
	params Params
	space  *cp.Space

	bodies []entry
	robots []Handle
	ball   Handle

	t     float64
	steps int
}

func New(params Params) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &World{params: params, space: space}
}

func (w *World) Params() Params { return w.params }

// CreateBody inserts a dynamic circle of the kind's radius and mass at (x, y)
// with zero angle and zero velocity.
func (w *World) CreateBody(kind Kind, x, y float64) Handle {
	radius, mass := w.params.RobotRadius, w.params.RobotMass
	if kind == Ball {
		radius, mass = w.params.BallRadius, w.params.BallMass
	}

	body := w.space.AddBody(cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{})))
	body.SetPosition(cp.Vector{X: x, Y: y})

	shape := w.space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	shape.SetFriction(w.params.Friction)
	shape.SetElasticity(w.params.Elasticity)

	w.bodies = append(w.bodies, entry{kind: kind, body: body})
	h := Handle(len(w.bodies))

	switch kind {
	case Robot:
		w.robots = append(w.robots, h)
	case Ball:
		if w.ball == 0 {
			w.ball = h
		}
	}
	return h
}

// ArrangeRow places n robots on a horizontal row starting at the row origin,
// one robot diameter plus twice the gap apart.
func (w *World) ArrangeRow(n int) []Handle {
	spacing := 2 * (w.params.RobotRadius + w.params.RowGap)
	handles := make([]Handle, 0, n)
	for i := 0; i < n; i++ {
		x := w.params.RowOriginX + float64(i)*spacing
		handles = append(handles, w.CreateBody(Robot, x, w.params.rowY()))
	}
	return handles
}

func (w *World) lookup(h Handle) (*entry, bool) {
	if h == 0 || int(h) > len(w.bodies) {
		return nil, false
	}
	return &w.bodies[h-1], true
}

// Position reads the body pose from the engine. ok is false only for a
// handle this world never issued.
func (w *World) Position(h Handle) (Pose, bool) {
	e, ok := w.lookup(h)
	if !ok {
		return Pose{}, false
	}
	p := e.body.Position()
	return Pose{X: p.X, Y: p.Y, Angle: e.body.Angle()}, true
}

func (w *World) Body(h Handle) (BodyState, error) {
	e, ok := w.lookup(h)
	if !ok {
		return BodyState{}, fmt.Errorf("%w: %d", dynamo.ErrInvalidHandle, h)
	}
	return readBody(h, e), nil
}

func readBody(h Handle, e *entry) BodyState {
	p, v := e.body.Position(), e.body.Velocity()
	return BodyState{
		Handle: h,
		Kind:   e.kind,
		Type:   e.kind.String(),
		X:      p.X,
		Y:      p.Y,
		Angle:  e.body.Angle(),
		VX:     v.X,
		VY:     v.Y,
		Omega:  e.body.AngularVelocity(),
	}
}

// SetDrive makes every following Step start with the body at the given world
// frame velocity and angular velocity.
func (w *World) SetDrive(h Handle, vx, vy, omega float64) error {
	e, ok := w.lookup(h)
	if !ok {
		return fmt.Errorf("%w: %d", dynamo.ErrInvalidHandle, h)
	}
	e.drive = &drive{vx: vx, vy: vy, omega: omega}
	return nil
}

// ClearDrive hands the body back to the engine.
func (w *World) ClearDrive(h Handle) error {
	e, ok := w.lookup(h)
	if !ok {
		return fmt.Errorf("%w: %d", dynamo.ErrInvalidHandle, h)
	}
	e.drive = nil
	return nil
}

// Step advances the engine by exactly p.Dt. A non-positive Dt is a no-op.
func (w *World) Step(gravity Vec, p StepParams) {
	if p.Dt <= 0 {
		return
	}

	for i := range w.bodies {
		e := &w.bodies[i]
		if e.drive == nil {
			continue
		}
		e.body.SetVelocity(e.drive.vx, e.drive.vy)
		e.body.SetAngularVelocity(e.drive.omega)
	}

	w.space.SetGravity(cp.Vector{X: gravity.X, Y: gravity.Y})
	w.space.Step(p.Dt)

	w.t += p.Dt
	w.steps++
}

func (w *World) Robots() []Handle {
	out := make([]Handle, len(w.robots))
	copy(out, w.robots)
	return out
}

// Ball returns the first ball created, or the zero Handle.
func (w *World) Ball() Handle { return w.ball }

func (w *World) Time() float64 { return w.t }
func (w *World) Steps() int     { return w.steps }
func (w *World) Len() int       { return len(w.bodies) }
