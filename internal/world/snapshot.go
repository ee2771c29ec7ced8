package world

// Snapshot is an immutable copy of the world at one step.
type Snapshot struct {
	Time   float64     `json:"t"`
	Step   int         `json:"step"`
	Bodies []BodyState `json:"bodies"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Time:   w.t,
		Step:   w.steps,
		Bodies: make([]BodyState, len(w.bodies)),
	}
	for i := range w.bodies {
		s.Bodies[i] = readBody(Handle(i+1), &w.bodies[i])
	}
	return s
}

// Find returns the state of h within the snapshot.
func (s Snapshot) Find(h Handle) (BodyState, bool) {
	if h == 0 || int(h) > len(s.Bodies) {
		return BodyState{}, false
	}
	return s.Bodies[h-1], true
}

// First returns the lowest-handle body of the given kind.
func (s Snapshot) First(kind Kind) (BodyState, bool) {
	for _, b := range s.Bodies {
		if b.Kind == kind {
			return b, true
		}
	}
	return BodyState{}, false
}
