package metrics

import (
	"math"

	"github.com/san-kum/botlink/internal/world"
)

// Travel is the summed path length of all robots.
type Travel struct {
	last  map[world.Handle]world.BodyState
	total float64
}

func NewTravel() *Travel {
	return &Travel{last: make(map[world.Handle]world.BodyState)}
}

func (t *Travel) Name() string { return "robot_travel" }

func (t *Travel) OnStep(s world.Snapshot) {
	for _, b := range s.Bodies {
		if b.Kind != world.Robot {
			continue
		}
		if prev, ok := t.last[b.Handle]; ok {
			t.total += math.Hypot(b.X-prev.X, b.Y-prev.Y)
		}
		t.last[b.Handle] = b
	}
}

func (t *Travel) Value() float64 { return t.total }

func (t *Travel) Reset() {
	clear(t.last)
	t.total = 0
}

// PeakSpeed is the highest linear speed any body reached.
type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) OnStep(s world.Snapshot) {
	for _, b := range s.Bodies {
		p.peak = math.Max(p.peak, math.Hypot(b.VX, b.VY))
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }
