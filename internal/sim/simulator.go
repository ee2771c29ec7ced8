package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/botlink/internal/dynamo"
	"github.com/san-kum/botlink/internal/log"
	"github.com/san-kum/botlink/internal/world"
)

var errNonFinite = errors.New("non-finite body state")

// Stepper drives a World one fixed step per update event. It is the only
// writer of its World.
type Stepper struct {
	world     *world.World
	logger    log.Logger
	observers []Observer
}

func New(w *world.World, logger log.Logger) *Stepper {
	return &Stepper{
		world:     w,
		logger:    logger,
		observers: make([]Observer, 0),
	}
}

func (s *Stepper) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Stepper) World() *world.World { return s.world }

// Step advances the world once and notifies observers.
func (s *Stepper) Step(cfg Config) (world.Snapshot, error) {
	s.world.Step(cfg.Gravity, world.StepParams{Dt: cfg.Dt})

	snap := s.world.Snapshot()
	if err := checkFinite(snap); err != nil {
		return snap, &dynamo.StepError{Step: snap.Step, Time: snap.Time, Wrapped: err}
	}

	for _, obs := range s.observers {
		obs.OnStep(snap)
	}
	return snap, nil
}

// Run steps until cfg.Steps is reached, a step fails, or ctx is done.
// Cancellation of an open-ended run (Steps == 0) is a normal stop.
func (s *Stepper) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	capacity := 2
	if cfg.Steps > 0 && cfg.RecordEvery > 0 {
		capacity = cfg.Steps/cfg.RecordEvery + 2
	}
	result := &Result{Snapshots: make([]world.Snapshot, 0, capacity)}

	initial := s.world.Snapshot()
	result.Snapshots = append(result.Snapshots, initial)
	result.Final = initial

	var tick <-chan time.Time
	if cfg.Rate > 0 {
		ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.Rate))
		defer ticker.Stop()
		tick = ticker.C
	}

	s.logger.Debugf("stepping dt=%.4f steps=%d rate=%.1f", cfg.Dt, cfg.Steps, cfg.Rate)

	for i := 0; cfg.Steps == 0 || i < cfg.Steps; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return s.finish(result, cfg, ctx.Err())
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return s.finish(result, cfg, ctx.Err())
			default:
			}
		}

		snap, err := s.Step(cfg)
		if err != nil {
			s.logger.Errorf("simulation stopped: %v", err)
			return result, err
		}

		result.StepsTaken++
		result.Final = snap
		if cfg.RecordEvery > 0 && result.StepsTaken%cfg.RecordEvery == 0 {
			result.Snapshots = append(result.Snapshots, snap)
		}
	}

	return s.finish(result, cfg, nil)
}

func (s *Stepper) finish(result *Result, cfg Config, err error) (*Result, error) {
	last := result.Snapshots[len(result.Snapshots)-1]
	if last.Step != result.Final.Step {
		result.Snapshots = append(result.Snapshots, result.Final)
	}

	if err != nil && cfg.Steps == 0 {
		err = nil
	}
	s.logger.Infof("simulation finished after %d steps (t=%.3fs)", result.StepsTaken, result.Final.Time)
	return result, err
}

func (s *Stepper) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", dynamo.ErrInvalidConfig, cfg.Steps)
	}
	if cfg.Rate < 0 {
		return fmt.Errorf("%w: rate must not be negative, got %f", dynamo.ErrInvalidConfig, cfg.Rate)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("%w: record interval must not be negative, got %d", dynamo.ErrInvalidConfig, cfg.RecordEvery)
	}
	return nil
}

func checkFinite(snap world.Snapshot) error {
	for _, b := range snap.Bodies {
		for _, v := range [...]float64{b.X, b.Y, b.Angle, b.VX, b.VY, b.Omega} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: body %d", errNonFinite, b.Handle)
			}
		}
	}
	return nil
}
