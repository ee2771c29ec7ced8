package actuator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/botlink/internal/command"
	"github.com/san-kum/botlink/internal/device"
	"github.com/san-kum/botlink/internal/dynamo"
	"github.com/san-kum/botlink/internal/log"
)

// Stats counts worker activity since construction.
type Stats struct {
	Ticks     uint64
	Frames    uint64
	Bytes     uint64
	Received  uint64
	Coalesced uint64 // commands drained but superseded within the same tick
}

// Worker owns a device link and writes one frame per tick for the latched
// command. It is the only reader of its command source and the only writer
// of its link.
type Worker struct {
	link   device.Link
	src    command.Source
	cfg    Config
	logger log.Logger

	frame []byte
	batch []command.Command

	mu      sync.Mutex
	latched *command.Command
	stats   Stats
}

// Open opens the device link and returns a worker that owns it. The worker is
// not started; call Run. Any failure wraps dynamo.ErrDeviceOpenFailed.
func Open(opener device.Opener, cfg Config, src command.Source, logger log.Logger) (*Worker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	link, err := opener.Open(cfg.Port, cfg.Baud, cfg.ReadTimeout)
	if err != nil {
		if !errors.Is(err, dynamo.ErrDeviceOpenFailed) {
			err = fmt.Errorf("%w: %s: %w", dynamo.ErrDeviceOpenFailed, cfg.Port, err)
		}
		return nil, err
	}

	logger.WithField("port", cfg.Port).Infof("device link opened (baud=%d)", cfg.Baud)
	return New(link, src, cfg, logger), nil
}

// New wraps an already opened link. The worker takes ownership of link.
func New(link device.Link, src command.Source, cfg Config, logger log.Logger) *Worker {
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRate
	}
	return &Worker{
		link:   link,
		src:    src,
		cfg:    cfg,
		logger: logger,
		frame:  make([]byte, 0, 64),
		batch:  make([]command.Command, 0, 16),
	}
}

// Tick runs one control iteration: drain what is queued now, latch the newest
// command, and write its frame if it is a MoveLocal. Stop and no command write
// nothing. Commands arriving during the drain wait for the next tick.
func (w *Worker) Tick() error {
	w.batch = w.src.Drain(w.batch[:0])

	var last command.Command
	drained := uint64(len(w.batch))
	if drained > 0 {
		last = w.batch[drained-1]
	}

	w.mu.Lock()
	if drained > 0 {
		w.latched = &last
		w.stats.Received += drained
		w.stats.Coalesced += drained - 1
	}
	tick := w.stats.Ticks
	w.stats.Ticks++
	var latched command.Command
	hasLatch := w.latched != nil
	if hasLatch {
		latched = *w.latched
	}
	w.mu.Unlock()

	if drained > 1 {
		w.logger.Debugf("tick %d: %d commands drained, applying %v", tick, drained, last)
	}

	if !hasLatch || !latched.IsMove() {
		return nil
	}

	if err := w.write(latched); err != nil {
		return &dynamo.TickError{Tick: tick, Wrapped: err}
	}
	return nil
}

func (w *Worker) write(cmd command.Command) error {
	w.frame = device.AppendFrame(w.frame[:0], cmd.X, cmd.Y, cmd.Omega)
	if err := w.link.WriteAll(w.frame); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrDeviceWriteFailed, err)
	}

	w.mu.Lock()
	w.stats.Frames++
	w.stats.Bytes += uint64(len(w.frame))
	w.mu.Unlock()
	return nil
}

// Run ticks at the configured rate until ctx is done or a write fails. The
// link is closed on return. On cancellation a zero-velocity frame is written
// first when SafeStopOnExit is set.
func (w *Worker) Run(ctx context.Context) error {
	defer w.closeLink()

	period := w.cfg.Period()
	w.logger.Infof("actuation worker started (period=%v)", period)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return w.stop()
		default:
		}

		if err := w.Tick(); err != nil {
			w.logger.Errorf("actuation stopped: %v", err)
			return err
		}

		select {
		case <-ctx.Done():
			return w.stop()
		case <-ticker.C:
		}
	}
}

func (w *Worker) stop() error {
	if !w.cfg.SafeStopOnExit {
		w.logger.Infof("actuation worker stopped")
		return nil
	}
	if err := w.write(command.MoveLocal(0, 0, 0)); err != nil {
		w.logger.Errorf("safe stop frame failed: %v", err)
		return err
	}
	w.logger.Infof("actuation worker stopped after safe stop frame")
	return nil
}

func (w *Worker) closeLink() {
	if err := w.link.Close(); err != nil {
		w.logger.Warnf("closing device link: %v", err)
	}
}

// Latched returns the command currently held, if any.
func (w *Worker) Latched() (command.Command, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.latched == nil {
		return command.Command{}, false
	}
	return *w.latched, true
}

func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
