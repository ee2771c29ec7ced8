package actuator

import (
	"fmt"
	"time"

	"github.com/san-kum/botlink/internal/device"
	"github.com/san-kum/botlink/internal/dynamo"
)

const DefaultRate = 20.0

// Config describes the device link and the tick cadence.
type Config struct {
	Port        string
	Baud        int
	ReadTimeout time.Duration
	// Rate is the tick frequency in Hz.
	Rate float64
	// SafeStopOnExit writes a zero-velocity frame when Run is cancelled.
	SafeStopOnExit bool
	// Queue selects the command queue policy: "fifo" or "mailbox".
	Queue string
}

func DefaultConfig() Config {
	return Config{
		Baud:           device.DefaultBaud,
		ReadTimeout:    device.DefaultReadTimeout,
		Rate:           DefaultRate,
		SafeStopOnExit: true,
		Queue:          "fifo",
	}
}

// Period is the fixed tick period.
func (c Config) Period() time.Duration {
	return time.Duration(float64(time.Second) / c.Rate)
}

func (c Config) validate() error {
	if c.Rate <= 0 {
		return fmt.Errorf("%w: rate must be positive, got %f", dynamo.ErrInvalidConfig, c.Rate)
	}
	if c.Baud < 0 {
		return fmt.Errorf("%w: baud must not be negative, got %d", dynamo.ErrInvalidConfig, c.Baud)
	}
	return nil
}
