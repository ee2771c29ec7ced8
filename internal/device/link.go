package device

import (
	"strings"
	"time"
)

const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 10 * time.Millisecond
)

// Link is an exclusive byte-stream connection to an actuator.
// A Link has exactly one writer for its whole lifetime.
type Link interface {
	// WriteAll writes every byte of p or returns an error.
	WriteAll(p []byte) error
	Close() error
}

// Opener opens a Link by identifier.
type Opener interface {
	Open(identifier string, baud int, readTimeout time.Duration) (Link, error)
}

// OpenerFor picks the opener matching identifier: the simulated device for
// "sim" and "sim:<name>", the serial transport for everything else.
func OpenerFor(identifier string) Opener {
	if isSimIdentifier(identifier) {
		return &SimOpener{}
	}
	return SerialOpener{}
}

func isSimIdentifier(identifier string) bool {
	return identifier == "sim" || strings.HasPrefix(identifier, "sim:")
}
