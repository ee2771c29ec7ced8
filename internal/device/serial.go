package device

import (
	"fmt"
	"io"
	"time"

	"github.com/san-kum/botlink/internal/dynamo"
	"go.bug.st/serial"
)

// SerialOpener opens serial ports.
type SerialOpener struct{}

func (SerialOpener) Open(identifier string, baud int, readTimeout time.Duration) (Link, error) {
	if identifier == "" {
		return nil, fmt.Errorf("%w: empty port name", dynamo.ErrDeviceOpenFailed)
	}
	if baud <= 0 {
		baud = DefaultBaud
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(identifier, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrDeviceOpenFailed, identifier, err)
	}

	if readTimeout > 0 {
		if err := port.SetReadTimeout(readTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("%w: %s: set read timeout: %v", dynamo.ErrDeviceOpenFailed, identifier, err)
		}
	}

	return &serialLink{name: identifier, port: port}, nil
}

type serialLink struct {
	name string
	port io.WriteCloser
}

func (l *serialLink) WriteAll(p []byte) error {
	return writeAll(l.port, p)
}

func (l *serialLink) Close() error {
	return l.port.Close()
}

func (l *serialLink) String() string { return l.name }

// writeAll loops over short writes. A write that makes no progress without
// reporting an error is treated as a failure.
func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

// ListAvailable enumerates the serial ports present on this machine.
// It is a setup-time query for operator tooling; the worker never calls it.
func ListAvailable() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}
	if ports == nil {
		ports = []string{}
	}
	return ports, nil
}
