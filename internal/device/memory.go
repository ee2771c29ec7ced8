package device

import (
	"errors"
	"sync"
	"time"
)

var errLinkClosed = errors.New("link closed")

// MemoryLink records every write in memory.
type MemoryLink struct {
	mu      sync.Mutex
	writes  [][]byte
	failOn  int
	failErr error
	closed  bool
}

func NewMemoryLink() *MemoryLink {
	return &MemoryLink{failOn: -1}
}

func (l *MemoryLink) WriteAll(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errLinkClosed
	}
	if l.failOn == len(l.writes) {
		return l.failErr
	}
	l.writes = append(l.writes, append([]byte(nil), p...))
	return nil
}

func (l *MemoryLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// FailOnWrite makes write number n (zero-based, counting successful writes)
// fail with err.
func (l *MemoryLink) FailOnWrite(n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failOn, l.failErr = n, err
}

// Writes returns a copy of every successful write.
func (l *MemoryLink) Writes() [][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([][]byte, len(l.writes))
	copy(out, l.writes)
	return out
}

// Bytes returns the total number of bytes written.
func (l *MemoryLink) Bytes() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, w := range l.writes {
		n += len(w)
	}
	return n
}

func (l *MemoryLink) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// StaticOpener hands out a prepared link, or fails with Err.
type StaticOpener struct {
	Link Link
	Err  error
}

func (o StaticOpener) Open(identifier string, baud int, readTimeout time.Duration) (Link, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Link, nil
}
