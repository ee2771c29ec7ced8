package command

import (
	"sync"

	"github.com/san-kum/botlink/internal/dynamo"
)

// Mailbox is a single-slot command queue with overwrite-on-send.
//
// Unlike Channel it keeps only the newest unconsumed command, so a burst
// collapses to its last element before the consumer ever sees it.
type Mailbox struct {
	mu      sync.Mutex
	slot    Command
	full    bool
	closed  bool
	dropped uint64
}

func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Send overwrites the slot. An unconsumed command is counted as dropped.
func (m *Mailbox) Send(cmd Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return dynamo.ErrChannelClosed
	}
	if m.full {
		m.dropped++
	}
	m.slot = cmd
	m.full = true
	return nil
}

func (m *Mailbox) TryReceive() (Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.full {
		return Command{}, false
	}
	m.full = false
	return m.slot, true
}

func (m *Mailbox) Drain(dst []Command) []Command {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.full {
		dst = append(dst, m.slot)
		m.full = false
	}
	return dst
}

func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.full = false
}

// Dropped returns how many commands were overwritten before being consumed.
func (m *Mailbox) Dropped() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}
