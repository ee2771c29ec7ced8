package command

import (
	"sync"

	"github.com/san-kum/botlink/internal/dynamo"
)

// Channel is an unbounded FIFO command queue with a single consumer.
//
// Send never blocks and is safe from any number of goroutines. TryReceive is
// meant for exactly one consumer goroutine. A burst of commands is delivered in
// order; nothing is coalesced here.
type Channel struct {
	mu     sync.Mutex
	queue  []Command
	head   int
	closed bool
}

func NewChannel() *Channel {
	return &Channel{queue: make([]Command, 0, 16)}
}

// Send enqueues cmd. It returns dynamo.ErrChannelClosed once the consumer has
// closed the channel.
func (c *Channel) Send(cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return dynamo.ErrChannelClosed
	}
	c.queue = append(c.queue, cmd)
	return nil
}

// TryReceive pops the oldest queued command, or reports false if none is queued.
func (c *Channel) TryReceive() (Command, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.head >= len(c.queue) {
		return Command{}, false
	}

	cmd := c.queue[c.head]
	c.head++

	// reclaim the consumed prefix once drained
	if c.head == len(c.queue) {
		c.queue = c.queue[:0]
		c.head = 0
	}
	return cmd, true
}

func (c *Channel) Drain(dst []Command) []Command {
	c.mu.Lock()
	defer c.mu.Unlock()

	dst = append(dst, c.queue[c.head:]...)
	c.queue = c.queue[:0]
	c.head = 0
	return dst
}

// Close tears down the consumer side. Queued commands are dropped and later
// sends fail. Idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.queue = nil
	c.head = 0
}

// Len returns the number of queued commands.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue) - c.head
}
