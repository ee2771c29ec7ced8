package actuator

import (
	"context"

	"github.com/san-kum/botlink/internal/command"
	"github.com/san-kum/botlink/internal/device"
	"github.com/san-kum/botlink/internal/log"
)

// Client is the producer-facing handle of a running worker. It only exposes
// Send; the device link stays inside the worker goroutine.
type Client struct {
	queue  command.Queue
	worker *Worker
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// StartClient opens the device, then runs the worker in its own goroutine.
// It fails without starting anything if the device cannot be opened.
func StartClient(ctx context.Context, opener device.Opener, cfg Config, logger log.Logger) (*Client, error) {
	queue, err := command.NewQueue(cfg.Queue)
	if err != nil {
		return nil, err
	}

	w, err := Open(opener, cfg, queue, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	c := &Client{
		queue:  queue,
		worker: w,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		c.err = w.Run(ctx)
		queue.Close()
	}()

	return c, nil
}

// Send hands cmd to the worker without blocking. It returns
// dynamo.ErrChannelClosed once the worker has exited.
func (c *Client) Send(cmd command.Command) error {
	return c.queue.Send(cmd)
}

// Close cancels the worker, waits for it and returns its exit error.
func (c *Client) Close() error {
	c.cancel()
	<-c.done
	return c.err
}

// Done is closed when the worker goroutine exits.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns the worker exit error; valid after Done is closed.
func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

func (c *Client) Worker() *Worker { return c.worker }
