// Package command carries actuation commands from producers to the single
// actuation worker.
//
// Two queues share the [Sink]/[Source] contract:
//
//   - [Channel]: unbounded FIFO. Every command is delivered in order; the
//     worker applies only the last one drained per tick.
//   - [Mailbox]: one slot, overwrite on send. Bursts collapse before delivery.
//
// Send never blocks on either. After the consumer calls Close, Send returns
// [dynamo.ErrChannelClosed].
package command
