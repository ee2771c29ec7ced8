package command

import (
	"errors"
	"sync"
	"testing"

	"github.com/san-kum/botlink/internal/dynamo"
)

func TestChannelFIFO(t *testing.T) {
	ch := NewChannel()

	cmds := []Command{MoveLocal(1, 0, 0), Stop(), MoveLocal(0, 2, 0.5)}
	for _, c := range cmds {
		if err := ch.Send(c); err != nil {
			t.Fatalf("send failed: %v", err)
		}
	}

	if ch.Len() != 3 {
		t.Errorf("expected 3 queued, got %d", ch.Len())
	}

	for i, want := range cmds {
		got, ok := ch.TryReceive()
		if !ok {
			t.Fatalf("expected command %d, got none", i)
		}
		if got != want {
			t.Errorf("command %d: expected %v, got %v", i, want, got)
		}
	}

	if _, ok := ch.TryReceive(); ok {
		t.Error("expected empty channel")
	}
}

func TestChannelTryReceiveEmpty(t *testing.T) {
	ch := NewChannel()
	if _, ok := ch.TryReceive(); ok {
		t.Error("expected no command from fresh channel")
	}
}

func TestChannelSendAfterClose(t *testing.T) {
	ch := NewChannel()
	if err := ch.Send(MoveLocal(1, 1, 1)); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	ch.Close()
	ch.Close()

	err := ch.Send(Stop())
	if !errors.Is(err, dynamo.ErrChannelClosed) {
		t.Errorf("expected ErrChannelClosed, got %v", err)
	}
	if _, ok := ch.TryReceive(); ok {
		t.Error("expected queued commands to be dropped on close")
	}
}

func TestChannelConcurrentProducers(t *testing.T) {
	ch := NewChannel()

	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = ch.Send(MoveLocal(float32(id), float32(i), 0))
			}
		}(p)
	}
	wg.Wait()

	lastSeen := make(map[float32]float32)
	count := 0
	for {
		cmd, ok := ch.TryReceive()
		if !ok {
			break
		}
		if prev, seen := lastSeen[cmd.X]; seen && cmd.Y <= prev {
			t.Fatalf("producer %v out of order: %v after %v", cmd.X, cmd.Y, prev)
		}
		lastSeen[cmd.X] = cmd.Y
		count++
	}

	if count != producers*perProducer {
		t.Errorf("expected %d commands, got %d", producers*perProducer, count)
	}
}

func TestChannelDrain(t *testing.T) {
	ch := NewChannel()
	for i := 0; i < 3; i++ {
		_ = ch.Send(MoveLocal(float32(i), 0, 0))
	}

	got := ch.Drain(nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(got))
	}
	for i, cmd := range got {
		if cmd.X != float32(i) {
			t.Errorf("command %d: expected x=%d, got %v", i, i, cmd.X)
		}
	}
	if ch.Len() != 0 {
		t.Errorf("expected empty channel after drain, got %d", ch.Len())
	}

	_ = ch.Send(Stop())
	got = ch.Drain(got[:0])
	if len(got) != 1 || got[0] != Stop() {
		t.Errorf("expected only the later Stop, got %v", got)
	}
	if got = ch.Drain(got[:0]); len(got) != 0 {
		t.Errorf("expected nothing to drain, got %v", got)
	}
}

func TestChannelDrainBoundedUnderLoad(t *testing.T) {
	ch := NewChannel()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = ch.Send(Stop())
				}
			}
		}()
	}

	total := 0
	for i := 0; i < 10; i++ {
		total += len(ch.Drain(nil))
	}
	close(stop)
	wg.Wait()

	total += len(ch.Drain(nil))
	if total == 0 {
		t.Error("expected drained commands")
	}
	if ch.Len() != 0 {
		t.Errorf("expected empty channel, got %d", ch.Len())
	}
}

func TestMailboxDrain(t *testing.T) {
	mb := NewMailbox()
	if got := mb.Drain(nil); len(got) != 0 {
		t.Errorf("expected empty drain, got %v", got)
	}

	_ = mb.Send(MoveLocal(1, 0, 0))
	_ = mb.Send(MoveLocal(2, 0, 0))
	got := mb.Drain(nil)
	if len(got) != 1 || got[0].X != 2 {
		t.Errorf("expected latest command only, got %v", got)
	}
	if _, ok := mb.TryReceive(); ok {
		t.Error("expected empty mailbox after drain")
	}
}

func TestMailboxOverwrites(t *testing.T) {
	mb := NewMailbox()

	for i := 0; i < 5; i++ {
		_ = mb.Send(MoveLocal(float32(i), 0, 0))
	}

	got, ok := mb.TryReceive()
	if !ok {
		t.Fatal("expected a command")
	}
	if got.X != 4 {
		t.Errorf("expected latest command x=4, got %v", got.X)
	}
	if mb.Dropped() != 4 {
		t.Errorf("expected 4 dropped, got %d", mb.Dropped())
	}
	if _, ok := mb.TryReceive(); ok {
		t.Error("expected empty mailbox after receive")
	}

	mb.Close()
	if err := mb.Send(Stop()); !errors.Is(err, dynamo.ErrChannelClosed) {
		t.Errorf("expected ErrChannelClosed, got %v", err)
	}
}

func TestNewQueue(t *testing.T) {
	tests := []struct {
		policy  string
		wantErr bool
	}{
		{"", false},
		{"fifo", false},
		{"mailbox", false},
		{"lifo", true},
	}

	for _, tt := range tests {
		q, err := NewQueue(tt.policy)
		if (err != nil) != tt.wantErr {
			t.Errorf("policy %q: unexpected error %v", tt.policy, err)
		}
		if err == nil && q == nil {
			t.Errorf("policy %q: expected queue", tt.policy)
		}
	}
}

func TestCommandString(t *testing.T) {
	if s := Stop().String(); s != "stop" {
		t.Errorf("expected stop, got %s", s)
	}
	if s := MoveLocal(1.5, -2, 0).String(); s != "move_local(x=1.5, y=-2, omega=0)" {
		t.Errorf("unexpected string: %s", s)
	}
}
