package actuator

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/botlink/internal/command"
	"github.com/san-kum/botlink/internal/device"
	"github.com/san-kum/botlink/internal/dynamo"
	"github.com/san-kum/botlink/internal/log"
)

func frames(link *device.MemoryLink) []string {
	out := []string{}
	for _, w := range link.Writes() {
		out = append(out, string(w))
	}
	return out
}

var _ = Describe("Worker", func() {
	var (
		link   *device.MemoryLink
		queue  *command.Channel
		worker *Worker
	)

	BeforeEach(func() {
		link = device.NewMemoryLink()
		queue = command.NewChannel()
		worker = New(link, queue, DefaultConfig(), log.NewNop())
	})

	Describe("Tick", func() {
		It("writes nothing before any command arrives", func() {
			Expect(worker.Tick()).To(Succeed())
			Expect(link.Bytes()).To(BeZero())

			_, ok := worker.Latched()
			Expect(ok).To(BeFalse())
		})

		It("writes the reference frame for a MoveLocal", func() {
			Expect(queue.Send(command.MoveLocal(1.5, -2.0, 0.0))).To(Succeed())
			Expect(worker.Tick()).To(Succeed())

			Expect(frames(link)).To(Equal([]string{"Sy1.5;Sx-2;Sz0;S.\n"}))
		})

		It("applies only the last command of a burst", func() {
			Expect(queue.Send(command.MoveLocal(1, 0, 0))).To(Succeed())
			Expect(queue.Send(command.Stop())).To(Succeed())
			Expect(queue.Send(command.MoveLocal(0, 3, 0.5))).To(Succeed())

			Expect(worker.Tick()).To(Succeed())

			Expect(frames(link)).To(Equal([]string{"Sy0;Sx3;Sz0.5;S.\n"}))
			Expect(worker.Stats().Received).To(Equal(uint64(3)))
			Expect(worker.Stats().Coalesced).To(Equal(uint64(2)))
		})

		It("holds the latched command across ticks", func() {
			Expect(queue.Send(command.MoveLocal(0.25, 0, -1))).To(Succeed())
			for i := 0; i < 3; i++ {
				Expect(worker.Tick()).To(Succeed())
			}

			Expect(frames(link)).To(HaveLen(3))
			Expect(frames(link)).To(HaveEach("Sy0.25;Sx0;Sz-1;S.\n"))
		})

		It("writes zero bytes while Stop is latched", func() {
			Expect(queue.Send(command.MoveLocal(1, 1, 1))).To(Succeed())
			Expect(worker.Tick()).To(Succeed())
			Expect(queue.Send(command.Stop())).To(Succeed())

			before := link.Bytes()
			Expect(worker.Tick()).To(Succeed())
			Expect(worker.Tick()).To(Succeed())
			Expect(link.Bytes()).To(Equal(before))

			latched, ok := worker.Latched()
			Expect(ok).To(BeTrue())
			Expect(latched).To(Equal(command.Stop()))
		})

		It("ends a burst on Stop without writing", func() {
			Expect(queue.Send(command.MoveLocal(1, 1, 1))).To(Succeed())
			Expect(queue.Send(command.Stop())).To(Succeed())
			Expect(worker.Tick()).To(Succeed())
			Expect(link.Bytes()).To(BeZero())
		})

		It("reports write failures without retrying", func() {
			boom := errors.New("unplugged")
			link.FailOnWrite(0, boom)
			Expect(queue.Send(command.MoveLocal(1, 0, 0))).To(Succeed())

			err := worker.Tick()
			Expect(err).To(MatchError(dynamo.ErrDeviceWriteFailed))
			Expect(err).To(MatchError(boom))

			var tickErr *dynamo.TickError
			Expect(errors.As(err, &tickErr)).To(BeTrue())
			Expect(tickErr.Tick).To(Equal(uint64(0)))
			Expect(link.Writes()).To(BeEmpty())
		})

		It("returns and writes a frame while producers keep sending", func() {
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
							_ = queue.Send(command.MoveLocal(1, 0, 0))
						}
					}
				}()
			}
			defer func() {
				close(stop)
				wg.Wait()
			}()

			Eventually(queue.Len).Should(BeNumerically(">", 0))

			done := make(chan error, 1)
			go func() { done <- worker.Tick() }()
			Eventually(done, 2*time.Second).Should(Receive(BeNil()))

			Expect(frames(link)).To(Equal([]string{"Sy1;Sx0;Sz0;S.\n"}))
			Expect(worker.Stats().Received).To(BeNumerically(">", 0))
		})
	})

	Describe("Run", func() {
		fast := func() Config {
			cfg := DefaultConfig()
			cfg.Rate = 200
			return cfg
		}

		It("ticks on its own clock and writes a safe frame on cancel", func() {
			worker = New(link, queue, fast(), log.NewNop())
			ctx, cancel := context.WithCancel(context.Background())

			done := make(chan error, 1)
			go func() { done <- worker.Run(ctx) }()

			Expect(queue.Send(command.MoveLocal(1, 0, 0))).To(Succeed())
			Eventually(func() int { return len(link.Writes()) }).Should(BeNumerically(">=", 3))

			cancel()
			Eventually(done).Should(Receive(BeNil()))

			writes := frames(link)
			Expect(writes[len(writes)-1]).To(Equal("Sy0;Sx0;Sz0;S.\n"))
			Expect(writes[:len(writes)-1]).To(HaveEach("Sy1;Sx0;Sz0;S.\n"))
			Expect(link.Closed()).To(BeTrue())
		})

		It("skips the safe frame when disabled", func() {
			cfg := fast()
			cfg.SafeStopOnExit = false
			worker = New(link, queue, cfg, log.NewNop())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Expect(worker.Run(ctx)).To(Succeed())
			Expect(link.Writes()).To(BeEmpty())
			Expect(link.Closed()).To(BeTrue())
		})

		It("returns the write error and closes the link", func() {
			link.FailOnWrite(2, errors.New("io timeout"))
			worker = New(link, queue, fast(), log.NewNop())
			Expect(queue.Send(command.MoveLocal(0, 0, 1))).To(Succeed())

			done := make(chan error, 1)
			go func() { done <- worker.Run(context.Background()) }()

			var err error
			Eventually(done, time.Second).Should(Receive(&err))
			Expect(err).To(MatchError(dynamo.ErrDeviceWriteFailed))
			Expect(link.Writes()).To(HaveLen(2))
			Expect(link.Closed()).To(BeTrue())
		})
	})
})

var _ = Describe("Open", func() {
	It("fails with ErrDeviceOpenFailed for an invalid port", func() {
		cfg := DefaultConfig()
		cfg.Port = "/dev/botlink-does-not-exist"

		w, err := Open(device.SerialOpener{}, cfg, command.NewChannel(), log.NewNop())
		Expect(err).To(MatchError(dynamo.ErrDeviceOpenFailed))
		Expect(w).To(BeNil())
	})

	It("wraps foreign opener errors", func() {
		cfg := DefaultConfig()
		cfg.Port = "robot0"

		_, err := Open(device.StaticOpener{Err: errors.New("busy")}, cfg, command.NewChannel(), log.NewNop())
		Expect(err).To(MatchError(dynamo.ErrDeviceOpenFailed))
		Expect(err.Error()).To(ContainSubstring("busy"))
	})

	It("rejects a non-positive rate before touching the device", func() {
		cfg := DefaultConfig()
		cfg.Rate = 0

		_, err := Open(device.StaticOpener{Err: errors.New("must not be called")}, cfg, command.NewChannel(), log.NewNop())
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})
})

var _ = Describe("Client", func() {
	It("drives the simulated device and refuses sends after close", func() {
		cfg := DefaultConfig()
		cfg.Port = "sim"
		cfg.Rate = 200
		opener := &device.SimOpener{}

		client, err := StartClient(context.Background(), opener, cfg, log.NewNop())
		Expect(err).NotTo(HaveOccurred())

		Expect(client.Send(command.MoveLocal(1, 0, 0))).To(Succeed())
		Eventually(func() int { return opener.Last().Frames() }).Should(BeNumerically(">", 0))

		Expect(client.Close()).To(Succeed())
		Expect(opener.Last().Closed()).To(BeTrue())
		Expect(opener.Last().Velocity()).To(Equal(command.MoveLocal(0, 0, 0)))
		Expect(client.Send(command.Stop())).To(MatchError(dynamo.ErrChannelClosed))
	})

	It("never starts when the device cannot be opened", func() {
		cfg := DefaultConfig()
		cfg.Port = "COM99"

		client, err := StartClient(context.Background(), &device.SimOpener{}, cfg, log.NewNop())
		Expect(err).To(MatchError(dynamo.ErrDeviceOpenFailed))
		Expect(client).To(BeNil())
	})

	It("coalesces bursts before delivery with the mailbox policy", func() {
		cfg := DefaultConfig()
		cfg.Port = "sim"
		cfg.Queue = "mailbox"
		cfg.Rate = 1

		client, err := StartClient(context.Background(), &device.SimOpener{}, cfg, log.NewNop())
		Expect(err).NotTo(HaveOccurred())
		defer client.Close()

		for i := 0; i < 10; i++ {
			Expect(client.Send(command.MoveLocal(float32(i), 0, 0))).To(Succeed())
		}
		mb, ok := client.queue.(*command.Mailbox)
		Expect(ok).To(BeTrue())
		Expect(mb.Dropped()).To(BeNumerically(">=", 8))
	})
})
