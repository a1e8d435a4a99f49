package schedule_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trendscatter/internal/dataset"
	"github.com/san-kum/trendscatter/internal/schedule"
	"github.com/san-kum/trendscatter/internal/state"
)

const interval = 750 * time.Millisecond

type counter struct {
	n   int
	err error
}

func (c *counter) IncrementYear() error {
	c.n++
	return c.err
}

var epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

var _ = Describe("FakeClock", func() {
	It("fires timers in deadline order", func() {
		clock := schedule.NewFakeClock(epoch)
		var fired []string
		clock.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
		clock.AfterFunc(time.Second, func() { fired = append(fired, "a") })

		clock.Advance(1500 * time.Millisecond)
		Expect(fired).To(Equal([]string{"a"}))
		Expect(clock.Now()).To(Equal(epoch.Add(1500 * time.Millisecond)))

		clock.Advance(time.Second)
		Expect(fired).To(Equal([]string{"a", "b"}))
		Expect(clock.Pending()).To(Equal(0))
	})

	It("does not fire stopped timers", func() {
		clock := schedule.NewFakeClock(epoch)
		fired := false
		t := clock.AfterFunc(time.Second, func() { fired = true })
		Expect(t.Stop()).To(BeTrue())
		Expect(t.Stop()).To(BeFalse())
		clock.Advance(time.Minute)
		Expect(fired).To(BeFalse())
	})
})

var _ = Describe("Scheduler", func() {
	var (
		clock  *schedule.FakeClock
		target *counter
		sched  *schedule.Scheduler
	)

	BeforeEach(func() {
		clock = schedule.NewFakeClock(epoch)
		target = &counter{}
		sched = schedule.New(target, interval, clock, nil, nil)
	})

	It("starts paused with no timer", func() {
		Expect(sched.Running()).To(BeFalse())
		Expect(clock.Pending()).To(Equal(0))
	})

	It("ticks once per interval while running", func() {
		sched.Start()
		Expect(sched.Running()).To(BeTrue())

		clock.Advance(interval - time.Millisecond)
		Expect(target.n).To(Equal(0))

		clock.Advance(time.Millisecond)
		Expect(target.n).To(Equal(1))

		clock.Advance(3 * interval)
		Expect(target.n).To(Equal(4))
		Expect(sched.Ticks()).To(Equal(4))
	})

	It("keeps a single live timer", func() {
		sched.Start()
		sched.Start()
		Expect(clock.Pending()).To(Equal(1))
		clock.Advance(interval)
		Expect(target.n).To(Equal(1))
		Expect(clock.Pending()).To(Equal(1))
	})

	It("stops ticking after Stop", func() {
		sched.Start()
		clock.Advance(interval)
		sched.Stop()
		Expect(sched.Running()).To(BeFalse())
		Expect(clock.Pending()).To(Equal(0))

		clock.Advance(10 * interval)
		Expect(target.n).To(Equal(1))
	})

	It("ignores a fire that was already dispatched before Stop", func() {
		var queued []func()
		deferred := func(f func()) { queued = append(queued, f) }
		sched = schedule.New(target, interval, clock, deferred, nil)

		sched.Start()
		clock.Advance(interval)
		Expect(queued).To(HaveLen(1))

		sched.Stop()
		queued[0]()
		Expect(target.n).To(Equal(0))
	})

	It("steps on demand without a timer", func() {
		Expect(sched.Step()).To(Succeed())
		Expect(target.n).To(Equal(1))
		Expect(sched.Running()).To(BeFalse())
	})

	It("keeps running when a tick fails", func() {
		target.err = errors.New("boom")
		sched.Start()
		clock.Advance(2 * interval)
		Expect(target.n).To(Equal(2))
		Expect(sched.Running()).To(BeTrue())
	})

	Context("driving a store", func() {
		var store *state.Store

		BeforeEach(func() {
			store = state.New(1950, 2015, nil)
			Expect(store.Initialize([]dataset.Record{{Entity: "A", Year: 1950}})).To(Succeed())
			sched = schedule.New(store, interval, clock, nil, nil)
			store.SetAnimator(sched)
		})

		It("wraps from the last year to the first", func() {
			Expect(store.SetYear(2015)).To(Succeed())
			Expect(sched.Step()).To(Succeed())
			Expect(store.Selection().Year).To(Equal(1950))
			Expect(sched.Step()).To(Succeed())
			Expect(store.Selection().Year).To(Equal(1951))
		})

		It("keeps animating iff a timer is live", func() {
			Expect(store.ToggleAnimation()).To(Succeed())
			Expect(store.Selection().Animating).To(BeTrue())
			Expect(sched.Running()).To(BeTrue())

			clock.Advance(2 * interval)
			Expect(store.Selection().Year).To(Equal(1952))

			Expect(store.ToggleAnimation()).To(Succeed())
			Expect(store.Selection().Animating).To(BeFalse())
			Expect(sched.Running()).To(BeFalse())

			clock.Advance(5 * interval)
			Expect(store.Selection().Year).To(Equal(1952))
		})
	})
})

var _ = Describe("Loop", func() {
	It("runs posted callbacks in order on one goroutine", func() {
		loop := schedule.NewLoop(4)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx) }()

		results := make(chan int, 3)
		for i := 0; i < 3; i++ {
			i := i
			Expect(loop.Post(func() { results <- i })).To(BeTrue())
		}
		Eventually(results).Should(HaveLen(3))
		Expect(<-results).To(Equal(0))
		Expect(<-results).To(Equal(1))
		Expect(<-results).To(Equal(2))

		loop.Close()
		Eventually(done).Should(Receive(BeNil()))
		Expect(loop.Post(func() {})).To(BeFalse())
	})

	It("stops when the context is cancelled", func() {
		loop := schedule.NewLoop(0)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx) }()
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})
})
