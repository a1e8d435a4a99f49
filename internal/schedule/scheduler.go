// Package schedule advances the selected year on a fixed cadence.
//
// A Scheduler owns at most one repeating timer. Timer callbacks are routed
// through a Dispatcher so that the year change and its broadcast run on the
// same goroutine as every other state mutation.
package schedule

import (
	"io"
	"log/slog"
	"time"
)

// Stepper is advanced once per tick.
type Stepper interface {
	IncrementYear() error
}

// handle is one live repeating timer. A fire whose handle is no longer the
// scheduler's current one is stale and ignored.
type handle struct {
	timer Timer
}

// Scheduler keeps at most one pending tick and advances the year when it fires.
type Scheduler struct {
	target   Stepper
	interval time.Duration
	clock    Clock
	dispatch Dispatcher
	current  *handle
	ticks    int
	log      *slog.Logger
}

// New returns a paused scheduler. A nil clock uses wall time and a nil
// dispatcher runs callbacks on the timer goroutine.
func New(target Stepper, interval time.Duration, clock Clock, dispatch Dispatcher, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if dispatch == nil {
		dispatch = Direct
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{
		target:   target,
		interval: interval,
		clock:    clock,
		dispatch: dispatch,
		log:      logger.With(slog.String("component", "scheduler")),
	}
}

func (s *Scheduler) Interval() time.Duration { return s.interval }
func (s *Scheduler) Running() bool           { return s.current != nil }

// Ticks counts timer fires that advanced the year.
func (s *Scheduler) Ticks() int { return s.ticks }

// Start begins ticking. Starting a running scheduler does nothing.
func (s *Scheduler) Start() {
	if s.current != nil {
		return
	}
	h := &handle{}
	s.current = h
	s.arm(h)
}

// Stop cancels the live timer, if any.
func (s *Scheduler) Stop() {
	if s.current == nil {
		return
	}
	s.current.timer.Stop()
	s.current = nil
}

// Step advances one year immediately, independent of the timer.
func (s *Scheduler) Step() error {
	return s.target.IncrementYear()
}

func (s *Scheduler) arm(h *handle) {
	h.timer = s.clock.AfterFunc(s.interval, func() {
		s.dispatch(func() { s.fire(h) })
	})
}

func (s *Scheduler) fire(h *handle) {
	if s.current != h {
		return
	}
	s.arm(h)
	s.ticks++
	if err := s.target.IncrementYear(); err != nil {
		s.log.Error("tick failed", slog.String("error", err.Error()))
	}
}
