package schedule

import (
	"context"
	"sync"
)

// Loop runs posted callbacks one at a time on a single goroutine.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop(buffer int) *Loop {
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post enqueues f. It reports false if the loop has been closed.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- f:
		return true
	case <-l.done:
		return false
	}
}

// Dispatch adapts Post to a Dispatcher.
func (l *Loop) Dispatch(f func()) { l.Post(f) }

// Run executes callbacks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case f := <-l.queue:
			f()
		}
	}
}

func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}
