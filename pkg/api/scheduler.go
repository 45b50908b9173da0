package api

import (
	"context"
	"sync"
)

// Scheduler runs callbacks on the goroutine that owns the UI state.
// Completion of an HTTP request is always delivered through it.
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

func (f SchedulerFunc) Post(fn func()) { f(fn) }

// Loop is a minimal event loop for non-interactive frontends.
type Loop struct {
	ch     chan func()
	once   sync.Once
	closed chan struct{}
}

func NewLoop(buffer int) *Loop {
	return &Loop{
		ch:     make(chan func(), buffer),
		closed: make(chan struct{}),
	}
}

// Post queues fn. Callbacks posted after Close are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.closed:
		return
	default:
	}
	select {
	case <-l.closed:
	case l.ch <- fn:
	}
}

func (l *Loop) Close() {
	l.once.Do(func() { close(l.closed) })
}

// Run executes posted callbacks in order until ctx is done or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.closed:
			return nil
		case fn := <-l.ch:
			fn()
		}
	}
}
