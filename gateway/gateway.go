// Package gateway hands work to the single goroutine that owns
// presentation state (the UI context).
//
// Any number of goroutines may submit tasks. RunLater queues a task and
// returns immediately; RunAndWait queues a task and blocks until it has
// run. Tasks submitted from one goroutine run in submission order. A task
// receives a context marked as running on the UI context, and RunAndWait
// called with such a context runs the task inline instead of queueing it
// behind itself.
//
// Reentry is recognised only through that context. Code running on the UI
// context must pass on the context it was given; calling RunAndWait there
// with any other context blocks until that context is done.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	// ErrClosed is returned once the UI loop has stopped.
	ErrClosed = errors.New("gateway closed")
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("gateway already running")
	// ErrTaskPanic is returned by RunAndWait when the task panicked.
	ErrTaskPanic = errors.New("task panicked")
)

// Task is a unit of work for the UI context.
type Task func(ctx context.Context)

type uiKey struct{}

type item struct {
	task Task
	done chan error // nil for RunLater
}

// Gateway is the hand-off point to the UI context.
type Gateway struct {
	mu     sync.Mutex
	queue  []item
	closed bool

	notify  chan struct{}
	stopped chan struct{}
	running atomic.Bool
	logger  *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for task panics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithCapacity preallocates room for n queued tasks.
func WithCapacity(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.queue = make([]item, 0, n)
		}
	}
}

// New creates a gateway. Call Run from the goroutine that owns the UI.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		notify:  make(chan struct{}, 1),
		stopped: make(chan struct{}),
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// OnUI reports whether ctx was handed to a task by a gateway's UI loop.
func OnUI(ctx context.Context) bool {
	_, ok := ctx.Value(uiKey{}).(*Gateway)
	return ok
}

func (g *Gateway) onThisUI(ctx context.Context) bool {
	v, ok := ctx.Value(uiKey{}).(*Gateway)
	return ok && v == g
}

// Run executes queued tasks on the calling goroutine until ctx is
// cancelled. Tasks still queued at that point are discarded and their
// waiters receive ErrClosed.
func (g *Gateway) Run(ctx context.Context) error {
	if !g.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer g.close()

	uiCtx := context.WithValue(ctx, uiKey{}, g)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-g.notify:
		}
		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			it, ok := g.pop()
			if !ok {
				break
			}
			err := g.exec(uiCtx, it.task)
			if it.done != nil {
				it.done <- err
			}
		}
	}
}

// RunLater queues task without waiting for it.
func (g *Gateway) RunLater(task Task) error {
	return g.push(item{task: task})
}

// RunAndWait runs task on the UI context and waits for it to finish. When
// ctx already belongs to this gateway's UI context the task runs inline;
// a task calling RunAndWait must pass its own ctx for that to apply.
// If ctx is cancelled while waiting, RunAndWait returns ctx.Err() and the
// task may still run later.
func (g *Gateway) RunAndWait(ctx context.Context, task Task) error {
	if g.onThisUI(ctx) {
		return g.exec(ctx, task)
	}
	done := make(chan error, 1)
	if err := g.push(item{task: task, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-g.stopped:
		// The loop may have finished our task just before stopping.
		select {
		case err := <-done:
			return err
		default:
			return ErrClosed
		}
	}
}

// Pending returns the number of queued tasks.
func (g *Gateway) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}

func (g *Gateway) push(it item) error {
	if it.task == nil {
		return errors.New("nil task")
	}
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	g.queue = append(g.queue, it)
	g.mu.Unlock()

	select {
	case g.notify <- struct{}{}:
	default:
	}
	return nil
}

func (g *Gateway) pop() (item, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queue) == 0 {
		return item{}, false
	}
	it := g.queue[0]
	g.queue[0] = item{}
	g.queue = g.queue[1:]
	return it, true
}

func (g *Gateway) exec(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("ui task panicked", "panic", r)
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	task(ctx)
	return nil
}

func (g *Gateway) close() {
	g.mu.Lock()
	g.closed = true
	pending := g.queue
	g.queue = nil
	g.mu.Unlock()

	for _, it := range pending {
		if it.done != nil {
			it.done <- ErrClosed
		}
	}
	close(g.stopped)
}
