package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/opgate/component"
	"github.com/kbukum/opgate/logger"
)

var (
	// ErrNotRunning is returned when using or stopping a loop that is not running.
	ErrNotRunning = errors.New("scheduler: loop not running")
	// ErrAlreadyRunning is returned when starting a loop twice.
	ErrAlreadyRunning = errors.New("scheduler: loop already running")
	// ErrReentrant is returned when Do is called from a callback already
	// running on the loop.
	ErrReentrant = errors.New("scheduler: Do called from the loop goroutine")
)

// Loop executes every task on a single goroutine.
type Loop struct {
	queueSize int

	mu      sync.RWMutex
	queue   chan task
	running atomic.Bool
	done    chan struct{}
	owner   atomic.Uint64

	log *logger.Logger
}

type task struct {
	fn   func()
	done chan struct{}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithQueueSize sets the task queue size.
func WithQueueSize(size int) LoopOption {
	return func(l *Loop) {
		if size > 0 {
			l.queueSize = size
		}
	}
}

// WithLogger sets the logger used to report callback panics.
func WithLogger(log *logger.Logger) LoopOption {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoop creates a stopped Loop.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		queueSize: 1024,
		log:       logger.WithComponent("scheduler"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ensure Loop satisfies component.Component.
var _ component.Component = (*Loop)(nil)

// Name returns the component name.
func (l *Loop) Name() string { return "scheduler" }

// Start launches the loop goroutine.
func (l *Loop) Start(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running.Load() {
		return ErrAlreadyRunning
	}
	l.queue = make(chan task, l.queueSize)
	l.done = make(chan struct{})
	l.running.Store(true)

	go l.run(l.queue, l.done)
	return nil
}

// Stop closes the queue after already-queued tasks run. Timers that have
// not fired yet are dropped. It waits until the loop exits or ctx ends.
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	if !l.running.Load() {
		l.mu.Unlock()
		return ErrNotRunning
	}
	l.running.Store(false)
	close(l.queue)
	done := l.done
	l.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the loop accepts tasks.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Now returns wall-clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Health reports whether the loop is accepting work.
func (l *Loop) Health(_ context.Context) component.Health {
	if !l.running.Load() {
		return component.Health{Name: l.Name(), Status: component.StatusUnhealthy, Message: "not running"}
	}
	return component.Health{Name: l.Name(), Status: component.StatusHealthy}
}

// Describe returns a summary for the startup log.
func (l *Loop) Describe() component.Description {
	return component.Description{
		Name:    "Scheduler",
		Type:    "scheduler",
		Details: fmt.Sprintf("queue=%d", l.queueSize),
	}
}

// Do runs fn on the loop goroutine and waits for it. When the loop is not
// running fn is dropped and Do returns ErrNotRunning. Callbacks running on
// the loop cannot wait for it; Do returns ErrReentrant for them.
func (l *Loop) Do(fn func()) error {
	if l.owner.Load() == goroutineID() {
		return ErrReentrant
	}
	t := task{fn: fn, done: make(chan struct{})}
	if !l.enqueue(t) {
		return ErrNotRunning
	}
	<-t.done
	return nil
}

// AfterFunc schedules fn onto the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Cancel {
	tok := &token{}
	timer := time.AfterFunc(d, func() {
		l.enqueue(task{fn: func() {
			if tok.claim() {
				fn()
			}
		}})
	})
	tok.stop = func() { timer.Stop() }
	return tok
}

// enqueue holds the read lock while sending so Stop cannot close the
// queue under a blocked sender.
func (l *Loop) enqueue(t task) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.running.Load() {
		return false
	}
	l.queue <- t
	return true
}

func (l *Loop) run(queue <-chan task, done chan<- struct{}) {
	id := goroutineID()
	l.owner.Store(id)
	defer func() {
		l.owner.CompareAndSwap(id, 0)
		close(done)
	}()
	for t := range queue {
		l.execute(t)
	}
}

func (l *Loop) execute(t task) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("Scheduled callback panicked", map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
				"stack": string(debug.Stack()),
			})
		}
		if t.done != nil {
			close(t.done)
		}
	}()
	t.fn()
}
