package scheduler

import (
	"sync/atomic"
	"time"
)

// Scheduler serializes callbacks onto one timeline.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// Do runs fn on the timeline and returns once it has run. It fails
	// when the timeline is not accepting work. It must not be called from
	// inside a scheduled callback.
	Do(fn func()) error
	// AfterFunc schedules fn to run on the timeline after d.
	// It never blocks the caller.
	AfterFunc(d time.Duration, fn func()) Cancel
}

// Cancel is the cancellation token returned by AfterFunc.
type Cancel interface {
	// Stop prevents the callback from running. It reports whether the
	// call stopped it; false means it already ran or was already stopped.
	Stop() bool
}

// token is the shared Cancel implementation. The callback runs only if it
// wins the fired flag against Stop.
type token struct {
	fired atomic.Bool
	stop  func()
}

func (t *token) Stop() bool {
	if !t.fired.CompareAndSwap(false, true) {
		return false
	}
	if t.stop != nil {
		t.stop()
	}
	return true
}

// claim marks the token as fired. It returns false when Stop won.
func (t *token) claim() bool {
	return t.fired.CompareAndSwap(false, true)
}
