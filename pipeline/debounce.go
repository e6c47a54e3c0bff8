package pipeline

import (
	"time"

	"github.com/kbukum/opgate/scheduler"
)

// Debounce waits for silence of the given duration after the last value
// before emitting. If a new value arrives during the quiet period, the
// timer resets and only the latest value is emitted.
//
// When the source completes, a pending value is emitted immediately before
// completion.
func Debounce[T any](s *Stream[T], sched scheduler.Scheduler, duration time.Duration) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		var (
			latest   T
			hasValue bool
			timer    scheduler.Cancel
		)
		stopTimer := func() {
			if timer != nil {
				timer.Stop()
				timer = nil
			}
		}
		down.Add(stopTimer)

		subscribeTo(s, down, Observer[T]{
			Next: func(v T) {
				latest, hasValue = v, true
				// Reset the timer, a new value arrived
				stopTimer()
				timer = sched.AfterFunc(duration, func() {
					timer = nil
					if !hasValue {
						return
					}
					val := latest
					var zero T
					latest, hasValue = zero, false
					down.Next(val)
				})
			},
			Complete: func() {
				stopTimer()
				if hasValue {
					hasValue = false
					down.Next(latest)
				}
				down.Complete()
			},
		})
	})
}
