package pipeline

import (
	"time"

	"github.com/kbukum/opgate/scheduler"
)

// Delay shifts every value forward in time by duration, preserving order.
// Completion is delayed until every pending value has been emitted.
// Errors are forwarded immediately and discard pending values.
func Delay[T any](s *Stream[T], sched scheduler.Scheduler, duration time.Duration) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		type pending struct {
			due time.Time
			val T
		}
		var (
			queue      []pending
			timer      scheduler.Cancel
			sourceDone bool
		)

		var flush func()
		arm := func() {
			if timer != nil || len(queue) == 0 {
				return
			}
			wait := queue[0].due.Sub(sched.Now())
			if wait < 0 {
				wait = 0
			}
			timer = sched.AfterFunc(wait, flush)
		}
		flush = func() {
			timer = nil
			now := sched.Now()
			for len(queue) > 0 && !queue[0].due.After(now) {
				head := queue[0]
				queue = queue[1:]
				down.Next(head.val)
				if down.Closed() {
					return
				}
			}
			if len(queue) == 0 && sourceDone {
				down.Complete()
				return
			}
			arm()
		}

		down.Add(func() {
			if timer != nil {
				timer.Stop()
				timer = nil
			}
			queue = nil
		})

		subscribeTo(s, down, Observer[T]{
			Next: func(v T) {
				queue = append(queue, pending{due: sched.Now().Add(duration), val: v})
				arm()
			},
			Complete: func() {
				sourceDone = true
				if len(queue) == 0 && timer == nil {
					down.Complete()
				}
			},
		})
	})
}
