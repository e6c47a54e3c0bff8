// Package pipeline provides composable, push-based stream operators.
//
// A Stream is cold: no work happens until Subscribe is called. Values are
// pushed from the source through each operator to the subscriber. Every
// subscription carries a Subscription handle; unsubscribing releases timers
// and upstream subscriptions and runs finalizers exactly once.
//
// Operators are not safe for concurrent use. Drive them from one
// scheduler.Scheduler so all callbacks share a single timeline.
//
// # Operators
//
// Synchronous:
//
//   - Map: transform each value
//   - Filter: keep values matching a predicate
//   - Tap: side-effect without altering the value
//   - DistinctUntilChanged: drop values equal to the previous emission
//   - Take / Skip: forward or drop the first n values
//   - CatchError: replace an error with a fallback stream
//   - Finalize: run a callback once on termination
//   - WithLatestFrom: pair each value with the latest from another stream
//
// Higher-order:
//
//   - MergeMap: subscribe to an inner stream per value, all run concurrently
//   - SwitchMap: subscribe to an inner stream per value, cancelling the previous
//   - Merge: combine several streams into one
//
// Timed (scheduler-driven):
//
//   - Delay: shift every value by a fixed duration, preserving order
//   - Debounce: emit the latest value after a quiet period
//
// # Usage
//
//	src := pipeline.NewSubject[int]()
//	doubled := pipeline.Map(src.Stream(), func(n int) (int, error) {
//	    return n * 2, nil
//	})
//	sub := doubled.Subscribe(pipeline.Observer[int]{
//	    Next: func(n int) { fmt.Println(n) },
//	})
//	defer sub.Unsubscribe()
//	src.Next(21)
package pipeline
