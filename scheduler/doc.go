// Package scheduler provides the single logical timeline that stream
// operators run on.
//
// Every callback handed to a Scheduler runs serially: event emission,
// gating and synchronous transforms execute inside Do, and timed operators
// (delay, debounce, mergeMap/switchMap) resume through AfterFunc. Nothing
// ever runs two callbacks at once, so stream state needs no locking.
//
// # Implementations
//
//   - Loop: production scheduler backed by one goroutine and time.AfterFunc
//   - Virtual: manual clock for tests; Advance fires due timers in order
//
// # Usage
//
//	loop := scheduler.NewLoop()
//	loop.Start(ctx)
//	defer loop.Stop(ctx)
//
//	err := loop.Do(func() { subject.Next(4) })
//	loop.AfterFunc(time.Second, func() { ... })
package scheduler
