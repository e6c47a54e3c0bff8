package pipeline

// Map transforms each value using fn. An error from fn terminates the
// stream with that error.
func Map[I, O any](s *Stream[I], fn func(I) (O, error)) *Stream[O] {
	return New(func(down *Subscriber[O]) {
		subscribeTo(s, down, Observer[I]{
			Next: func(v I) {
				out, err := fn(v)
				if err != nil {
					down.Error(err)
					return
				}
				down.Next(out)
			},
		})
	})
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](s *Stream[T], fn func(T) bool) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		subscribeTo(s, down, Observer[T]{
			Next: func(v T) {
				if fn(v) {
					down.Next(v)
				}
			},
		})
	})
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
// An error from fn terminates the stream.
func Tap[T any](s *Stream[T], fn func(T) error) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		subscribeTo(s, down, Observer[T]{
			Next: func(v T) {
				if err := fn(v); err != nil {
					down.Error(err)
					return
				}
				down.Next(v)
			},
		})
	})
}

// DistinctUntilChanged drops values equal to the previously emitted value.
func DistinctUntilChanged[T comparable](s *Stream[T]) *Stream[T] {
	return DistinctUntilChangedFunc(s, func(a, b T) bool { return a == b })
}

// DistinctUntilChangedFunc drops values that eq reports equal to the
// previously emitted value.
func DistinctUntilChangedFunc[T any](s *Stream[T], eq func(prev, next T) bool) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		var last T
		seen := false
		subscribeTo(s, down, Observer[T]{
			Next: func(v T) {
				if seen && eq(last, v) {
					return
				}
				last, seen = v, true
				down.Next(v)
			},
		})
	})
}

// Take forwards the first n values, then completes and unsubscribes
// from the source.
func Take[T any](s *Stream[T], n int) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		if n <= 0 {
			down.Complete()
			return
		}
		count := 0
		subscribeTo(s, down, Observer[T]{
			Next: func(v T) {
				if count >= n {
					return
				}
				count++
				down.Next(v)
				if count == n {
					down.Complete()
				}
			},
		})
	})
}

// Skip drops the first n values and forwards the rest.
func Skip[T any](s *Stream[T], n int) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		skipped := 0
		subscribeTo(s, down, Observer[T]{
			Next: func(v T) {
				if skipped < n {
					skipped++
					return
				}
				down.Next(v)
			},
		})
	})
}

// CatchError replaces a source error with the stream returned by fn.
func CatchError[T any](s *Stream[T], fn func(error) *Stream[T]) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		subscribeTo(s, down, Observer[T]{
			Next: down.Next,
			Error: func(err error) {
				if down.Closed() {
					return
				}
				subscribeTo(fn(err), down, Observer[T]{Next: down.Next})
			},
		})
	})
}

// Finalize calls fn exactly once when the subscription terminates,
// whether by completion, error or unsubscription.
func Finalize[T any](s *Stream[T], fn func()) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		subscribeTo(s, down, Observer[T]{Next: down.Next})
		down.Add(fn)
	})
}

// WithLatestFrom combines each source value with the most recent value of
// other. Source values arriving before other has emitted are dropped.
// Completion of other does not complete the result.
func WithLatestFrom[T, U, R any](s *Stream[T], other *Stream[U], combine func(T, U) R) *Stream[R] {
	return New(func(down *Subscriber[R]) {
		var latest U
		has := false
		subscribeTo(other, down, Observer[U]{
			Next: func(u U) {
				latest, has = u, true
			},
			Complete: func() {},
		})
		if down.Closed() {
			return
		}
		subscribeTo(s, down, Observer[T]{
			Next: func(v T) {
				if !has {
					return
				}
				down.Next(combine(v, latest))
			},
		})
	})
}

// MergeMap maps each value to an inner stream and merges every inner
// stream's values. The result completes once the source and all inner
// streams have completed.
func MergeMap[I, O any](s *Stream[I], fn func(I) *Stream[O]) *Stream[O] {
	return New(func(down *Subscriber[O]) {
		active := 0
		outerDone := false
		subscribeTo(s, down, Observer[I]{
			Next: func(v I) {
				active++
				subscribeTo(fn(v), down, Observer[O]{
					Next: down.Next,
					Complete: func() {
						active--
						if outerDone && active == 0 {
							down.Complete()
						}
					},
				})
			},
			Complete: func() {
				outerDone = true
				if active == 0 {
					down.Complete()
				}
			},
		})
	})
}

// SwitchMap maps each value to an inner stream, unsubscribing from the
// previous inner stream first. Only the latest inner stream emits.
func SwitchMap[I, O any](s *Stream[I], fn func(I) *Stream[O]) *Stream[O] {
	return New(func(down *Subscriber[O]) {
		var inner *Subscription
		gen := 0
		innerActive := false
		outerDone := false
		subscribeTo(s, down, Observer[I]{
			Next: func(v I) {
				if inner != nil {
					inner.Unsubscribe()
					inner = nil
				}
				gen++
				mine := gen
				innerActive = true
				sub := subscribeTo(fn(v), down, Observer[O]{
					Next: down.Next,
					Complete: func() {
						if mine != gen {
							return
						}
						innerActive = false
						inner = nil
						if outerDone {
							down.Complete()
						}
					},
				})
				if mine == gen && innerActive {
					inner = sub
				}
			},
			Complete: func() {
				outerDone = true
				if !innerActive {
					down.Complete()
				}
			},
		})
	})
}

// Merge combines several streams. The result completes once all of them
// have completed.
func Merge[T any](streams ...*Stream[T]) *Stream[T] {
	return New(func(down *Subscriber[T]) {
		remaining := len(streams)
		if remaining == 0 {
			down.Complete()
			return
		}
		for _, s := range streams {
			if down.Closed() {
				return
			}
			subscribeTo(s, down, Observer[T]{
				Next: down.Next,
				Complete: func() {
					remaining--
					if remaining == 0 {
						down.Complete()
					}
				},
			})
		}
	})
}
