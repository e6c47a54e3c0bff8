package pipeline

import "sync"

// Observer receives the notifications of one subscription.
// Nil callbacks are ignored.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Stream is a lazy, push-based sequence of values.
// No work happens until Subscribe is called.
type Stream[T any] struct {
	subscribe func(sub *Subscriber[T])
}

// New creates a stream from a subscribe function. The function pushes
// values into sub and registers teardown logic with sub.Add.
func New[T any](subscribe func(sub *Subscriber[T])) *Stream[T] {
	return &Stream[T]{subscribe: subscribe}
}

// Subscribe starts the stream, delivering notifications to obs.
func (s *Stream[T]) Subscribe(obs Observer[T]) *Subscription {
	sub := newSubscriber(obs)
	s.subscribe(sub)
	return sub.Subscription
}

// Subscription is the handle of one running subscription.
type Subscription struct {
	closed    bool
	teardowns []func()
	children  []*Subscription
}

// Add registers fn to run when the subscription closes.
// If it is already closed fn runs immediately.
func (s *Subscription) Add(fn func()) {
	if s.closed {
		fn()
		return
	}
	s.teardowns = append(s.teardowns, fn)
}

// Unsubscribe closes the subscription, unsubscribes its upstream children
// and then runs its teardowns in registration order. Safe to call multiple
// times.
func (s *Subscription) Unsubscribe() {
	if s.closed {
		return
	}
	s.closed = true
	children := s.children
	s.children = nil
	for _, c := range children {
		c.Unsubscribe()
	}
	teardowns := s.teardowns
	s.teardowns = nil
	for _, fn := range teardowns {
		fn()
	}
}

// addChild ties child to s: unsubscribing s unsubscribes child, and child
// is released as soon as it closes on its own.
func (s *Subscription) addChild(child *Subscription) {
	if child.closed {
		return
	}
	if s.closed {
		child.Unsubscribe()
		return
	}
	s.children = append(s.children, child)
	child.teardowns = append(child.teardowns, func() { s.removeChild(child) })
}

func (s *Subscription) removeChild(child *Subscription) {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// Closed reports whether the subscription has terminated.
func (s *Subscription) Closed() bool { return s.closed }

// Subscriber is the sending side of a subscription. Once it has
// delivered Error or Complete, or has been unsubscribed, further
// notifications are dropped.
type Subscriber[T any] struct {
	*Subscription
	obs     Observer[T]
	stopped bool
}

func newSubscriber[T any](obs Observer[T]) *Subscriber[T] {
	return &Subscriber[T]{Subscription: &Subscription{}, obs: obs}
}

// Next delivers a value.
func (s *Subscriber[T]) Next(v T) {
	if s.stopped || s.closed {
		return
	}
	if s.obs.Next != nil {
		s.obs.Next(v)
	}
}

// Error delivers a terminal error and closes the subscription.
func (s *Subscriber[T]) Error(err error) {
	if s.stopped || s.closed {
		return
	}
	s.stopped = true
	if s.obs.Error != nil {
		s.obs.Error(err)
	}
	s.Unsubscribe()
}

// Complete delivers completion and closes the subscription.
func (s *Subscriber[T]) Complete() {
	if s.stopped || s.closed {
		return
	}
	s.stopped = true
	if s.obs.Complete != nil {
		s.obs.Complete()
	}
	s.Unsubscribe()
}

// subscribeTo subscribes down's operator logic to src. Error and Complete
// default to forwarding into down, and unsubscribing down also
// unsubscribes src.
func subscribeTo[T, O any](src *Stream[T], down *Subscriber[O], obs Observer[T]) *Subscription {
	if obs.Error == nil {
		obs.Error = down.Error
	}
	if obs.Complete == nil {
		obs.Complete = down.Complete
	}
	up := src.Subscribe(obs)
	down.addChild(up)
	return up
}

// --- Constructors ---

// Of creates a stream that emits items synchronously then completes.
func Of[T any](items ...T) *Stream[T] {
	return New(func(sub *Subscriber[T]) {
		for _, item := range items {
			if sub.Closed() {
				return
			}
			sub.Next(item)
		}
		sub.Complete()
	})
}

// Throw creates a stream that fails with err on subscription.
func Throw[T any](err error) *Stream[T] {
	return New(func(sub *Subscriber[T]) {
		sub.Error(err)
	})
}

// Empty creates a stream that completes immediately.
func Empty[T any]() *Stream[T] {
	return New(func(sub *Subscriber[T]) {
		sub.Complete()
	})
}

// --- Subject ---

// Subject is a hot, multicast source. Values passed to Next reach every
// current subscriber; late subscribers do not see earlier values.
type Subject[T any] struct {
	mu     sync.Mutex
	subs   []*Subscriber[T]
	done   bool
	err    error
	stream *Stream[T]
}

// NewSubject creates an open Subject.
func NewSubject[T any]() *Subject[T] {
	s := &Subject[T]{}
	s.stream = New(s.add)
	return s
}

// Stream returns the subscribable side of the subject.
func (s *Subject[T]) Stream() *Stream[T] { return s.stream }

// Next pushes v to every subscriber. It is a no-op after Complete or Error.
func (s *Subject[T]) Next(v T) {
	for _, sub := range s.snapshot() {
		sub.Next(v)
	}
}

// Error terminates the subject with err.
func (s *Subject[T]) Error(err error) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.err = err
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Error(err)
	}
}

// Complete terminates the subject.
func (s *Subject[T]) Complete() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Complete()
	}
}

// Closed reports whether Complete or Error has been called.
func (s *Subject[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Observers returns the number of live subscribers.
func (s *Subject[T]) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Subject[T]) snapshot() []*Subscriber[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	out := make([]*Subscriber[T], len(s.subs))
	copy(out, s.subs)
	return out
}

func (s *Subject[T]) add(sub *Subscriber[T]) {
	s.mu.Lock()
	if s.done {
		err := s.err
		s.mu.Unlock()
		if err != nil {
			sub.Error(err)
		} else {
			sub.Complete()
		}
		return
	}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	sub.Add(func() { s.remove(sub) })
}

func (s *Subject[T]) remove(sub *Subscriber[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.subs {
		if existing == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
