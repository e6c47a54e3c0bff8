package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// Virtual is a manually advanced Scheduler for deterministic tests.
// Do runs inline; timers fire only inside Advance.
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers timerHeap
}

// NewVirtual creates a Virtual scheduler whose clock starts at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Do runs fn immediately.
func (v *Virtual) Do(fn func()) error {
	fn()
	return nil
}

// AfterFunc registers fn to fire once the clock reaches now+d.
func (v *Virtual) AfterFunc(d time.Duration, fn func()) Cancel {
	v.mu.Lock()
	defer v.mu.Unlock()

	tok := &token{}
	v.seq++
	heap.Push(&v.timers, &virtualTimer{
		due: v.now.Add(d),
		seq: v.seq,
		fn:  fn,
		tok: tok,
	})
	return tok
}

// Advance moves the clock forward by d, firing every timer that comes due
// in (due, registration) order. Timers scheduled by fired callbacks also
// fire if they fall inside the window.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		if len(v.timers) == 0 || v.timers[0].due.After(target) {
			v.now = target
			v.mu.Unlock()
			return
		}
		t := heap.Pop(&v.timers).(*virtualTimer)
		v.now = t.due
		v.mu.Unlock()

		if t.tok.claim() {
			t.fn()
		}
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, t := range v.timers {
		if !t.tok.fired.Load() {
			n++
		}
	}
	return n
}

type virtualTimer struct {
	due time.Time
	seq uint64
	fn  func()
	tok *token
}

type timerHeap []*virtualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*virtualTimer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
