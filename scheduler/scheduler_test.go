package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/opgate/component"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtual_FiresInDueOrder(t *testing.T) {
	v := NewVirtual(epoch)
	var got []int
	v.AfterFunc(3*time.Second, func() { got = append(got, 3) })
	v.AfterFunc(1*time.Second, func() { got = append(got, 1) })
	v.AfterFunc(2*time.Second, func() { got = append(got, 2) })

	v.Advance(2 * time.Second)
	if !intSliceEqual(got, []int{1, 2}) {
		t.Fatalf("after 2s got %v, want [1 2]", got)
	}
	v.Advance(time.Second)
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Fatalf("after 3s got %v, want [1 2 3]", got)
	}
	if !v.Now().Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("clock = %v, want %v", v.Now(), epoch.Add(3*time.Second))
	}
}

func TestVirtual_SameDueKeepsRegistrationOrder(t *testing.T) {
	v := NewVirtual(epoch)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		v.AfterFunc(time.Second, func() { got = append(got, i) })
	}
	v.Advance(time.Second)
	if !intSliceEqual(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("got %v, want [0 1 2 3 4]", got)
	}
}

func TestVirtual_Stop(t *testing.T) {
	v := NewVirtual(epoch)
	fired := false
	c := v.AfterFunc(time.Second, func() { fired = true })

	if !c.Stop() {
		t.Fatal("expected first Stop to report true")
	}
	if c.Stop() {
		t.Error("expected second Stop to report false")
	}
	v.Advance(time.Minute)
	if fired {
		t.Error("stopped timer fired")
	}
	if v.Pending() != 0 {
		t.Errorf("expected 0 pending, got %d", v.Pending())
	}
}

func TestVirtual_NestedTimersWithinWindow(t *testing.T) {
	v := NewVirtual(epoch)
	var at []time.Duration
	v.AfterFunc(time.Second, func() {
		at = append(at, v.Now().Sub(epoch))
		v.AfterFunc(time.Second, func() {
			at = append(at, v.Now().Sub(epoch))
		})
	})
	v.Advance(5 * time.Second)
	if len(at) != 2 || at[0] != time.Second || at[1] != 2*time.Second {
		t.Errorf("got %v, want [1s 2s]", at)
	}
}

func TestVirtual_StopAfterFire(t *testing.T) {
	v := NewVirtual(epoch)
	c := v.AfterFunc(time.Second, func() {})
	v.Advance(time.Second)
	if c.Stop() {
		t.Error("Stop after fire should report false")
	}
}

func TestLoop_DoRunsSerially(t *testing.T) {
	l := NewLoop()
	if err := l.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer l.Stop(context.Background())

	var mu sync.Mutex
	active, maxActive, total := 0, 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Do(func() {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()
				time.Sleep(100 * time.Microsecond)
				mu.Lock()
				active--
				total++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	if maxActive != 1 {
		t.Errorf("expected serial execution, saw %d concurrent callbacks", maxActive)
	}
	if total != 50 {
		t.Errorf("expected 50 callbacks, got %d", total)
	}
}

func TestLoop_AfterFuncRunsOnLoop(t *testing.T) {
	l := NewLoop()
	if err := l.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer l.Stop(context.Background())

	fired := make(chan struct{})
	l.AfterFunc(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoop_AfterFuncStop(t *testing.T) {
	l := NewLoop()
	if err := l.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer l.Stop(context.Background())

	fired := make(chan struct{}, 1)
	c := l.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })
	if !c.Stop() {
		t.Fatal("expected Stop to succeed before the timer fired")
	}

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestLoop_RecoversPanics(t *testing.T) {
	l := NewLoop()
	if err := l.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer l.Stop(context.Background())

	if err := l.Do(func() { panic("boom") }); err != nil {
		t.Fatalf("Do: %v", err)
	}

	ran := false
	l.Do(func() { ran = true })
	if !ran {
		t.Error("loop stopped executing after a panic")
	}
}

func TestLoop_DoFromCallbackIsRejected(t *testing.T) {
	l := NewLoop()
	if err := l.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer l.Stop(context.Background())

	inner := make(chan error, 2)
	returned := make(chan error, 1)
	go func() {
		returned <- l.Do(func() {
			inner <- l.Do(func() { t.Error("nested task ran") })
		})
	}()

	select {
	case err := <-returned:
		if err != nil {
			t.Fatalf("outer Do: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do from a callback deadlocked the loop")
	}
	if err := <-inner; err != ErrReentrant {
		t.Errorf("expected ErrReentrant, got %v", err)
	}

	l.AfterFunc(time.Millisecond, func() {
		inner <- l.Do(func() {})
	})
	select {
	case err := <-inner:
		if err != ErrReentrant {
			t.Errorf("timer callback: expected ErrReentrant, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timer callback never ran")
	}

	if err := l.Do(func() {}); err != nil {
		t.Errorf("Do from another goroutine: %v", err)
	}
}

func TestGoroutineID(t *testing.T) {
	here := goroutineID()
	if here == 0 {
		t.Fatal("expected a goroutine id")
	}
	other := make(chan uint64)
	go func() { other <- goroutineID() }()
	if id := <-other; id == 0 || id == here {
		t.Errorf("expected a distinct id, got %d and %d", here, id)
	}
}

func TestLoop_Lifecycle(t *testing.T) {
	l := NewLoop(WithQueueSize(4))
	if err := l.Stop(context.Background()); err != ErrNotRunning {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
	if err := l.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := l.Start(context.Background()); err != ErrAlreadyRunning {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
	if !l.Running() {
		t.Error("expected running loop")
	}
	if h := l.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy loop, got %s", h.Status)
	}
	if err := l.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}

	ran := false
	if err := l.Do(func() { ran = true }); err != ErrNotRunning {
		t.Errorf("expected ErrNotRunning from Do, got %v", err)
	}
	if ran {
		t.Error("Do on a stopped loop should drop the task")
	}
	if h := l.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy stopped loop, got %s", h.Status)
	}
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
