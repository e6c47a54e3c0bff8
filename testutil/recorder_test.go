package testutil_test

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/opgate/dispatch"
	"github.com/kbukum/opgate/scheduler"
	"github.com/kbukum/opgate/testutil"
)

func TestRecorderSnapshotRestore(t *testing.T) {
	rec := testutil.NewRecorder()
	h := testutil.T(t)
	h.Setup(rec)

	rec.Write(dispatch.LogRecord{Operator: "map", Before: 1, After: 5.0})
	snap := h.Snapshot(rec)

	rec.Write(dispatch.LogRecord{Operator: "map", Before: 2, After: 10.0})
	if rec.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rec.Len())
	}

	h.Restore(rec, snap)
	if got := rec.Afters(); len(got) != 1 || got[0] != "5" {
		t.Errorf("Afters() after restore = %v, want [5]", got)
	}

	h.Reset(rec)
	if rec.Len() != 0 {
		t.Errorf("Len() after reset = %d, want 0", rec.Len())
	}

	if err := rec.Restore(context.Background(), "nope"); err == nil {
		t.Error("Restore() with wrong type should fail")
	}
}

func TestRecorderWait(t *testing.T) {
	rec := testutil.NewRecorder()
	go func() {
		time.Sleep(10 * time.Millisecond)
		rec.Write(dispatch.LogRecord{Operator: "map"})
	}()

	got, err := rec.Wait(1, time.Second)
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Wait() returned %d records, want 1", len(got))
	}

	if _, err := rec.Wait(5, 20*time.Millisecond); err == nil {
		t.Error("Wait() should time out")
	}
}

func TestNewEngineVirtual(t *testing.T) {
	clock := scheduler.NewVirtual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rec := testutil.NewRecorder()
	eng := testutil.NewEngine(t, clock, rec, "map")

	if err := eng.SubmitValue(context.Background(), 4); err != nil {
		t.Fatalf("SubmitValue: %v", err)
	}
	if got := rec.Afters(); len(got) != 1 || got[0] != "20" {
		t.Errorf("Afters() = %v, want [20]", got)
	}
}

func TestNewEngineLoop(t *testing.T) {
	rec := testutil.NewRecorder()
	eng := testutil.NewEngine(t, scheduler.NewLoop(), rec, "filter")

	for _, v := range []float64{0, 1, 2, 3} {
		if err := eng.SubmitValue(context.Background(), v); err != nil {
			t.Fatalf("SubmitValue(%v): %v", v, err)
		}
	}
	recs, err := rec.Wait(2, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].Before != 2 || recs[1].Before != 3 {
		t.Errorf("records = %+v, want BEFORE 2 then 3", recs)
	}
}
