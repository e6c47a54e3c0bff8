package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/opgate/component"
	"github.com/kbukum/opgate/dispatch"
)

// Recorder is a dispatch.Sink that keeps every record it receives.
// It is safe for use from the scheduler goroutine and the test goroutine.
type Recorder struct {
	mu      sync.Mutex
	records []dispatch.LogRecord
	changed chan struct{}
}

var (
	_ dispatch.Sink = (*Recorder)(nil)
	_ TestComponent = (*Recorder)(nil)
)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{changed: make(chan struct{})}
}

// Write appends rec and wakes any Wait callers.
func (r *Recorder) Write(rec dispatch.LogRecord) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	close(r.changed)
	r.changed = make(chan struct{})
	r.mu.Unlock()
}

// Records returns a copy of the captured records.
func (r *Recorder) Records() []dispatch.LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dispatch.LogRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Afters returns the formatted AFTER value of each captured record.
func (r *Recorder) Afters() []string {
	recs := r.Records()
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = dispatch.FormatValue(rec.After)
	}
	return out
}

// Len returns the number of captured records.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Wait blocks until at least n records were captured or timeout elapses.
func (r *Recorder) Wait(n int, timeout time.Duration) ([]dispatch.LogRecord, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		r.mu.Lock()
		if len(r.records) >= n {
			out := make([]dispatch.LogRecord, len(r.records))
			copy(out, r.records)
			r.mu.Unlock()
			return out, nil
		}
		changed := r.changed
		got := len(r.records)
		r.mu.Unlock()

		select {
		case <-changed:
		case <-deadline.C:
			return nil, fmt.Errorf("waited %s for %d records, got %d", timeout, n, got)
		}
	}
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) Start(_ context.Context) error { return nil }

func (r *Recorder) Stop(_ context.Context) error { return nil }

func (r *Recorder) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    r.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d records", r.Len()),
	}
}

// Reset drops every captured record.
func (r *Recorder) Reset(_ context.Context) error {
	r.mu.Lock()
	r.records = nil
	r.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the captured records.
func (r *Recorder) Snapshot(_ context.Context) (interface{}, error) {
	return r.Records(), nil
}

// Restore replaces the captured records with a Snapshot result.
func (r *Recorder) Restore(_ context.Context, snapshot interface{}) error {
	recs, ok := snapshot.([]dispatch.LogRecord)
	if !ok {
		return fmt.Errorf("recorder: unexpected snapshot type %T", snapshot)
	}
	r.mu.Lock()
	r.records = append([]dispatch.LogRecord(nil), recs...)
	r.mu.Unlock()
	return nil
}
