package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/opgate/component"
)

// CleanupFunc stops whatever Setup started.
type CleanupFunc func() error

// Setup starts components in order and returns a cleanup function that stops
// them in reverse. If a component fails to start, the ones already started
// are stopped before the error is returned.
func Setup(components ...component.Component) (CleanupFunc, error) {
	return SetupWithContext(context.Background(), components...)
}

// SetupWithContext is Setup with a custom context.
func SetupWithContext(ctx context.Context, components ...component.Component) (CleanupFunc, error) {
	started := make([]component.Component, 0, len(components))
	stop := func() error {
		var first error
		for i := len(started) - 1; i >= 0; i-- {
			if err := started[i].Stop(ctx); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	for _, c := range components {
		if err := c.Start(ctx); err != nil {
			_ = stop()
			return nil, err
		}
		started = append(started, c)
	}
	return stop, nil
}

// THelper provides testing.T integration for easier test setup.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps a testing.TB to provide helper methods.
func T(t testing.TB) *THelper {
	return &THelper{
		t:   t,
		ctx: context.Background(),
	}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts the components and stops them in reverse order when the test
// ends.
func (h *THelper) Setup(components ...component.Component) {
	h.t.Helper()
	for _, c := range components {
		if err := c.Start(h.ctx); err != nil {
			h.t.Fatalf("failed to start component %s: %v", c.Name(), err)
		}
		h.t.Cleanup(func() {
			if err := c.Stop(h.ctx); err != nil {
				h.t.Errorf("failed to stop component %s: %v", c.Name(), err)
			}
		})
	}
}

// Reset resets a component to its initial state.
func (h *THelper) Reset(c TestComponent) {
	h.t.Helper()
	if err := c.Reset(h.ctx); err != nil {
		h.t.Fatalf("failed to reset component %s: %v", c.Name(), err)
	}
}

// Snapshot captures the current state of a component.
func (h *THelper) Snapshot(c TestComponent) interface{} {
	h.t.Helper()
	snapshot, err := c.Snapshot(h.ctx)
	if err != nil {
		h.t.Fatalf("failed to snapshot component %s: %v", c.Name(), err)
	}
	return snapshot
}

// Restore restores a component to a previously captured state.
func (h *THelper) Restore(c TestComponent, snapshot interface{}) {
	h.t.Helper()
	if err := c.Restore(h.ctx, snapshot); err != nil {
		h.t.Fatalf("failed to restore component %s: %v", c.Name(), err)
	}
}
