package testutil

import (
	"io"
	"testing"

	"github.com/kbukum/opgate/catalog"
	"github.com/kbukum/opgate/dispatch"
	"github.com/kbukum/opgate/logger"
	"github.com/kbukum/opgate/scheduler"
)

// NewEngine builds a dispatcher over the default catalog, wired to sched
// and writing to rec, and starts it for the duration of the test. When the
// scheduler is a component (scheduler.Loop) it is started first.
func NewEngine(t testing.TB, sched scheduler.Scheduler, rec *Recorder, initial string, opts ...dispatch.Option) *dispatch.Engine {
	t.Helper()
	cat, err := catalog.Default(catalog.DefaultParams())
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}

	base := []dispatch.Option{
		dispatch.WithInitialOperator(initial),
		dispatch.WithSink(rec),
		dispatch.WithLogger(Logger(io.Discard)),
	}
	eng, err := dispatch.NewEngine(cat, sched, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	if loop, ok := sched.(*scheduler.Loop); ok {
		T(t).Setup(loop, eng)
	} else {
		T(t).Setup(eng)
	}
	return eng
}

// Logger returns a JSON logger writing to w at debug level.
func Logger(w io.Writer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", w)
}
