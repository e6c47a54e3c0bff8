package dispatch

import (
	"context"

	"github.com/kbukum/opgate/observability"
	"github.com/kbukum/opgate/pipeline"
)

// Router derives one gated sub-stream of the event source per operator.
type Router struct {
	source    *pipeline.Stream[Event]
	selection *Selection
	metrics   *observability.DispatchMetrics
	counts    *counters
}

// NewRouter creates a router over source. metrics may be nil.
func NewRouter(source *pipeline.Stream[Event], selection *Selection, metrics *observability.DispatchMetrics) *Router {
	return &Router{source: source, selection: selection, metrics: metrics}
}

// Gate returns the events that arrive while name is selected. The
// selection is read for every event.
func (r *Router) Gate(name string) *pipeline.Stream[Event] {
	return pipeline.Filter(r.source, func(Event) bool {
		if !r.selection.Is(name) {
			return false
		}
		r.metrics.RecordGated(context.Background(), name)
		if r.counts != nil {
			r.counts.gated.Add(1)
		}
		return true
	})
}
