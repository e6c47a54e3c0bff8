package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/opgate/catalog"
	"github.com/kbukum/opgate/component"
	"github.com/kbukum/opgate/errors"
	"github.com/kbukum/opgate/logger"
	"github.com/kbukum/opgate/observability"
	"github.com/kbukum/opgate/pipeline"
	"github.com/kbukum/opgate/scheduler"
	"github.com/kbukum/opgate/validation"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	initial string
	sinks   []Sink
	metrics *observability.DispatchMetrics
	log     *logger.Logger
}

// WithInitialOperator sets the selection at startup. Defaults to the first
// catalog entry.
func WithInitialOperator(name string) Option {
	return func(o *options) { o.initial = name }
}

// WithSink adds a destination for log records. Without any sink records go
// to the "reporter" logger.
func WithSink(s Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithMetrics records dispatch metrics.
func WithMetrics(m *observability.DispatchMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Engine owns the event source, the selection and one gated pipeline per
// catalog entry. Pipelines are subscribed by Start and released by Stop.
type Engine struct {
	catalog   *catalog.Catalog
	sched     scheduler.Scheduler
	source    *pipeline.Subject[Event]
	selection *Selection
	outputs   []*pipeline.Stream[Event]
	reporter  *Reporter
	metrics   *observability.DispatchMetrics
	log       *logger.Logger
	counts    counters

	mu   sync.Mutex
	subs []*pipeline.Subscription
}

// ensure Engine satisfies component.Component.
var _ component.Component = (*Engine)(nil)

// NewEngine builds the pipelines of every entry in cat. No value flows
// until Start subscribes them.
func NewEngine(cat *catalog.Catalog, sched scheduler.Scheduler, opts ...Option) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, errors.InvalidInput("catalog", "must contain at least one operator")
	}
	if sched == nil {
		return nil, errors.MissingField("scheduler")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("dispatcher")
	}
	if o.initial == "" {
		first, _ := cat.First()
		o.initial = first.Name
	}
	if !cat.Contains(o.initial) {
		return nil, errors.UnknownOperator(o.initial)
	}

	var sink Sink
	switch len(o.sinks) {
	case 0:
		sink = NewLoggerSink(nil)
	case 1:
		sink = o.sinks[0]
	default:
		sink = MultiSink(o.sinks)
	}

	e := &Engine{
		catalog:   cat,
		sched:     sched,
		source:    pipeline.NewSubject[Event](),
		selection: NewSelection(o.initial),
		metrics:   o.metrics,
		log:       o.log,
	}
	e.reporter = NewReporter(e.selection, sink, sched.Now, o.metrics)
	e.reporter.counts = &e.counts

	router := NewRouter(e.source.Stream(), e.selection, o.metrics)
	router.counts = &e.counts
	runner := NewRunner(sched, o.log)
	for _, d := range cat.All() {
		out, err := runner.Run(router.Gate(d.Name), d)
		if err != nil {
			return nil, err
		}
		e.outputs = append(e.outputs, out)
	}
	return e, nil
}

// Name returns the component name.
func (e *Engine) Name() string { return "dispatcher" }

// Start subscribes every pipeline to the event source and the reporter.
func (e *Engine) Start(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs != nil {
		return nil
	}

	descs := e.catalog.All()
	subs := make([]*pipeline.Subscription, 0, len(descs))
	err := e.sched.Do(func() {
		for i, d := range descs {
			name := d.Name
			subs = append(subs, e.outputs[i].Subscribe(pipeline.Observer[Event]{
				Next: func(ev Event) { e.reporter.Report(name, ev) },
				Error: func(err error) {
					e.log.Error("Pipeline failed", logger.Fields(
						logger.FieldPipeline, name,
						logger.FieldError, err.Error(),
					))
				},
				Complete: func() {
					e.log.Debug("Pipeline completed", logger.Fields(logger.FieldPipeline, name))
				},
			}))
		}
	})
	if err != nil {
		return errors.ServiceUnavailable("scheduler").WithCause(err)
	}
	e.subs = subs
	e.log.Info("Dispatcher started", logger.Fields(
		"operators", len(descs),
		logger.FieldOperator, e.selection.Current(),
	))
	return nil
}

// Stop unsubscribes every pipeline. Pending timed values are dropped and
// finalize callbacks run.
func (e *Engine) Stop(_ context.Context) error {
	e.mu.Lock()
	subs := e.subs
	e.subs = nil
	e.mu.Unlock()
	if subs == nil {
		return nil
	}

	err := e.sched.Do(func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	})
	if err != nil {
		return errors.ServiceUnavailable("scheduler").WithCause(err)
	}
	e.log.Info("Dispatcher stopped")
	return nil
}

// Health reports whether the pipelines are subscribed and accepting values.
func (e *Engine) Health(_ context.Context) component.Health {
	h := component.Health{Name: e.Name(), Status: component.StatusHealthy}
	switch {
	case !e.started():
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case e.Completed():
		h.Status = component.StatusDegraded
		h.Message = "event source completed"
	}
	return h
}

// Describe returns a summary for the startup log.
func (e *Engine) Describe() component.Description {
	return component.Description{
		Name:    "Dispatcher",
		Type:    "dispatcher",
		Details: fmt.Sprintf("operators=%d initial=%s", e.catalog.Len(), e.selection.Current()),
	}
}

// SelectOperator makes name the active operator for subsequent values.
// Values already in flight are not rerouted.
func (e *Engine) SelectOperator(ctx context.Context, name string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanSelect)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrOperator, name)

	if err := validation.Check().OperatorName(name).Err(); err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}
	if !e.catalog.Contains(name) {
		err := errors.UnknownOperator(name)
		observability.SetSpanError(ctx, err)
		return err
	}

	prev := e.selection.Set(name)
	if prev != name {
		e.counts.selections.Add(1)
		e.metrics.RecordSelectionChange(ctx, name)
		e.log.Info("Operator selected", logger.Fields(
			logger.FieldOperator, name,
			"previous", prev,
		))
	}
	return nil
}

// SubmitValue pushes v into the event source. It returns once every
// synchronous pipeline has handled v. After Complete it returns a
// SourceCompleted error and drops v.
func (e *Engine) SubmitValue(ctx context.Context, v float64) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanSubmit)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrValue, v)

	if err := validation.Check().Value(v).Err(); err != nil {
		e.counts.rejected.Add(1)
		observability.SetSpanError(ctx, err)
		return err
	}
	if !e.started() {
		err := errors.ServiceUnavailable("dispatcher")
		observability.SetSpanError(ctx, err)
		return err
	}

	completed := false
	err := e.sched.Do(func() {
		if e.source.Closed() {
			completed = true
			return
		}
		e.source.Next(Event{Input: v, Value: v, SubmittedAt: e.sched.Now()})
	})
	if err != nil {
		appErr := errors.ServiceUnavailable("scheduler").WithCause(err)
		observability.SetSpanError(ctx, appErr)
		return appErr
	}
	if completed {
		e.counts.dropped.Add(1)
		e.metrics.RecordDropped(ctx)
		err := errors.SourceCompleted()
		observability.SetSpanError(ctx, err)
		return err
	}
	e.counts.submitted.Add(1)
	e.metrics.RecordSubmitted(ctx)
	return nil
}

// Complete terminates the event source. Pipelines flush pending timed
// values and complete; finalize callbacks run once.
func (e *Engine) Complete(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanComplete)
	defer span.End()

	already := false
	err := e.sched.Do(func() {
		if e.source.Closed() {
			already = true
			return
		}
		e.source.Complete()
	})
	if err != nil {
		appErr := errors.ServiceUnavailable("scheduler").WithCause(err)
		observability.SetSpanError(ctx, appErr)
		return appErr
	}
	if already {
		return errors.SourceCompleted()
	}
	e.log.Info("Event source completed")
	return nil
}

// Completed reports whether Complete has run.
func (e *Engine) Completed() bool {
	return e.source.Closed()
}

// OperatorNames returns the catalog names in order.
func (e *Engine) OperatorNames() []string {
	return e.catalog.Names()
}

// Descriptors returns the catalog entries in order.
func (e *Engine) Descriptors() []catalog.Descriptor {
	return e.catalog.All()
}

// Selected returns the descriptor of the active operator.
func (e *Engine) Selected() catalog.Descriptor {
	d, _ := e.catalog.Describe(e.selection.Current())
	return d
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Selected:         e.selection.Current(),
		Completed:        e.Completed(),
		Operators:        e.catalog.Len(),
		Submitted:        e.counts.submitted.Load(),
		Rejected:         e.counts.rejected.Load(),
		Dropped:          e.counts.dropped.Load(),
		Gated:            e.counts.gated.Load(),
		Reported:         e.counts.reported.Load(),
		SelectionChanges: e.counts.selections.Load(),
	}
}

// Ping waits until the scheduler runs an empty callback. It fails when the
// scheduler is stopped or does not answer before ctx ends.
func (e *Engine) Ping(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- e.sched.Do(func() {}) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subs != nil
}
