package dispatch

import (
	"fmt"
	"time"

	"github.com/kbukum/opgate/catalog"
	"github.com/kbukum/opgate/errors"
	"github.com/kbukum/opgate/logger"
	"github.com/kbukum/opgate/pipeline"
	"github.com/kbukum/opgate/scheduler"
)

// Runner turns a gated stream into the output stream of one catalog entry.
type Runner struct {
	sched scheduler.Scheduler
	log   *logger.Logger
}

// NewRunner creates a runner whose timed operators run on sched.
func NewRunner(sched scheduler.Scheduler, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.WithComponent("runner")
	}
	return &Runner{sched: sched, log: log}
}

// Run applies the operator described by d to gated. Numeric operators work
// on Event.Input, the submitted value.
func (r *Runner) Run(gated *pipeline.Stream[Event], d catalog.Descriptor) (*pipeline.Stream[Event], error) {
	switch s := d.Spec.(type) {
	case catalog.MapSpec:
		return pipeline.Map(gated, func(e Event) (Event, error) {
			return e.with(e.Input * s.Factor), nil
		}), nil

	case catalog.FilterSpec:
		return pipeline.Filter(gated, func(e Event) bool {
			return e.Input > s.Threshold
		}), nil

	case catalog.MergeMapSpec:
		return pipeline.MergeMap(gated, func(e Event) *pipeline.Stream[Event] {
			return r.project(e, s.Factor, s.Delay)
		}), nil

	case catalog.SwitchMapSpec:
		return pipeline.SwitchMap(gated, func(e Event) *pipeline.Stream[Event] {
			return r.project(e, s.Factor, s.Delay)
		}), nil

	case catalog.DelaySpec:
		return pipeline.Delay(gated, r.sched, s.Duration), nil

	case catalog.DebounceSpec:
		return pipeline.Debounce(gated, r.sched, s.Window), nil

	case catalog.DistinctSpec:
		return pipeline.DistinctUntilChangedFunc(gated, func(prev, next Event) bool {
			return prev.Input == next.Input
		}), nil

	case catalog.PluckSpec:
		return pipeline.Map(gated, func(e Event) (Event, error) {
			return e.with(s.Record[s.Key]), nil
		}), nil

	case catalog.TapSpec:
		return pipeline.Tap(gated, func(e Event) error {
			r.log.Info(s.Message, logger.Fields(
				logger.FieldPipeline, d.Name,
				logger.FieldBefore, FormatValue(e.Input),
			))
			return nil
		}), nil

	case catalog.TakeSpec:
		return pipeline.Take(gated, s.Count), nil

	case catalog.SkipSpec:
		return pipeline.Skip(gated, s.Count), nil

	case catalog.CatchErrorSpec:
		return pipeline.MergeMap(gated, func(e Event) *pipeline.Stream[Event] {
			failing := pipeline.Throw[Event](errors.SimulatedFailure(e.Input))
			return pipeline.CatchError(failing, func(err error) *pipeline.Stream[Event] {
				r.log.Debug("caught operator error", logger.Fields(
					logger.FieldPipeline, d.Name,
					logger.FieldError, err.Error(),
				))
				return pipeline.Of(e.with(s.Message))
			})
		}), nil

	case catalog.FinalizeSpec:
		return pipeline.Finalize(gated, func() {
			r.log.Info(s.Message, logger.Fields(logger.FieldPipeline, d.Name))
		}), nil

	case catalog.WithLatestFromSpec:
		return pipeline.WithLatestFrom(gated, r.auxiliary(s.Value, s.Delay), func(e Event, latest any) Event {
			return e.with(Pair{Value: e.Input, Latest: latest})
		}), nil

	default:
		return nil, errors.Internal(fmt.Errorf("no runner for operator %q with spec %T", d.Name, d.Spec))
	}
}

// project emits factor*e.Input once delay has passed.
func (r *Runner) project(e Event, factor float64, delay time.Duration) *pipeline.Stream[Event] {
	return pipeline.Delay(pipeline.Of(e.with(e.Input*factor)), r.sched, delay)
}

// auxiliary is the one-shot source withLatestFrom samples.
func (r *Runner) auxiliary(value any, delay time.Duration) *pipeline.Stream[any] {
	src := pipeline.Of(value)
	if delay <= 0 {
		return src
	}
	return pipeline.Delay(src, r.sched, delay)
}
