package catalog

import "time"

// Kind enumerates the operator kinds a Spec can describe.
type Kind int

const (
	KindMap Kind = iota
	KindFilter
	KindMergeMap
	KindSwitchMap
	KindDelay
	KindDebounce
	KindDistinct
	KindPluck
	KindTap
	KindTake
	KindSkip
	KindCatchError
	KindFinalize
	KindWithLatestFrom
)

var kindNames = [...]string{
	KindMap:            "map",
	KindFilter:         "filter",
	KindMergeMap:       "mergeMap",
	KindSwitchMap:      "switchMap",
	KindDelay:          "delay",
	KindDebounce:       "debounceTime",
	KindDistinct:       "distinctUntilChanged",
	KindPluck:          "pluck",
	KindTap:            "tap",
	KindTake:           "take",
	KindSkip:           "skip",
	KindCatchError:     "catchError",
	KindFinalize:       "finalize",
	KindWithLatestFrom: "withLatestFrom",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Mode is the execution mode a kind declares.
type Mode int

const (
	// ModePure emits synchronously on the caller's invocation, if at all.
	ModePure Mode = iota
	// ModeTimed suspends values on the scheduler before emitting.
	ModeTimed
	// ModeBuffering holds state across values (counts, previous value, latest auxiliary value).
	ModeBuffering
	// ModeErrorInjecting raises and recovers a failure per value.
	ModeErrorInjecting
)

func (m Mode) String() string {
	switch m {
	case ModePure:
		return "pure"
	case ModeTimed:
		return "timed"
	case ModeBuffering:
		return "buffering"
	case ModeErrorInjecting:
		return "error-injecting"
	default:
		return "unknown"
	}
}

// Spec is the per-kind configuration of an operator. The set of
// implementations is closed to this package.
type Spec interface {
	Kind() Kind
	Mode() Mode
	spec()
}

// MapSpec scales every value by Factor.
type MapSpec struct {
	Factor float64
}

// FilterSpec passes values strictly greater than Threshold.
type FilterSpec struct {
	Threshold float64
}

// MergeMapSpec projects each value to Factor*value after Delay; projections overlap.
type MergeMapSpec struct {
	Factor float64
	Delay  time.Duration
}

// SwitchMapSpec projects like MergeMapSpec but a new value cancels the pending projection.
type SwitchMapSpec struct {
	Factor float64
	Delay  time.Duration
}

// DelaySpec shifts every value by Duration, preserving order.
type DelaySpec struct {
	Duration time.Duration
}

// DebounceSpec emits the last value of a burst once Window passes without input.
type DebounceSpec struct {
	Window time.Duration
}

// DistinctSpec drops values equal to the previous surviving value.
type DistinctSpec struct{}

// PluckSpec replaces each value with Record[Key].
type PluckSpec struct {
	Record map[string]any
	Key    string
}

// TapSpec logs Message before forwarding each value unchanged.
type TapSpec struct {
	Message string
}

// TakeSpec forwards the first Count values, then terminates.
type TakeSpec struct {
	Count int
}

// SkipSpec drops the first Count values.
type SkipSpec struct {
	Count int
}

// CatchErrorSpec fails every value and forwards Message in its place.
type CatchErrorSpec struct {
	Message string
}

// FinalizeSpec forwards values unchanged and logs Message once on termination.
type FinalizeSpec struct {
	Message string
}

// WithLatestFromSpec pairs each value with the latest value of an auxiliary
// source that emits Value after Delay.
type WithLatestFromSpec struct {
	Value any
	Delay time.Duration
}

func (MapSpec) Kind() Kind            { return KindMap }
func (FilterSpec) Kind() Kind         { return KindFilter }
func (MergeMapSpec) Kind() Kind       { return KindMergeMap }
func (SwitchMapSpec) Kind() Kind      { return KindSwitchMap }
func (DelaySpec) Kind() Kind          { return KindDelay }
func (DebounceSpec) Kind() Kind       { return KindDebounce }
func (DistinctSpec) Kind() Kind       { return KindDistinct }
func (PluckSpec) Kind() Kind          { return KindPluck }
func (TapSpec) Kind() Kind            { return KindTap }
func (TakeSpec) Kind() Kind           { return KindTake }
func (SkipSpec) Kind() Kind           { return KindSkip }
func (CatchErrorSpec) Kind() Kind     { return KindCatchError }
func (FinalizeSpec) Kind() Kind       { return KindFinalize }
func (WithLatestFromSpec) Kind() Kind { return KindWithLatestFrom }

func (MapSpec) Mode() Mode            { return ModePure }
func (FilterSpec) Mode() Mode         { return ModePure }
func (MergeMapSpec) Mode() Mode       { return ModeTimed }
func (SwitchMapSpec) Mode() Mode      { return ModeTimed }
func (DelaySpec) Mode() Mode          { return ModeTimed }
func (DebounceSpec) Mode() Mode       { return ModeTimed }
func (DistinctSpec) Mode() Mode       { return ModeBuffering }
func (PluckSpec) Mode() Mode          { return ModePure }
func (TapSpec) Mode() Mode            { return ModePure }
func (TakeSpec) Mode() Mode           { return ModeBuffering }
func (SkipSpec) Mode() Mode           { return ModeBuffering }
func (CatchErrorSpec) Mode() Mode     { return ModeErrorInjecting }
func (FinalizeSpec) Mode() Mode       { return ModePure }
func (WithLatestFromSpec) Mode() Mode { return ModeTimed }

func (MapSpec) spec()            {}
func (FilterSpec) spec()         {}
func (MergeMapSpec) spec()       {}
func (SwitchMapSpec) spec()      {}
func (DelaySpec) spec()          {}
func (DebounceSpec) spec()       {}
func (DistinctSpec) spec()       {}
func (PluckSpec) spec()          {}
func (TapSpec) spec()            {}
func (TakeSpec) spec()           {}
func (SkipSpec) spec()           {}
func (CatchErrorSpec) spec()     {}
func (FinalizeSpec) spec()       {}
func (WithLatestFromSpec) spec() {}
