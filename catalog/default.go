package catalog

import "time"

// Params holds the arguments of the stock operators.
type Params struct {
	MapFactor       float64
	FilterThreshold float64

	// ProjectFactor and ProjectDelay drive the inner streams of mergeMap and switchMap.
	ProjectFactor float64
	ProjectDelay  time.Duration

	DelayDuration  time.Duration
	DebounceWindow time.Duration

	TakeCount int
	SkipCount int

	// PluckRecord is the fixed object pluck projects PluckKey from.
	PluckRecord map[string]any
	PluckKey    string

	AuxiliaryValue string
	AuxiliaryDelay time.Duration

	TapMessage      string
	FinalizeMessage string
	CatchMessage    string
}

// DefaultParams returns the arguments of the stock catalog.
func DefaultParams() Params {
	return Params{
		MapFactor:       5,
		FilterThreshold: 1,
		ProjectFactor:   3,
		ProjectDelay:    time.Second,
		DelayDuration:   2 * time.Second,
		DebounceWindow:  time.Second,
		TakeCount:       3,
		SkipCount:       3,
		PluckRecord:     map[string]any{"name": "Brian", "age": float64(29)},
		PluckKey:        "age",
		AuxiliaryValue:  "BRLG",
		TapMessage:      "do something not affecting the stream!",
		FinalizeMessage: `think "finally" in try/catches!`,
		CatchMessage:    "simulated error!",
	}
}

// Default builds the stock fourteen-operator catalog from p.
func Default(p Params) (*Catalog, error) {
	return New(
		Descriptor{Name: "map", Label: "map(fn)", Spec: MapSpec{Factor: p.MapFactor}},
		Descriptor{Name: "filter", Label: "filter(fn)", Spec: FilterSpec{Threshold: p.FilterThreshold}},
		Descriptor{Name: "mergeMap", Label: "mergeMap(fn)", Spec: MergeMapSpec{Factor: p.ProjectFactor, Delay: p.ProjectDelay}},
		Descriptor{Name: "switchMap", Label: "switchMap(fn)", Spec: SwitchMapSpec{Factor: p.ProjectFactor, Delay: p.ProjectDelay}},
		Descriptor{Name: "delay", Label: "delay(number)", Spec: DelaySpec{Duration: p.DelayDuration}},
		Descriptor{Name: "debounceTime", Label: "debounceTime(number)", Spec: DebounceSpec{Window: p.DebounceWindow}},
		Descriptor{Name: "distinctUntilChanged", Label: "distinctUntilChanged()", Spec: DistinctSpec{}},
		Descriptor{Name: "pluck", Label: "pluck(keyOfObject)", Spec: PluckSpec{Record: p.PluckRecord, Key: p.PluckKey}},
		Descriptor{Name: "tap", Label: "tap(fn)", Spec: TapSpec{Message: p.TapMessage}},
		Descriptor{Name: "take", Label: "take(number)", Spec: TakeSpec{Count: p.TakeCount}},
		Descriptor{Name: "skip", Label: "skip(number)", Spec: SkipSpec{Count: p.SkipCount}},
		Descriptor{Name: "catchError", Label: "catchError(fn)", Spec: CatchErrorSpec{Message: p.CatchMessage}},
		Descriptor{Name: "finalize", Label: "finalize(fn)", Spec: FinalizeSpec{Message: p.FinalizeMessage}},
		Descriptor{Name: "withLatestFrom", Label: "withLatestFrom(observable$)", Spec: WithLatestFromSpec{
			Value: p.AuxiliaryValue,
			Delay: p.AuxiliaryDelay,
		}},
	)
}
