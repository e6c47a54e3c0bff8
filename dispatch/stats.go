package dispatch

import "sync/atomic"

// Stats is a snapshot of dispatcher activity since NewEngine.
type Stats struct {
	Selected  string `json:"selected"`
	Completed bool   `json:"completed"`
	Operators int    `json:"operators"`
	// Submitted counts values accepted into the event source.
	Submitted uint64 `json:"submitted"`
	// Rejected counts values refused before reaching the source.
	Rejected uint64 `json:"rejected"`
	// Dropped counts values submitted after Complete.
	Dropped uint64 `json:"dropped"`
	// Gated counts values that passed a router gate.
	Gated uint64 `json:"gated"`
	// Reported counts emitted log records.
	Reported         uint64 `json:"reported"`
	SelectionChanges uint64 `json:"selection_changes"`
}

// counters back Stats.
type counters struct {
	submitted  atomic.Uint64
	rejected   atomic.Uint64
	dropped    atomic.Uint64
	gated      atomic.Uint64
	reported   atomic.Uint64
	selections atomic.Uint64
}
