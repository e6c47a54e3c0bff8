package dispatch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Event is one submitted value on its way through a pipeline.
type Event struct {
	// Input is the value originally submitted. It is reported as BEFORE.
	Input float64
	// Value is the current value. After the pipeline it is reported as AFTER.
	Value any
	// SubmittedAt is the scheduler time the value entered the event source.
	SubmittedAt time.Time
}

func (e Event) with(v any) Event {
	e.Value = v
	return e
}

// Pair is the combined output of withLatestFrom.
type Pair struct {
	Value  any
	Latest any
}

func (p Pair) String() string {
	return FormatValue(p.Value) + "," + FormatValue(p.Latest)
}

// MarshalJSON encodes the pair as a two-element array.
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Value, p.Latest})
}

// FormatValue renders a value the way log records print it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "undefined"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
