package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/opgate/observability"
)

// TimestampLayout is the ISO-8601 layout used in formatted records.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// LogRecord describes one value that survived a pipeline.
type LogRecord struct {
	ID string `json:"id"`
	// Operator is the name of the selection current at report time.
	Operator string `json:"operator"`
	// Pipeline is the catalog name of the pipeline that produced After.
	Pipeline  string    `json:"pipeline"`
	Before    float64   `json:"before"`
	After     any       `json:"after"`
	Timestamp time.Time `json:"timestamp"`
}

// Format renders the record as the four-line text block:
//
//	-- {operator} Operator --
//	BEFORE: {before}
//	AFTER: {after}
//	timestamp: {iso timestamp}
func (r LogRecord) Format() string {
	return fmt.Sprintf("-- %s Operator --\nBEFORE: %s\nAFTER: %s\ntimestamp: %s",
		r.Operator,
		FormatValue(r.Before),
		FormatValue(r.After),
		r.Timestamp.UTC().Format(TimestampLayout),
	)
}

func (r LogRecord) String() string { return r.Format() }

// Reporter turns pipeline outputs into log records and hands them to a sink.
type Reporter struct {
	selection *Selection
	sink      Sink
	now       func() time.Time
	metrics   *observability.DispatchMetrics
	counts    *counters
}

// NewReporter creates a reporter. now supplies record timestamps; metrics
// may be nil.
func NewReporter(selection *Selection, sink Sink, now func() time.Time, metrics *observability.DispatchMetrics) *Reporter {
	return &Reporter{selection: selection, sink: sink, now: now, metrics: metrics}
}

// Report emits one record for e, produced by pipeline. The record is
// labeled with the current selection, not with pipeline.
func (r *Reporter) Report(pipeline string, e Event) LogRecord {
	rec := LogRecord{
		ID:        uuid.NewString(),
		Operator:  r.selection.Current(),
		Pipeline:  pipeline,
		Before:    e.Input,
		After:     e.Value,
		Timestamp: r.now(),
	}
	r.sink.Write(rec)
	if r.counts != nil {
		r.counts.reported.Add(1)
	}

	var latency time.Duration
	if !e.SubmittedAt.IsZero() {
		latency = rec.Timestamp.Sub(e.SubmittedAt)
	}
	r.metrics.RecordReported(context.Background(), pipeline, latency)
	return rec
}
