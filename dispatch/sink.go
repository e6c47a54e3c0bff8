package dispatch

import (
	"fmt"
	"io"
	"sync"

	"github.com/kbukum/opgate/logger"
)

// Sink receives every log record the reporter produces. Write is called
// on the scheduler timeline and must not block on it. A sink must not call
// back into the Engine: on a scheduler.Loop, SubmitValue and Complete from
// inside Write fail with scheduler.ErrReentrant.
type Sink interface {
	Write(rec LogRecord)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(LogRecord)

// Write calls f(rec).
func (f SinkFunc) Write(rec LogRecord) { f(rec) }

// LoggerSink writes records through a structured logger.
type LoggerSink struct {
	log *logger.Logger
}

// NewLoggerSink creates a sink writing to log, or to the "reporter"
// component logger when log is nil.
func NewLoggerSink(log *logger.Logger) *LoggerSink {
	if log == nil {
		log = logger.WithComponent("reporter")
	}
	return &LoggerSink{log: log}
}

func (s *LoggerSink) Write(rec LogRecord) {
	s.log.Info(rec.Format(), logger.Fields(
		logger.FieldRecordID, rec.ID,
		logger.FieldOperator, rec.Operator,
		logger.FieldPipeline, rec.Pipeline,
		logger.FieldBefore, rec.Before,
		logger.FieldAfter, FormatValue(rec.After),
	))
}

// WriterSink writes formatted records, separated by blank lines, to an
// io.Writer such as the console.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Write(rec LogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s\n\n", rec.Format())
}

// MultiSink fans a record out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Write(rec LogRecord) {
	for _, s := range m {
		s.Write(rec)
	}
}
