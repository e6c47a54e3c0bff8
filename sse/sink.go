package sse

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/kbukum/opgate/dispatch"
	"github.com/kbukum/opgate/logger"
)

// RecordClientID returns a fresh client ID on the record topic.
func RecordClientID() string {
	return RecordTopic + ":" + uuid.NewString()
}

// RecordSink publishes dispatch log records to record clients.
type RecordSink struct {
	b   Broadcaster
	log *logger.Logger
}

var _ dispatch.Sink = (*RecordSink)(nil)

// NewRecordSink creates a sink broadcasting through b.
func NewRecordSink(b Broadcaster) *RecordSink {
	return &RecordSink{b: b, log: logger.WithComponent("sse")}
}

func (s *RecordSink) Write(rec dispatch.LogRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		s.log.Error("Encoding log record failed", logger.Fields(
			logger.FieldRecordID, rec.ID,
			logger.FieldError, err.Error(),
		))
		return
	}
	s.b.Broadcast(RecordPattern, EventTypeRecord, data)
}
