package sse

// SSE event names.
const (
	// EventTypeConnected is sent when a client successfully connects.
	EventTypeConnected = "connected"

	// EventTypeRecord carries one dispatch log record as JSON.
	EventTypeRecord = "record"

	// EventTypeSelection is sent when the active operator changes.
	EventTypeSelection = "selection"

	// EventTypeCompleted is sent once the event source completes.
	EventTypeCompleted = "completed"
)

// RecordTopic prefixes the IDs of clients streaming log records.
const RecordTopic = "records"

// RecordPattern matches every record client.
const RecordPattern = RecordTopic + ":*"
