package middleware

import (
	"net/http"
	"strings"
)

// responseRecorder tracks what a handler sent so RequestLogger can report
// it. For the /api/logs event stream every flush pushes one batch of
// records, so flushes doubles as a delivery count.
type responseRecorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	flushes int
	started bool
}

func recordResponse(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rr *responseRecorder) WriteHeader(code int) {
	if !rr.started {
		rr.status = code
		rr.started = true
	}
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	rr.started = true
	n, err := rr.ResponseWriter.Write(b)
	rr.bytes += n
	return n, err
}

// Flush forwards to the underlying writer when it can flush; the SSE hub
// depends on it.
func (rr *responseRecorder) Flush() {
	if f, ok := rr.ResponseWriter.(http.Flusher); ok {
		rr.flushes++
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the original writer.
func (rr *responseRecorder) Unwrap() http.ResponseWriter {
	return rr.ResponseWriter
}

// streaming reports whether the response is a server-sent event stream.
func (rr *responseRecorder) streaming() bool {
	return strings.HasPrefix(rr.Header().Get("Content-Type"), "text/event-stream")
}
