package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/opgate/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code, size and duration. Event streams also log how many
// flushes they delivered. Health-check paths are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := recordResponse(w)
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				"bytes":              rec.bytes,
				logger.FieldStatus:   rec.status,
				logger.FieldDuration: duration.Milliseconds(),
			}
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			switch {
			case rec.streaming():
				fields["flushes"] = rec.flushes
			case duration > 500*time.Millisecond:
				fields["slow"] = true
			}

			logByStatus(log, fields, rec.status)
		})
	}
}

func isHealthEndpoint(path string) bool {
	switch path {
	case "/health", "/alive", "/ready", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/api/") &&
		(strings.HasSuffix(path, "/health") || strings.HasSuffix(path, "/ready"))
}

// logByStatus logs request fields at the level matching the HTTP status code.
// If log is nil, the global logger is used.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
