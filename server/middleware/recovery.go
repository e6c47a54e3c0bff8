package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/opgate/errors"
	"github.com/kbukum/opgate/logger"
)

// Recovery returns middleware that recovers from panics, logs the stack and
// answers with a structured 500.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("Panic recovered", map[string]interface{}{
					"error":               fmt.Sprintf("%v", rec),
					"stack":               string(debug.Stack()),
					"path":                r.URL.Path,
					"method":              r.Method,
					logger.FieldRequestID: r.Header.Get(HeaderRequestID),
				})
				writeAppError(w, errors.Internal(fmt.Errorf("panic: %v", rec)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
