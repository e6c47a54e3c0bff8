package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// pingTimeout bounds how long /alive waits for the scheduler loop.
const pingTimeout = 2 * time.Second

// Liveness reports whether the process can still make progress. With a
// dispatcher it round-trips an empty callback through the scheduler, so a
// wedged loop answers 503 instead of "alive".
func Liveness(serviceName string, d Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "alive",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if d != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			start := time.Now()
			if err := d.Ping(ctx); err != nil {
				body["status"] = "stalled"
				body["error"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			body["scheduler_latency_ms"] = float64(time.Since(start).Microseconds()) / 1000
		}
		c.JSON(http.StatusOK, body)
	}
}
