package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics reports the dispatcher counters next to goroutine and heap usage.
// The dispatcher section is omitted when d is nil.
func Metrics(d Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		body := gin.H{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"runtime": gin.H{
				"goroutines": runtime.NumGoroutine(),
				"heap_mb":    m.HeapAlloc / 1024 / 1024,
				"sys_mb":     m.Sys / 1024 / 1024,
				"gc_runs":    m.NumGC,
			},
		}
		if d != nil {
			body["dispatcher"] = d.Stats()
		}
		c.JSON(http.StatusOK, body)
	}
}
