package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/opgate/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// ServiceInfo identifies the running service.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// Info returns a handler that reports service identity and uptime.
func Info(info ServiceInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     info.Name,
			"version":     info.Version,
			"environment": info.Environment,
			"build":       version.Get().Short(),
			"go_version":  runtime.Version(),
			"uptime":      time.Since(startTime).String(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
