package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/opgate/component"
	"github.com/kbukum/opgate/dispatch"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Dispatcher is the view of the dispatch engine the system endpoints report.
type Dispatcher interface {
	Stats() dispatch.Stats
	Ping(ctx context.Context) error
}

// rollup folds component statuses into one. Unhealthy wins over degraded.
func rollup(components []component.Health) component.HealthStatus {
	status := component.StatusHealthy
	for _, ch := range components {
		switch ch.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy
		case component.StatusDegraded:
			status = component.StatusDegraded
		}
	}
	return status
}

// Health reports the rolled-up component status and, when d is set, the
// active operator and whether the event source has completed. A completed
// source degrades the service; it can no longer accept values.
func Health(serviceName string, checker HealthChecker, d Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var components []component.Health
		if checker != nil {
			components = checker(c.Request.Context())
		}
		status := rollup(components)

		body := gin.H{
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		}
		if d != nil {
			st := d.Stats()
			if st.Completed && status == component.StatusHealthy {
				status = component.StatusDegraded
			}
			body["dispatcher"] = gin.H{
				"selected":  st.Selected,
				"completed": st.Completed,
			}
		}
		body["status"] = status

		httpStatus := http.StatusOK
		if status == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, body)
	}
}
