package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
)

// PrometheusMetrics records request count, latency and in-flight requests.
// A nil metrics set disables it.
func PrometheusMetrics(metrics *telemetry.HTTPMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		done := metrics.Begin()
		defer done()

		c.Next()

		metrics.Observe(c.Request.Method, getRoutePattern(c), c.Writer.Status(), time.Since(start))
	}
}

// getRoutePattern returns the matched route (e.g. "/api/orders/:id") so that
// ids never become label values
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}
