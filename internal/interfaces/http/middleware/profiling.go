package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled   bool
	SkipPaths []string
}

// DefaultProfilingConfig skips health checks and the metrics endpoint
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/metrics"},
	}
}

// ProfilingWithConfig tags each request's CPU samples with Pyroscope labels:
//   - controller: first path segment after /api (e.g. "orders")
//   - route: route pattern (e.g. "/api/orders/:id")
//   - method: HTTP method
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := map[string]string{
			telemetry.ProfilingLabelRoute:      route,
			telemetry.ProfilingLabelMethod:     c.Request.Method,
			telemetry.ProfilingLabelController: controllerOf(route),
		}

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerOf returns the resource segment of an API route:
// "/api/orders/:id" -> "orders", "/api/dashboard/stats" -> "dashboard".
func controllerOf(route string) string {
	rest := strings.TrimPrefix(route, "/api/")
	if rest == route {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
