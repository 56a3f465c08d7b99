package middleware

import (
	"activityhub-backend/internal/metrics"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, code).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, code).Observe(time.Since(start).Seconds())
	}
}
