package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"room-relay-service/internal/metrics"
)

// Metrics returns a middleware that records HTTP metrics
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics and health endpoints
		if metrics.ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		m.RequestStarted()
		defer m.RequestFinished()

		start := time.Now()
		c.Next()

		endpoint := c.FullPath() // route pattern, not the raw path
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
