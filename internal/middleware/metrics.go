package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
)

// Metrics returns a middleware that records HTTP metrics
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		m.RecordHTTPRequest(
			c.Request.Method,
			c.FullPath(), // route pattern keeps label cardinality bounded
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
