package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ins72/mewayz-9913-sub005/internal/response"
)

// InternalAPIKeyHeader carries the shared key on service-to-service calls
const InternalAPIKeyHeader = "X-Internal-Api-Key"

// InternalAuth guards routes called only by other services. An empty
// configured key disables the routes.
func InternalAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			response.AbortWithError(c, http.StatusServiceUnavailable, response.ErrCodeServiceUnavailable, "Internal API is not configured")
			return
		}

		provided := c.GetHeader(InternalAPIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid internal API key")
			return
		}

		c.Next()
	}
}
