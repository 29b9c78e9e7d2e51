package monitoring

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Middleware logs every request, tags it with a request ID, and bumps the
// request counter.
func Middleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		metrics.IncrementRequests()

		c.Next()

		logger.RequestLogger(
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			requestID,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
