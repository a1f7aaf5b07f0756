package middleware

import (
	"time"

	"household-economy/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIdHeader = "X-Request-Id"

// RequestLoggerMiddleware tags every request with an id and writes one
// access-log line per request. Client-supplied ids are kept so calls can
// be traced across services.
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(requestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Set("requestId", requestId)
		c.Header(requestIdHeader, requestId)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		logger.Debugf("%s %s %d %s rid=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), elapsed, requestId)
	}
}
