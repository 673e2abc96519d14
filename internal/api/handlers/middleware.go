package routes

import (
	"time"

	"geocover/internal/logger"
	"geocover/internal/util"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key and the response header of the request id.
const RequestIDKey = "X-Request-ID"

// RequestID tags every request with the incoming X-Request-ID or a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDKey)
		if id == "" || len(id) > 64 {
			id = util.ShortUUID()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDKey, id)
		c.Next()
	}
}

// AccessLog writes one structured record per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.L().Info("http_request",
			"request_id", c.GetString(RequestIDKey),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
