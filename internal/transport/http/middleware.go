package httpt

import (
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := h.log.GenerateRequestID()
		ctx := h.log.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func (h *Handler) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		method := c.Request.Method
		path := c.Request.URL.Path

		h.log.Ctx(c.Request.Context()).Infow("HTTP request",
			"method", method,
			"path", path,
			"status", statusCode,
			"duration", latency.String(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		h.metrics.Request(method, path, statusCode, latency)

		if latency > 200*time.Millisecond {
			h.metrics.SlowRequest(method, path, statusCode, latency)
		}
	}
}
