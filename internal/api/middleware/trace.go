package middleware

import (
	"Lighthouse/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TraceMiddleware 沿用调用方的 X-Trace-ID，否则生成 http- 前缀的 trace_id
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if traceID := c.GetHeader("X-Trace-ID"); traceID != "" {
			ctx = logger.ContextWithTraceID(ctx, traceID)
		} else {
			ctx = logger.WithTrace(ctx, "http")
		}
		traceID := logger.TraceID(ctx)

		c.Set(logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Trace-ID", traceID)
		c.Next()
	}
}
