package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/pixels/pkg/context"
	"github.com/yeisme/pixels/pkg/log"
)

// GinLoggerMiddleware 使用zerolog记录Gin请求日志的中间件.
func GinLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		logger := ctxPkg.WithTraceContext(c.Request.Context(), *log.Logger())

		event := logger.Info()
		switch {
		case statusCode >= 500:
			event = logger.Error()
		case statusCode >= 400:
			event = logger.Warn()
		}

		event = event.
			Int("status", statusCode).
			Dur("latency", latency).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("client_ip", c.ClientIP())

		if cache := c.Writer.Header().Get("X-Cache"); cache != "" {
			event = event.Str("cache", cache)
		}

		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.String())
		}

		event.Msg("HTTP request")
	}
}
