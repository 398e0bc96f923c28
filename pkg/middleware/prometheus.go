package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/pixels/pkg/metrics"
)

// PrometheusMiddleware Prometheus监控中间件，以路由模板作为标签避免基数膨胀.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 执行下一个中间件/处理器
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
