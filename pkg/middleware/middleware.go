// Package middleware 提供 gin 中间件：日志、恢复、CORS、指标、追踪、熔断、响应缓存与依赖注入.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/pixels/pkg/internal/types"
	"github.com/yeisme/pixels/pkg/log"
)

// RecoveryMiddleware 恢复 panic，以统一信封返回 500.
func RecoveryMiddleware() gin.HandlerFunc {
	w := log.NewGinWriter(log.Logger(), zerolog.ErrorLevel)

	return gin.CustomRecoveryWithWriter(w, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.Fail("Internal server error.", nil))
	})
}
