package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/pixels/pkg/configs"
)

// CORSMiddleware CORS中间件，未配置来源时允许任意来源.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	config := cors.DefaultConfig()

	if len(cfg.AllowOrigins) == 0 || cfg.Debug {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = cfg.AllowOrigins
	}

	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "If-None-Match", "X-Cache-Bypass"}
	config.ExposeHeaders = []string{"ETag", "X-Cache", "Age", "X-Trace-Id"}
	config.MaxAge = 12 * time.Hour

	return cors.New(config)
}
