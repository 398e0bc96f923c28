// Package api 组装 HTTP 引擎：全局中间件、图片目录路由与运维路由.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/pixels/pkg/cache"
	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/handle"
	"github.com/yeisme/pixels/pkg/internal/router"
	"github.com/yeisme/pixels/pkg/internal/service"
	"github.com/yeisme/pixels/pkg/internal/storage"
	"github.com/yeisme/pixels/pkg/internal/store"
	"github.com/yeisme/pixels/pkg/metrics"
	"github.com/yeisme/pixels/pkg/middleware"
	"github.com/yeisme/pixels/pkg/scheduler"
)

// Banner GET / 返回的文本.
const Banner = "Pixels Gallery API"

// Server 持有引擎与业务组件，便于 app 层注册定时任务.
type Server struct {
	Engine *gin.Engine
	Store  *store.ImageStore
	Images *service.ImageService
	Cache  *cache.Cache
}

type options struct {
	scheduler *scheduler.Scheduler
}

// Option 调整 Server 组装.
type Option func(*options)

// WithScheduler 在调试模式下暴露调度器管理路由.
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// New 基于已初始化的存储组装 HTTP 服务.
func New(ctx context.Context, cfg *configs.AppConfig, mgr *storage.Manager, opts ...Option) (*Server, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if mgr == nil || mgr.DB == nil || mgr.KV == nil || mgr.MQ == nil {
		return nil, errors.New("api: storage manager is incomplete")
	}

	st := store.NewImageStore(mgr.DB.DB)
	if cfg.DB.AutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	appCache := cache.NewCache(mgr.KV.KVStore)

	images := service.NewImageService(st,
		service.WithPublisher(mgr.MQ.Publisher()),
		service.WithCache(appCache),
		service.WithEvents(cfg.Events),
	)

	var presigner service.Presigner
	if mgr.S3 != nil {
		presigner = mgr.S3
	}

	uploads := service.NewUploadService(cfg.Upload, presigner, cfg.S3.MaxUploadBytes)

	// 追踪先于日志，日志才能带上 trace_id
	chain := []gin.HandlerFunc{middleware.RecoveryMiddleware()}
	if cfg.Tracing.Enabled {
		chain = append(chain, middleware.TracingMiddleware())
	}

	chain = append(chain, middleware.GinLoggerMiddleware())
	if metrics.Enabled() {
		chain = append(chain, middleware.PrometheusMiddleware())
	}

	chain = append(chain,
		middleware.CORSMiddleware(cfg.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.StorageMiddleware(mgr),
	)

	engine := gin.New()
	engine.Use(chain...)

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Banner)
	})

	apiGroup := engine.Group("/api")
	if cfg.CircuitBreaker.Enabled {
		apiGroup.Use(middleware.CircuitBreakerMiddleware(cfg.CircuitBreaker))
	}

	var listMW []gin.HandlerFunc
	if cfg.Cache.Enabled {
		listMW = append(listMW, middleware.CacheMiddleware(
			middleware.CacheConfigFrom(appCache, cfg.Cache, service.CacheNamespace)))
	}

	router.RegisterImages(apiGroup, handle.NewImageHandlers(images), listMW...)
	router.RegisterUploads(apiGroup, handle.NewUploadHandlers(uploads))
	router.RegisterHealthCheckRoute(apiGroup)

	metrics.Mount(engine, cfg.Metrics)
	router.RegisterSwaggerRoute(engine, cfg.Server)

	if cfg.Server.Debug && o.scheduler != nil {
		sched := apiGroup.Group("", middleware.SchedulerMiddleware(o.scheduler))
		router.RegisterSchedulerRoutes(sched)
	}

	return &Server{Engine: engine, Store: st, Images: images, Cache: appCache}, nil
}
