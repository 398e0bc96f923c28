// Package metrics 提供监控指标功能.
// 支持Prometheus标准，收集 HTTP 请求、图片目录领域事件与目录汇总指标.
//
// Example:
//
//	import "github.com/yeisme/pixels/pkg/metrics"
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// 记录指标
//	metrics.ObserveRequest("GET", "/api/images", 200, 0.01)
//	metrics.RecordImageEvent("liked")
package metrics

import (
	"net/http"
	"net/http/pprof"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/pixels/pkg/configs"
)

// 全局指标变量，InitMetrics 之前也可安全调用（仅不被导出）.
var (
	// RequestCounter HTTP请求计数器.
	RequestCounter *prometheus.CounterVec
	// RequestDuration HTTP请求持续时间.
	RequestDuration *prometheus.HistogramVec
	// ImageEvents 已消费的图片领域事件.
	ImageEvents *prometheus.CounterVec
	// CatalogImages 目录中的图片数.
	CatalogImages prometheus.Gauge
	// CatalogLikes 目录点赞总数.
	CatalogLikes prometheus.Gauge
	// CatalogViews 目录浏览总数.
	CatalogViews prometheus.Gauge

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
	initOnce sync.Once
	enabled  bool
)

func init() {
	build(configs.AppName, nil)
}

// build 按命名空间与常量标签创建所有指标.
func build(namespace string, labels map[string]string) {
	constLabels := prometheus.Labels(labels)

	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"method", "route"},
	)

	ImageEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "image_events_total",
			Help:        "Image domain events consumed from the message queue",
			ConstLabels: constLabels,
		},
		[]string{"event"},
	)

	newGauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "catalog",
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}

	CatalogImages = newGauge("images", "Number of images in the catalog")
	CatalogLikes = newGauge("likes", "Sum of likes over all images")
	CatalogViews = newGauge("views", "Sum of views over all images")
}

// InitMetrics 初始化Metrics，只生效一次.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	var err error

	initOnce.Do(func() {
		namespace := config.Namespace
		if namespace == "" {
			namespace = configs.AppName
		}

		build(namespace, config.Labels)

		// 注册标准收集器
		if config.RuntimeMetrics {
			if err = registry.Register(collectors.NewGoCollector()); err != nil {
				return
			}

			if err = registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
				return
			}
		}

		for _, c := range []prometheus.Collector{
			RequestCounter, RequestDuration, ImageEvents, CatalogImages, CatalogLikes, CatalogViews,
		} {
			if err = registry.Register(c); err != nil {
				return
			}
		}

		enabled = true
	})

	return err
}

// Enabled 指标是否已初始化.
func Enabled() bool { return enabled }

// GetRegistry 获取Prometheus注册表，消息队列与数据库指标也注册到这里.
func GetRegistry() *prometheus.Registry {
	return registry
}

// Handler 返回指标导出 handler，同时导出默认注册表中的指标.
func Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}

// Mount 在主服务上挂载指标端点与可选的 pprof.
func Mount(engine *gin.Engine, config configs.MetricsConfig) {
	if !config.Enabled {
		return
	}

	path := config.Path
	if path == "" {
		path = "/metrics"
	}

	engine.GET(path, gin.WrapH(Handler()))

	if config.Pprof {
		pp := engine.Group("/debug/pprof")
		pp.GET("/", gin.WrapF(pprof.Index))
		pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pp.GET("/profile", gin.WrapF(pprof.Profile))
		pp.GET("/symbol", gin.WrapF(pprof.Symbol))
		pp.GET("/trace", gin.WrapF(pprof.Trace))
		pp.GET("/:name", func(c *gin.Context) {
			pprof.Handler(c.Param("name")).ServeHTTP(c.Writer, c.Request)
		})
	}
}

// ObserveRequest 记录一次 HTTP 请求.
func ObserveRequest(method, route string, status int, seconds float64) {
	RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordImageEvent 记录一条已消费的图片事件.
func RecordImageEvent(event string) {
	ImageEvents.WithLabelValues(event).Inc()
}

// SetCatalog 刷新目录汇总指标.
func SetCatalog(images, likes, views int64) {
	CatalogImages.Set(float64(images))
	CatalogLikes.Set(float64(likes))
	CatalogViews.Set(float64(views))
}
