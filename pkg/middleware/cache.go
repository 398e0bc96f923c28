package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	appcache "github.com/yeisme/pixels/pkg/cache"
	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/log"
)

const (
	DefaultMaxBodyBytes   = 1 << 20 // 1MB
	defaultKeyBuilderGrow = 64      // 为 key builder 预分配容量
	defaultTTL            = 30 * time.Second
)

// skippedHeaders 不随缓存条目保存的响应头，由外层中间件按请求重新设置.
var skippedHeaders = map[string]struct{}{
	"Content-Encoding": {},
	"Content-Length":   {},
	"Vary":             {},
	"X-Cache":          {},
	"X-Trace-Id":       {},
	"Date":             {},
}

// CacheConfig 缓存中间件配置.
type CacheConfig struct {
	Cache   *appcache.Cache                       // 必须: 业务注入的 Cache 实例
	TTL     time.Duration                         // 默认 TTL
	TTLFunc func(*gin.Context, int) time.Duration // 可选: 按请求/状态动态 TTL

	// Namespace 非空时缓存键包含该命名空间的当前代数，写操作 Bump 后旧条目不再命中
	Namespace string

	Methods     []string // 允许缓存的 HTTP 方法 (默认 GET,HEAD)
	StatusCodes []int    // 允许缓存的响应状态码 (默认 200)

	KeyFunc     func(*gin.Context) string // 生成缓存键
	Skipper     func(*gin.Context) bool   // 返回 true 跳过缓存
	VaryHeaders []string                  // 参与 Key 的 Header 列表

	RespectCacheControl bool   // 若为 true 且响应含 no-store/private 则不缓存
	BypassHeader        string // 请求头存在该 header(任意值) 则跳过缓存, 默认: X-Cache-Bypass

	MaxBodyBytes int // 缓存响应体最大字节 (0=不限制)
}

// DefaultCacheConfig 返回一份默认配置.
func DefaultCacheConfig(c *appcache.Cache) CacheConfig {
	return CacheConfig{
		Cache:               c,
		TTL:                 defaultTTL,
		Methods:             []string{"GET", "HEAD"},
		StatusCodes:         []int{http.StatusOK},
		BypassHeader:        "X-Cache-Bypass",
		MaxBodyBytes:        DefaultMaxBodyBytes,
		RespectCacheControl: true,
	}
}

// CacheConfigFrom 按应用配置构造中间件配置.
func CacheConfigFrom(c *appcache.Cache, cfg configs.CacheConfig, namespace string) CacheConfig {
	mc := DefaultCacheConfig(c)
	mc.Namespace = namespace

	if cfg.TTL > 0 {
		mc.TTL = cfg.TTL
	}

	mc.MaxBodyBytes = cfg.MaxBodyBytes

	return mc
}

// CacheMiddleware 构造响应缓存中间件:
//  1. 基于 cache.Cache 注入的 KV（内存或分布式），条目以 sonic 序列化
//  2. 支持 ETag / If-None-Match, Cache-Control: no-store/private/max-age, X-Cache 命中标记
//  3. 按命名空间代数整体失效
//  4. 任何缓存失败不影响主流程
//
// 使用示例:
//
//	c := cache.NewCache(kvStore)
//	cfg := middleware.DefaultCacheConfig(c)
//	cfg.Namespace = "images"
//	group.GET("", middleware.CacheMiddleware(cfg), handler)
func CacheMiddleware(cfg CacheConfig) gin.HandlerFunc {
	if cfg.Cache == nil {
		panic("CacheMiddleware: Cache cannot be nil")
	}

	if len(cfg.Methods) == 0 {
		cfg.Methods = []string{"GET", "HEAD"}
	}

	if len(cfg.StatusCodes) == 0 {
		cfg.StatusCodes = []int{http.StatusOK}
	}

	if cfg.KeyFunc == nil {
		vary := append([]string(nil), cfg.VaryHeaders...)
		sort.Strings(vary)
		cfg.KeyFunc = func(c *gin.Context) string { return buildDefaultKey(c, vary) }
	}

	if cfg.BypassHeader == "" {
		cfg.BypassHeader = "X-Cache-Bypass"
	}

	methodSet := buildMethodSet(cfg.Methods)
	statusSet := buildStatusSet(cfg.StatusCodes)

	return func(c *gin.Context) {
		if shouldBypass(c, cfg, methodSet) {
			c.Next()
			return
		}

		key, ok := resolveKey(c, cfg)
		if !ok {
			c.Next()
			return
		}

		if serveFromCache(c, cfg, key) {
			return
		}

		c.Header("X-Cache", "MISS")

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer, max: cfg.MaxBodyBytes}
		c.Writer = bw
		c.Next()
		processAndStore(c, cfg, key, bw, statusSet)
	}
}

// resolveKey 计算最终缓存键；读取代数失败时返回 false 并跳过缓存.
func resolveKey(c *gin.Context, cfg CacheConfig) (string, bool) {
	key := cfg.KeyFunc(c)
	if cfg.Namespace == "" {
		return key, true
	}

	gen, err := cfg.Cache.Generation(c.Request.Context(), cfg.Namespace)
	if err != nil {
		l := log.Logger()
		l.Warn().Err(err).Str("namespace", cfg.Namespace).Msg("cache generation unavailable, bypassing cache")

		return "", false
	}

	return cfg.Namespace + ":" + strconv.FormatInt(gen, 10) + ":" + key, true
}

// responseCacheEntry 序列化存储结构.
type responseCacheEntry struct {
	Status   int               `json:"s"`
	Header   map[string]string `json:"h,omitempty"`
	Body     []byte            `json:"b,omitempty"`
	ETag     string            `json:"e,omitempty"`
	StoredAt int64             `json:"t"` // unix nano, 用于 Age
}

// buildDefaultKey 方法 + 请求路径 + 规范化 query + vary headers，取 xxhash.
// query 经 url.Values.Encode 排序并转义，重复参数保持各自独立.
// 示例原文: "GET:/api/images?search=sky&tags=a&tags=b|hv=Accept=application%2Fjson".
func buildDefaultKey(c *gin.Context, vary []string) string {
	var b strings.Builder
	b.Grow(defaultKeyBuilderGrow)

	b.WriteString(c.Request.Method)
	b.WriteByte(':')
	b.WriteString(c.Request.URL.EscapedPath())

	if q := c.Request.URL.Query(); len(q) > 0 {
		b.WriteByte('?')
		b.WriteString(q.Encode())
	}

	if len(vary) > 0 {
		hv := make(url.Values, len(vary))
		for _, h := range vary {
			hv.Set(h, c.GetHeader(h))
		}

		b.WriteString("|hv=")
		b.WriteString(hv.Encode())
	}

	return fmt.Sprintf("rc:%x", xxhash.Sum64String(b.String()))
}

// bodyCaptureWriter 包装响应写入用于捕获 body.
type bodyCaptureWriter struct {
	gin.ResponseWriter

	buf       bytes.Buffer
	max       int
	truncated bool
}

// Write 捕获响应体, 超过上限后只透传不再捕获.
func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	switch {
	case w.truncated:
	case w.max > 0 && w.buf.Len()+len(b) > w.max:
		w.truncated = true
	default:
		w.buf.Write(b)
	}

	return w.ResponseWriter.Write(b)
}

// WriteString gin 的 c.String 走这里.
func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func buildMethodSet(methods []string) map[string]struct{} {
	ms := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		ms[strings.ToUpper(m)] = struct{}{}
	}

	return ms
}

func buildStatusSet(statuses []int) map[int]struct{} {
	ss := make(map[int]struct{}, len(statuses))
	for _, s := range statuses {
		ss[s] = struct{}{}
	}

	return ss
}

// shouldBypass 检查是否应跳过缓存.
func shouldBypass(c *gin.Context, cfg CacheConfig, methodSet map[string]struct{}) bool {
	if cfg.Skipper != nil && cfg.Skipper(c) {
		return true
	}

	if _, ok := methodSet[c.Request.Method]; !ok {
		return true
	}

	return cfg.BypassHeader != "" && c.GetHeader(cfg.BypassHeader) != ""
}

// serveFromCache 尝试从缓存提供响应; 成功返回 true.
func serveFromCache(c *gin.Context, cfg CacheConfig, key string) bool {
	entry, err := appcache.Get[responseCacheEntry](c.Request.Context(), cfg.Cache, key)
	if err != nil {
		return false
	}

	h := c.Writer.Header()
	for k, v := range entry.Header {
		h.Set(k, v)
	}

	if entry.ETag != "" {
		h.Set("ETag", entry.ETag)
	}

	age := time.Since(time.Unix(0, entry.StoredAt)).Seconds()
	h.Set("Age", fmt.Sprintf("%.0f", age))
	h.Set("X-Cache", "HIT")

	if entry.ETag != "" && c.GetHeader("If-None-Match") == entry.ETag {
		c.Status(http.StatusNotModified)
		c.Writer.WriteHeaderNow()
		c.Abort()

		return true
	}

	c.Status(entry.Status)

	if c.Request.Method != http.MethodHead {
		_, _ = c.Writer.Write(entry.Body)
	}

	c.Abort()

	return true
}

// parseCacheControlTTL 解析 Cache-Control; 返回 (覆写TTL, 是否允许缓存).
func parseCacheControlTTL(h http.Header) (time.Duration, bool) {
	cc := h.Get("Cache-Control")
	if cc == "" {
		return 0, true
	}

	lower := strings.ToLower(cc)
	if strings.Contains(lower, "no-store") || strings.Contains(lower, "private") {
		return 0, false
	}

	if idx := strings.Index(lower, "max-age="); idx >= 0 {
		part := lower[idx+len("max-age="):]
		if cidx := strings.Index(part, ","); cidx >= 0 {
			part = part[:cidx]
		}

		if secs, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second, true
		}
	}

	return 0, true
}

// processAndStore 处理响应并同步写入缓存.
func processAndStore(c *gin.Context, cfg CacheConfig, key string, bw *bodyCaptureWriter, statusSet map[int]struct{}) {
	status := c.Writer.Status()
	if _, ok := statusSet[status]; !ok || bw.truncated {
		return
	}

	ttl := cfg.TTL
	if cfg.RespectCacheControl {
		override, ok := parseCacheControlTTL(c.Writer.Header())
		if !ok {
			return
		}

		if override > 0 {
			ttl = override
		}
	}

	if cfg.TTLFunc != nil {
		ttl = cfg.TTLFunc(c, status)
	}

	if ttl <= 0 {
		return
	}

	body := bw.buf.Bytes()
	hdr := make(map[string]string)

	for k, v := range c.Writer.Header() {
		if _, skip := skippedHeaders[k]; skip || len(v) == 0 {
			continue
		}

		hdr[k] = v[0]
	}

	etag := c.Writer.Header().Get("ETag")
	if etag == "" {
		etag = fmt.Sprintf("\"%x\"", xxhash.Sum64(body))
	}

	entry := responseCacheEntry{Status: status, Header: hdr, Body: body, ETag: etag, StoredAt: time.Now().UnixNano()}

	// 请求结束后 ctx 会被取消，写缓存不随之中断
	ctx := context.WithoutCancel(c.Request.Context())
	if err := appcache.Set(ctx, cfg.Cache, key, entry, ttl); err != nil {
		l := log.Logger()
		l.Warn().Err(err).Msg("failed to store cached response")
	}
}
