package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultCacheEnabled      = true
	DefaultCacheTTL          = 30 * time.Second
	DefaultCacheMaxBodyBytes = 1 << 20 // 1MB
)

// CacheConfig 图片列表 HTTP 响应缓存配置，底层使用 kv.
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	TTL          time.Duration `mapstructure:"ttl"`
	MaxBodyBytes int           `mapstructure:"max_body_bytes" rule:"min=0"`
}

func (c *CacheConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", DefaultCacheEnabled)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.max_body_bytes", DefaultCacheMaxBodyBytes)
}
