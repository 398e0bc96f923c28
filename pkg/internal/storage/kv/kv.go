// Package kv 提供键值存储接口与多种实现，用作响应缓存与目录版本号的存储.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/yeisme/pixels/pkg/configs"
)

// ErrKeyNotFound 键不存在或已过期.
var ErrKeyNotFound = errors.New("kv: key not found")

type Client struct {
	KVStore
	kvType KVType
}

// KVStore 定义键值存储接口.
type KVStore interface {
	// Get 获取键的值，不存在时返回 ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 设置键的值，ttl<=0 表示不过期.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete 删除键.
	Delete(ctx context.Context, key string) error
	// Exists 检查键是否存在.
	Exists(ctx context.Context, key string) (bool, error)
	// Keys 返回匹配 glob 模式的键，空模式表示全部.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Close 关闭存储连接.
	Close() error
}

// Incrementer 支持原子自增的存储，值以十进制文本保存.
type Incrementer interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// Purger 支持主动清理过期键的存储.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Pinger 支持连通性检查的存储.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVType 键值存储类型.
type KVType string

const (
	KVTypeMemory     KVType = "memory"
	KVTypeRedis      KVType = "redis"
	KVTypeNATS       KVType = "nats"
	KVTypeGroupcache KVType = "groupcache"
)

// KVFactory 定义创建 KVStore 的工厂函数类型.
type KVFactory func(ctx context.Context, config any) (KVStore, error)

var (
	factoriesMu sync.RWMutex
	// kvFactories 存储 KV 类型到工厂的映射.
	kvFactories = make(map[KVType]KVFactory)
)

// RegisterKVFactory 注册 KV 工厂函数.
func RegisterKVFactory(kvType KVType, factory KVFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	kvFactories[kvType] = factory
}

// GetRegisteredKVTypes 返回已注册的 KV 类型列表（按名称排序）.
func GetRegisteredKVTypes() []KVType {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	types := make([]KVType, 0, len(kvFactories))
	for kvType := range kvFactories {
		types = append(types, kvType)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// NewKVStore 根据类型创建 KVStore 实例.
func NewKVStore(ctx context.Context, kvType KVType, config any) (KVStore, error) {
	factoriesMu.RLock()
	factory, exists := kvFactories[kvType]
	factoriesMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported KV type: %s", kvType)
	}

	return factory(ctx, config)
}

// NewKVClient 按配置创建 KV 客户端.
func NewKVClient(ctx context.Context, cfg *configs.KVConfig) (*Client, error) {
	kvType := KVType(cfg.GetKVType())
	if kvType == "" {
		kvType = KVTypeMemory
	}

	store, err := NewKVStore(ctx, kvType, cfg.GetDriverConfig())
	if err != nil {
		return nil, err
	}

	return &Client{KVStore: store, kvType: kvType}, nil
}

// Type 返回底层存储类型.
func (c *Client) Type() KVType {
	return c.kvType
}

// Ping 检查存储是否可用；不支持 Ping 的实现通过一次 Exists 探测.
func (c *Client) Ping(ctx context.Context) error {
	if p, ok := c.KVStore.(Pinger); ok {
		return p.Ping(ctx)
	}

	_, err := c.Exists(ctx, "px-health")

	return err
}

// matchKey 按 glob 模式匹配键，与 Redis KEYS 的语义保持一致.
func matchKey(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	ok, err := path.Match(pattern, key)

	return err == nil && ok
}
