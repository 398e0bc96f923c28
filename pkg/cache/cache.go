// Package cache 提供基于键值存储的泛型缓存，以及按命名空间划分的缓存代数（generation）.
//
// 基本用法:
//
//	c := cache.NewCache(kvStore)
//
//	// 缓存任意可序列化的值
//	err := cache.Set(ctx, c, "summary", summary, time.Minute)
//	got, err := cache.Get[model.CatalogSummary](ctx, c, "summary")
//
//	// 并发请求同一个键时 getter 只执行一次
//	v, err := cache.GetOrSet(ctx, c, "summary", loadSummary, time.Minute)
//
// 代数用于整体失效：读路径把 Generation(ns) 拼进缓存键，写路径调用 Bump(ns)，
// 旧代数下的条目不再被命中，随 TTL 自然过期.
//
// 所有键都会加上前缀（默认 "px:"），Clear 只清理带前缀的键.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"

	"github.com/yeisme/pixels/pkg/internal/storage/kv"
)

// DefaultPrefix 默认键前缀.
const DefaultPrefix = "px:"

// Cache 基于KV存储的缓存实现.
type Cache struct {
	kvStore kv.KVStore
	prefix  string
	group   singleflight.Group
}

// Option 调整缓存行为.
type Option func(*Cache)

// WithPrefix 设置键前缀.
func WithPrefix(prefix string) Option {
	return func(c *Cache) { c.prefix = prefix }
}

// NewCache 创建一个新的缓存实例.
func NewCache(kvStore kv.KVStore, opts ...Option) *Cache {
	c := &Cache{kvStore: kvStore, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Cache) key(k string) string { return c.prefix + k }

func genKey(ns string) string { return "gen:" + ns }

// Get 泛型获取缓存值，未命中返回 kv.ErrKeyNotFound.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, c.key(key))
	if err != nil {
		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set 泛型设置缓存值.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, c.key(key), data, ttl)
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, c.key(key))
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, c.key(key))
}

// GetOrSet 获取缓存值，未命中时通过 singleflight 合并并发的 getter 调用.
// 写缓存失败不影响返回值.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		value, err := getter()
		if err != nil {
			return value, err
		}

		_ = Set(ctx, c, key, value, ttl)

		return value, nil
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return v.(T), nil
}

// Generation 返回命名空间的当前代数，不存在时为 0.
func (c *Cache) Generation(ctx context.Context, ns string) (int64, error) {
	data, err := c.kvStore.Get(ctx, c.key(genKey(ns)))
	if errors.Is(err, kv.ErrKeyNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid generation for %s: %w", ns, err)
	}

	return n, nil
}

// Bump 使命名空间的代数加一，令旧代数下的缓存条目失效.
func (c *Cache) Bump(ctx context.Context, ns string) (int64, error) {
	key := c.key(genKey(ns))

	if inc, ok := c.kvStore.(kv.Incrementer); ok {
		return inc.Incr(ctx, key)
	}

	cur, err := c.Generation(ctx, ns)
	if err != nil {
		return 0, err
	}

	next := cur + 1

	return next, c.kvStore.Set(ctx, key, []byte(strconv.FormatInt(next, 10)), 0)
}

// Purge 清理底层存储中已过期的键；存储不支持时返回 0.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	if p, ok := c.kvStore.(kv.Purger); ok {
		return p.PurgeExpired(ctx)
	}

	return 0, nil
}

// Clear 删除所有带前缀的键（包括代数）.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.kvStore.Keys(ctx, c.prefix+"*")
	if err != nil {
		return err
	}

	for _, key := range keys {
		if delErr := c.kvStore.Delete(ctx, key); delErr != nil {
			return delErr
		}
	}

	return nil
}
