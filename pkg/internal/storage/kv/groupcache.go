package kv

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/yeisme/pixels/pkg/configs"
)

// GroupcacheKV 基于 Groupcache 的 KV 实现.
// 本地写入的数据优先从本地读取，只有本地缺失时才经由 group 向对等节点加载.
type GroupcacheKV struct {
	cache *groupcache.Group
	peers *groupcache.HTTPPool
	data  map[string]memEntry
	mu    sync.RWMutex
}

// groupcacheGetter 供对等节点回源读取本地数据.
type groupcacheGetter struct {
	kv *GroupcacheKV
}

func (g *groupcacheGetter) Get(_ context.Context, key string, dest groupcache.Sink) error {
	value, ok := g.kv.local(key)
	if !ok {
		return ErrKeyNotFound
	}

	if err := dest.SetBytes(value); err != nil {
		return fmt.Errorf("failed to set bytes to sink: %w", err)
	}

	return nil
}

// NewGroupcacheKV 创建 Groupcache KV 实例.
func NewGroupcacheKV(_ context.Context, config any) (KVStore, error) {
	gcConfig, ok := config.(*configs.GroupcacheKVConfig)
	if !ok {
		return nil, fmt.Errorf("invalid Groupcache config")
	}

	kv := &GroupcacheKV{data: make(map[string]memEntry)}

	if g := groupcache.GetGroup(gcConfig.Name); g != nil {
		return nil, fmt.Errorf("groupcache group %q already registered", gcConfig.Name)
	}

	kv.cache = groupcache.NewGroup(gcConfig.Name, gcConfig.CacheBytes, &groupcacheGetter{kv: kv})

	if len(gcConfig.Peers) > 0 {
		kv.peers = groupcache.NewHTTPPoolOpts(gcConfig.Self, &groupcache.HTTPPoolOptions{})
		kv.peers.Set(gcConfig.Peers...)
	}

	return kv, nil
}

func (g *GroupcacheKV) local(key string) ([]byte, bool) {
	g.mu.RLock()
	e, ok := g.data[key]
	g.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return nil, false
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)

	return out, true
}

// Get 获取键的值.
func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := g.local(key); ok {
		return v, nil
	}

	if g.peers == nil {
		return nil, ErrKeyNotFound
	}

	var data []byte
	if err := g.cache.Get(ctx, key, groupcache.AllocatingByteSliceSink(&data)); err != nil {
		return nil, ErrKeyNotFound
	}

	return data, nil
}

// Set 设置键的值.
func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memEntry{value: make([]byte, len(value))}
	copy(e.value, value)

	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}

	g.mu.Lock()
	g.data[key] = e
	g.mu.Unlock()

	return nil
}

// Delete 删除键.
func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.data, key)
	g.mu.Unlock()

	return nil
}

// Exists 检查键是否存在于本地.
func (g *GroupcacheKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := g.local(key)

	return ok, nil
}

// Keys 获取本地匹配模式的键.
func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	now := time.Now()

	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.data))
	for key, e := range g.data {
		if e.expired(now) || !matchKey(pattern, key) {
			continue
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// Incr 本地原子自增.
func (g *GroupcacheKV) Incr(_ context.Context, key string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var n int64

	e, ok := g.data[key]
	if ok && !e.expired(time.Now()) {
		cur, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			return 0, err
		}

		n = cur
	} else {
		e = memEntry{}
	}

	n++
	e.value = []byte(strconv.FormatInt(n, 10))
	g.data[key] = e

	return n, nil
}

// PurgeExpired 清理本地过期键.
func (g *GroupcacheKV) PurgeExpired(_ context.Context) (int, error) {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0

	for k, e := range g.data {
		if e.expired(now) {
			delete(g.data, k)
			n++
		}
	}

	return n, nil
}

// Close 关闭缓存.
func (g *GroupcacheKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeGroupcache, NewGroupcacheKV)
}
