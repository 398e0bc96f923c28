package kv

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memEntry struct {
	value    []byte
	expireAt time.Time // 零值表示不过期
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// MemoryKV 进程内 KV 实现，支持 TTL.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]memEntry
	now  func() time.Time
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV(_ context.Context, _ any) (KVStore, error) {
	return &MemoryKV{data: make(map[string]memEntry), now: time.Now}, nil
}

// Get 获取键的值，过期键视为不存在.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok || e.expired(m.now()) {
		return nil, ErrKeyNotFound
	}

	result := make([]byte, len(e.value))
	copy(result, e.value)

	return result, nil
}

// Set 设置键的值.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	data := make([]byte, len(value))
	copy(data, value)

	e := memEntry{value: data}
	if ttl > 0 {
		e.expireAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	return nil
}

// Exists 检查键是否存在.
func (m *MemoryKV) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	return ok && !e.expired(m.now()), nil
}

// Keys 获取匹配模式的未过期键.
func (m *MemoryKV) Keys(_ context.Context, pattern string) ([]string, error) {
	now := m.now()
	keys := make([]string, 0)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for k, e := range m.data {
		if e.expired(now) || !matchKey(pattern, k) {
			continue
		}

		keys = append(keys, k)
	}

	return keys, nil
}

// Incr 原子自增，键不存在时从 0 开始，保留原有过期时间.
func (m *MemoryKV) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64

	e, ok := m.data[key]
	if ok && !e.expired(m.now()) {
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
	m.data[key] = e

	return n, nil
}

// PurgeExpired 删除所有已过期的键，返回删除数量.
func (m *MemoryKV) PurgeExpired(_ context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0

	for k, e := range m.data {
		if e.expired(now) {
			delete(m.data, k)
			n++
		}
	}

	return n, nil
}

// Close 关闭存储（内存实现无需操作）.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeMemory, NewMemoryKV)
}
