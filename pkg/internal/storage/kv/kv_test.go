package kv_test

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	mrand "math/rand"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/storage/kv"
)

func newMemory(t *testing.T) kv.KVStore {
	t.Helper()

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}

	return store
}

func TestMemoryKV_TTL(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)

	if err := store.Set(ctx, "short", []byte("v"), 20*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := store.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	if ok, _ := store.Exists(ctx, "short"); !ok {
		t.Fatal("expected key before expiry")
	}

	time.Sleep(50 * time.Millisecond)

	if _, err := store.Get(ctx, "short"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after expiry, got %v", err)
	}

	if _, err := store.Get(ctx, "forever"); err != nil {
		t.Errorf("expected key without ttl to survive, got %v", err)
	}

	purger, ok := store.(kv.Purger)
	if !ok {
		t.Fatal("memory kv should implement Purger")
	}

	n, err := purger.PurgeExpired(ctx)
	if err != nil || n != 1 {
		t.Errorf("PurgeExpired = %d, %v; want 1, nil", n, err)
	}
}

func TestMemoryKV_IncrAndKeys(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)

	inc, ok := store.(kv.Incrementer)
	if !ok {
		t.Fatal("memory kv should implement Incrementer")
	}

	for want := int64(1); want <= 3; want++ {
		got, err := inc.Incr(ctx, "px:gen:images")
		if err != nil || got != want {
			t.Fatalf("Incr = %d, %v; want %d", got, err, want)
		}
	}

	v, _ := store.Get(ctx, "px:gen:images")
	if string(v) != "3" {
		t.Errorf("expected decimal text value, got %q", v)
	}

	_ = store.Set(ctx, "px:cache:a", []byte("1"), 0)
	_ = store.Set(ctx, "other", []byte("1"), 0)

	keys, err := store.Keys(ctx, "px:*")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}

	if len(keys) != 2 {
		t.Errorf("expected 2 keys for px:*, got %v", keys)
	}
}

func TestMemoryKV_ConcurrentIncr(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)
	inc := store.(kv.Incrementer)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = inc.Incr(ctx, "n")
		}()
	}

	wg.Wait()

	v, _ := store.Get(ctx, "n")
	if string(v) != "50" {
		t.Errorf("expected 50 after concurrent incr, got %s", v)
	}
}

func TestGroupcacheKV_LocalFirst(t *testing.T) {
	ctx := context.Background()
	cfg := &configs.GroupcacheKVConfig{Name: "test-local-first", CacheBytes: 1 << 20}

	store, err := kv.NewKVStore(ctx, kv.KVTypeGroupcache, cfg)
	if err != nil {
		t.Fatalf("create groupcache kv: %v", err)
	}

	if _, err := store.Get(ctx, "gen"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	_ = store.Set(ctx, "gen", []byte("1"), 0)
	_ = store.Set(ctx, "gen", []byte("2"), 0)

	v, err := store.Get(ctx, "gen")
	if err != nil || string(v) != "2" {
		t.Errorf("expected latest local write, got %q, %v", v, err)
	}

	if _, err := kv.NewKVStore(ctx, kv.KVTypeGroupcache, cfg); err == nil {
		t.Error("expected error when registering the same group twice")
	}
}

func TestNewKVClient_DefaultsToMemory(t *testing.T) {
	c, err := kv.NewKVClient(context.Background(), &configs.KVConfig{})
	if err != nil {
		t.Fatalf("NewKVClient: %v", err)
	}

	if c.Type() != kv.KVTypeMemory {
		t.Errorf("expected memory, got %s", c.Type())
	}

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}

	if _, err := kv.NewKVStore(context.Background(), "etcd", nil); err == nil {
		t.Error("expected error for unknown kv type")
	}
}

func BenchmarkMemoryKV(b *testing.B) {
	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		b.Fatalf("create memory kv: %v", err)
	}

	benchKV(b, "memory", store)
	benchKVParallel(b, "memory", store)
	_ = store.Close()
}

func BenchmarkGroupcacheKV(b *testing.B) {
	cfg := &configs.GroupcacheKVConfig{
		Name:       "bench-groupcache",
		CacheBytes: 32 * 1024 * 1024, // 32MB
		Peers:      []string{},
		Self:       "http://127.0.0.1:0",
	}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeGroupcache, cfg)
	if err != nil {
		b.Fatalf("create groupcache kv: %v", err)
	}

	benchKV(b, "groupcache", store)
	benchKVParallel(b, "groupcache", store)
	_ = store.Close()
}

// Optional: enable with ENABLE_REDIS_BENCH=1 and REDIS_ADDR set (default 127.0.0.1:6379).
func BenchmarkRedisKV(b *testing.B) {
	if os.Getenv("ENABLE_REDIS_BENCH") == "" {
		b.Skip("set ENABLE_REDIS_BENCH=1 to enable")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	cfg := &configs.RedisKVConfig{Addr: addr, Password: "", DB: 0}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeRedis, cfg)
	if err != nil {
		b.Skipf("redis not available: %v", err)
		return
	}

	benchKV(b, "redis", store)
	benchKVParallel(b, "redis", store)
	_ = store.Close()
}

// Optional: enable with ENABLE_NATS_BENCH=1 and NATS_URL set (default nats://127.0.0.1:4222)
func BenchmarkNATSKV(b *testing.B) {
	if os.Getenv("ENABLE_NATS_BENCH") == "" {
		b.Skip("set ENABLE_NATS_BENCH=1 to enable")
	}

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = "nats://127.0.0.1:4222"
	}

	bucket := os.Getenv("NATS_BUCKET")
	if bucket == "" {
		bucket = "bench-kv"
	}

	cfg := &configs.NATSKVConfig{URL: url, User: "", Password: "", Bucket: bucket}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeNATS, cfg)
	if err != nil {
		b.Skipf("nats not available: %v", err)
		return
	}

	benchKV(b, "nats", store)
	benchKVParallel(b, "nats", store)
	_ = store.Close()
}

// randBytes returns n random bytes, seeded reproducibly for bench.
func randBytes(n int) []byte {
	b := make([]byte, n)
	// Try crypto/rand; if it fails (unlikely in tests), fallback to deterministic PRNG.
	if _, err := crand.Read(b); err != nil {
		mr := mrand.New(mrand.NewSource(42))
		for i := range b {
			b[i] = byte(mr.Intn(256))
		}
	}

	return b
}

// benchKV 执行基本的 Set/Get/Delete 基准测试.
func benchKV(b *testing.B, name string, store kv.KVStore) {
	ctx := context.Background()
	sizes := []int{32, 1024, 64 * 1024}
	ttls := []time.Duration{0, 5 * time.Second}

	for _, size := range sizes {
		payload := randBytes(size)
		for _, ttl := range ttls {
			b.Run(fmt.Sprintf("%s/size=%d/ttl=%s", name, size, ttl), func(b *testing.B) {
				// ensure clean
				b.ReportAllocs()

				for i := 0; b.Loop(); i++ {
					// Use hyphens to ensure keys are valid for NATS KV
					key := fmt.Sprintf("bench-%s-%d", name, i)
					if err := store.Set(ctx, key, payload, ttl); err != nil {
						b.Fatalf("set failed: %v", err)
					}

					if _, err := store.Get(ctx, key); err != nil {
						b.Fatalf("get failed: %v", err)
					}

					if err := store.Delete(ctx, key); err != nil {
						b.Fatalf("delete failed: %v", err)
					}
				}
			})
		}
	}
}

// benchKVParallel 执行并行的 Set/Get/Delete 基准测试.
func benchKVParallel(b *testing.B, name string, store kv.KVStore) {
	ctx := context.Background()
	size := 1024
	payload := randBytes(size)

	var ctr uint64

	b.Run(fmt.Sprintf("%s/parallel", name), func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				i := atomic.AddUint64(&ctr, 1)

				// Use hyphens to ensure keys are valid for NATS KV
				key := fmt.Sprintf("bench-%s-p-%d", name, i)
				if err := store.Set(ctx, key, payload, 0); err != nil {
					b.Fatalf("set failed: %v", err)
				}

				if _, err := store.Get(ctx, key); err != nil {
					b.Fatalf("get failed: %v", err)
				}

				if err := store.Delete(ctx, key); err != nil {
					b.Fatalf("delete failed: %v", err)
				}
			}
		})
	})
}
