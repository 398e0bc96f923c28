package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/yeisme/pixels/pkg/configs"
)

const natsIncrRetries = 8

// NATSKV 基于 NATS JetStream KeyValue 的实现，单键 TTL 通过值包装实现.
type NATSKV struct {
	kv     nats.KeyValue
	bucket string
	conn   *nats.Conn
}

// NewNATSKV 创建 NATS KV 实例.
func NewNATSKV(_ context.Context, config any) (KVStore, error) {
	natsConfig, ok := config.(*configs.NATSKVConfig)
	if !ok {
		return nil, fmt.Errorf("invalid NATS config")
	}

	opts := []nats.Option{nats.Name(configs.AppName + "-kv")}
	if natsConfig.User != "" {
		opts = append(opts, nats.UserInfo(natsConfig.User, natsConfig.Password))
	}

	nc, err := nats.Connect(natsConfig.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()

		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := js.KeyValue(natsConfig.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{Bucket: natsConfig.Bucket})
	}

	if err != nil {
		nc.Close()

		return nil, fmt.Errorf("failed to create/get KV bucket: %w", err)
	}

	return &NATSKV{kv: kv, bucket: natsConfig.Bucket, conn: nc}, nil
}

// Get 获取键的值，过期值惰性删除.
func (n *NATSKV) Get(_ context.Context, key string) ([]byte, error) {
	entry, err := n.kv.Get(key)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	val, expired, err := decodeWithTTL(entry.Value(), time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		_ = n.kv.Delete(key)

		return nil, ErrKeyNotFound
	}

	return val, nil
}

// Set 设置键的值.
func (n *NATSKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := encodeWithTTL(value, ttl)
	if err != nil {
		return err
	}

	if _, err := n.kv.Put(key, encoded); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	return nil
}

// Delete 删除键.
func (n *NATSKV) Delete(_ context.Context, key string) error {
	err := n.kv.Delete(key)
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

// Exists 检查键是否存在.
func (n *NATSKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := n.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}

	return err == nil, err
}

// Keys 获取匹配模式的键，顺带清理过期键.
func (n *NATSKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := n.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get keys: %w", err)
	}

	result := make([]string, 0, len(keys))

	for _, key := range keys {
		if !matchKey(pattern, key) {
			continue
		}

		if ok, _ := n.Exists(ctx, key); ok {
			result = append(result, key)
		}
	}

	return result, nil
}

// Incr 基于修订号的乐观并发自增.
func (n *NATSKV) Incr(_ context.Context, key string) (int64, error) {
	for range natsIncrRetries {
		entry, err := n.kv.Get(key)
		if errors.Is(err, nats.ErrKeyNotFound) {
			if _, cerr := n.kv.Create(key, []byte("1")); cerr == nil {
				return 1, nil
			}

			continue
		}

		if err != nil {
			return 0, fmt.Errorf("failed to get key: %w", err)
		}

		cur, err := strconv.ParseInt(string(entry.Value()), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value of %s is not an integer: %w", key, err)
		}

		next := cur + 1
		if _, err := n.kv.Update(key, []byte(strconv.FormatInt(next, 10)), entry.Revision()); err == nil {
			return next, nil
		}
	}

	return 0, fmt.Errorf("incr %s: too many concurrent updates", key)
}

// PurgeExpired 遍历全部键以清理过期值.
func (n *NATSKV) PurgeExpired(ctx context.Context) (int, error) {
	keys, err := n.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	purged := 0

	for _, key := range keys {
		if ok, _ := n.Exists(ctx, key); !ok {
			purged++
		}
	}

	return purged, nil
}

// Ping 检查连接状态.
func (n *NATSKV) Ping(_ context.Context) error {
	if !n.conn.IsConnected() {
		return fmt.Errorf("nats connection status: %s", n.conn.Status())
	}

	return nil
}

// Close 关闭 NATS 连接.
func (n *NATSKV) Close() error {
	n.conn.Close()

	return nil
}

func init() {
	RegisterKVFactory(KVTypeNATS, NewNATSKV)
}
