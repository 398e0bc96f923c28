//go:build !no_redis

package mq

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/yeisme/pixels/pkg/configs"
)

const (
	// DefaultChannelBufferSize 默认通道缓冲区大小.
	DefaultChannelBufferSize = 100
)

// redisEnvelope Redis 频道中传输的消息格式，保留 watermill 的 UUID 与元数据.
type redisEnvelope struct {
	UUID     string            `json:"uuid"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Payload  []byte            `json:"payload"`
}

// RedisPublisher Redis Publisher 实现.
type RedisPublisher struct {
	client *redis.Client
}

// RedisSubscriber Redis Subscriber 实现，每个主题一个 PubSub.
type RedisSubscriber struct {
	client  *redis.Client
	subs    []*redis.PubSub
	logger  watermill.LoggerAdapter
	mu      sync.Mutex
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

func init() {
	RegisterFactory(configs.MQTypeRedis, redisFactory)
}

// redisFactory 创建 Redis Publisher & Subscriber，二者共享一个连接池.
func redisFactory(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (*Backend, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	pub := &RedisPublisher{client: rdb}
	sub := &RedisSubscriber{client: rdb, logger: logger, closeCh: make(chan struct{})}

	return &Backend{
		Publisher:  pub,
		Subscriber: sub,
		Ping:       func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}, nil
}

// Publish 实现 Publisher 接口.
func (p *RedisPublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		data, err := sonic.Marshal(redisEnvelope{UUID: msg.UUID, Metadata: msg.Metadata, Payload: msg.Payload})
		if err != nil {
			return fmt.Errorf("marshal message %s: %w", msg.UUID, err)
		}

		ctx := msg.Context()
		if err := p.client.Publish(ctx, topic, data).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Close 共享连接由 Subscriber 关闭.
func (p *RedisPublisher) Close() error {
	return nil
}

// Subscribe 实现 Subscriber 接口；Redis Pub/Sub 不支持重投，Nack 的消息只记录日志.
func (s *RedisSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	ps := s.client.Subscribe(ctx, topic)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()

		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	s.subs = append(s.subs, ps)

	out := make(chan *message.Message, DefaultChannelBufferSize)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer close(out)

		in := ps.Channel()

		for {
			select {
			case <-s.closeCh:
				return
			case <-ctx.Done():
				return
			case rm, ok := <-in:
				if !ok {
					return
				}

				s.deliver(ctx, topic, rm, out)
			}
		}
	}()

	return out, nil
}

func (s *RedisSubscriber) deliver(ctx context.Context, topic string, rm *redis.Message, out chan<- *message.Message) {
	var env redisEnvelope
	if err := sonic.Unmarshal([]byte(rm.Payload), &env); err != nil {
		s.logger.Error("drop malformed redis message", err, watermill.LogFields{"topic": topic})

		return
	}

	msg := message.NewMessage(env.UUID, env.Payload)
	for k, v := range env.Metadata {
		msg.Metadata.Set(k, v)
	}

	msg.SetContext(ctx)

	select {
	case out <- msg:
	case <-s.closeCh:
		return
	case <-ctx.Done():
		return
	}

	select {
	case <-msg.Acked():
	case <-msg.Nacked():
		s.logger.Info("message nacked, redis pub/sub does not redeliver", watermill.LogFields{"topic": topic, "uuid": msg.UUID})
	case <-s.closeCh:
	case <-ctx.Done():
	}
}

// Close 实现 Subscriber 接口，同时关闭共享的 Redis 连接.
func (s *RedisSubscriber) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return nil
	}

	s.closed = true
	close(s.closeCh)

	for _, ps := range s.subs {
		if err := ps.Close(); err != nil {
			s.logger.Error("close redis pubsub", err, nil)
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	return s.client.Close()
}
