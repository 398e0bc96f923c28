// Package mq 提供基于 Watermill 的统一消息队列接口，承载图片目录的领域事件.
// 通过工厂注册不同的实现：
//   - memory（watermill gochannel，默认，单进程无需 broker）
//   - nats（watermill-nats，可选 JetStream）
//   - redis（Redis Pub/Sub）
//
// 使用示例：
//
//	client, err := mq.New(ctx, &cfg.MQ, mq.WithMetrics(registry))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	err = queue.PublishImageLiked(client.Publisher(), payload)
package mq

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/pixels/pkg/configs"
	nlog "github.com/yeisme/pixels/pkg/log"
)

// ErrClosed 客户端已关闭.
var ErrClosed = errors.New("mq: client closed")

// Backend 由工厂创建的 Publisher / Subscriber 以及可选的连通性检查.
type Backend struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Ping       func(ctx context.Context) error
}

// Factory 定义创建 Backend 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (*Backend, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[configs.MQType]Factory{}
)

// RegisterFactory 注册指定 MQType 的工厂.
func RegisterFactory(t configs.MQType, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[t] = f
}

// GetRegisteredTypes 返回已注册的 MQ 类型（按名称排序）.
func GetRegisteredTypes() []configs.MQType {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	out := make([]configs.MQType, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Client 封装 watermill Publisher 与 Subscriber.
type Client struct {
	mqType     configs.MQType
	publisher  message.Publisher
	subscriber message.Subscriber
	ping       func(ctx context.Context) error
	logger     watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

type options struct {
	registry prometheus.Registerer
	logger   watermill.LoggerAdapter
}

// Option 调整客户端创建行为.
type Option func(*options)

// WithMetrics 使用 watermill prometheus 装饰 Publisher 与 Subscriber.
func WithMetrics(registry prometheus.Registerer) Option {
	return func(o *options) { o.registry = registry }
}

// WithLogger 替换默认的 zerolog 适配器.
func WithLogger(l watermill.LoggerAdapter) Option {
	return func(o *options) { o.logger = l }
}

// New 按配置创建消息队列客户端.
func New(ctx context.Context, cfg *configs.MQConfig, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = NewLoggerAdapter(nlog.Logger())
	}

	mqType := cfg.GetMQType()
	if mqType == "" {
		mqType = configs.MQTypeMemory
	}

	factoriesMu.RLock()
	factory, ok := factories[mqType]
	factoriesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported mq type: %s", mqType)
	}

	backend, err := factory(ctx, cfg, o.logger)
	if err != nil {
		return nil, fmt.Errorf("init mq (%s): %w", mqType, err)
	}

	pub, sub := backend.Publisher, backend.Subscriber

	if o.registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(o.registry, configs.AppName, "mq")

		if pub, err = builder.DecoratePublisher(pub); err != nil {
			return nil, fmt.Errorf("decorate publisher with metrics: %w", err)
		}

		if sub, err = builder.DecorateSubscriber(sub); err != nil {
			return nil, fmt.Errorf("decorate subscriber with metrics: %w", err)
		}
	}

	nlog.Logger().Info().Str("type", string(mqType)).Bool("metrics", o.registry != nil).Msg("mq client initialized")

	return &Client{
		mqType:     mqType,
		publisher:  pub,
		subscriber: sub,
		ping:       backend.Ping,
		logger:     o.logger,
	}, nil
}

// Type 返回 MQ 类型.
func (c *Client) Type() configs.MQType { return c.mqType }

// Publisher 返回底层 Publisher，供 queue 包的发布函数使用.
func (c *Client) Publisher() message.Publisher { return c.publisher }

// Subscriber 返回底层 Subscriber，供消费者路由使用.
func (c *Client) Subscriber() message.Subscriber { return c.subscriber }

// Logger 返回 watermill 日志适配器.
func (c *Client) Logger() watermill.LoggerAdapter { return c.logger }

// Publish 便捷发布.
func (c *Client) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClosed
	}

	return c.publisher.Publish(topic, msgs...)
}

// Subscribe 便捷订阅.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrClosed
	}

	return c.subscriber.Subscribe(ctx, topic)
}

// Ping 检查 broker 连通性.
func (c *Client) Ping(ctx context.Context) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()

	if closed {
		return ErrClosed
	}

	if c.ping == nil {
		return nil
	}

	return c.ping(ctx)
}

// Close 关闭资源，可重复调用.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true

	var errs []error

	if c.subscriber != nil {
		errs = append(errs, c.subscriber.Close())
	}

	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}

	return errors.Join(errs...)
}
