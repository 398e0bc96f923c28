// Package mq 在 storage/mq 客户端之上运行图片目录领域事件的消费者.
//
// Consumer 使用 watermill Router 为 queue.ImageTopics 中每个主题注册一个处理器，
// 解码负载后记录 Prometheus 事件计数并输出结构化日志。无法解码的消息会被确认并丢弃，
// 避免毒消息反复投递.
package mq

import (
	"context"
	"fmt"
	"strings"
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	wmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/yeisme/pixels/pkg/configs"
	nlog "github.com/yeisme/pixels/pkg/log"
	"github.com/yeisme/pixels/pkg/metrics"
	"github.com/yeisme/pixels/pkg/queue"
)

const topicPrefix = "px.image."

// Consumer 订阅图片事件并记录指标.
type Consumer struct {
	router *message.Router
	logger zerolog.Logger
}

type consumerOptions struct {
	registry     prometheus.Registerer
	closeTimeout time.Duration
}

// ConsumerOption 配置 Consumer.
type ConsumerOption func(*consumerOptions)

// WithRouterMetrics 为 Router 注册 watermill 处理器指标.
func WithRouterMetrics(reg prometheus.Registerer) ConsumerOption {
	return func(o *consumerOptions) { o.registry = reg }
}

// WithCloseTimeout 设置 Router 关闭时等待处理器退出的时长.
func WithCloseTimeout(d time.Duration) ConsumerOption {
	return func(o *consumerOptions) { o.closeTimeout = d }
}

// NewConsumer 创建消费者，sub 通常为 storage/mq Client 的 Subscriber.
func NewConsumer(sub message.Subscriber, logger watermill.LoggerAdapter, opts ...ConsumerOption) (*Consumer, error) {
	o := consumerOptions{closeTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: o.closeTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)

	if o.registry != nil {
		wmetrics.NewPrometheusMetricsBuilder(o.registry, configs.AppName, "consumer").AddPrometheusRouterMetrics(router)
	}

	c := &Consumer{router: router, logger: nlog.Component("consumer")}

	for _, topic := range queue.ImageTopics {
		router.AddNoPublisherHandler(configs.AppName+"."+topic, topic, sub, c.handle(topic))
	}

	return c, nil
}

// Run 阻塞运行直到 ctx 取消或 Close 被调用.
func (c *Consumer) Run(ctx context.Context) error {
	return c.router.Run(ctx)
}

// Running 在所有处理器启动后关闭.
func (c *Consumer) Running() chan struct{} {
	return c.router.Running()
}

// Close 停止 Router.
func (c *Consumer) Close() error {
	return c.router.Close()
}

// EventName 把主题转换为指标标签，例如 "px.image.liked" -> "liked".
func EventName(topic string) string {
	return strings.TrimPrefix(topic, topicPrefix)
}

func (c *Consumer) handle(topic string) message.NoPublishHandlerFunc {
	event := EventName(topic)

	return func(msg *message.Message) error {
		l := c.logger.With().Str("topic", topic).Str("msg_id", msg.UUID).Logger()

		switch topic {
		case queue.TopicImageCreated:
			env, err := queue.ParseImageCreated(msg)
			if err != nil {
				return c.drop(l, err)
			}

			l.Debug().Str("image_id", env.Payload.Image.ID).Int("batch_size", env.Payload.BatchSize).Msg("image created")
		case queue.TopicImageDeleted:
			env, err := queue.ParseImageDeleted(msg)
			if err != nil {
				return c.drop(l, err)
			}

			l.Debug().Str("image_id", env.Payload.Image.ID).Str("trace_id", env.Header.TraceID).Msg("image deleted")
		default:
			env, err := queue.ParseImageCounter(msg)
			if err != nil {
				return c.drop(l, err)
			}

			l.Debug().
				Str("image_id", env.Payload.ImageID).
				Str("field", env.Payload.Field).
				Int64("value", env.Payload.Value).
				Msg("image counter changed")
		}

		metrics.RecordImageEvent(event)

		return nil
	}
}

func (c *Consumer) drop(l zerolog.Logger, err error) error {
	l.Warn().Err(err).Msg("dropping undecodable event")

	return nil
}
