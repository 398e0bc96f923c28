// Package queue 定义图片目录的领域事件：主题、负载与统一的消息信封.
//
// 概览
//   - 发布/订阅模型，目录写操作完成后异步通知下游（统计、审计等）
//   - 统一的消息封装：Message[Payload] = Header + Payload
//   - 主题常量见 topics.go，负载结构体见 payloads.go
//   - 默认 JSON 编解码（bytedance/sonic）
//
// 消息信封 JSON 结构
//
//	{
//	  "header": {
//	    "topic": "px.image.liked",
//	    "trace_id": "optional-trace-id",
//	    "producer": "pixels",
//	    "occurred_at": "2025-01-02T03:04:05.123456Z",
//	    "version": "v1"
//	  },
//	  "payload": { "image_id": "01J...", "field": "likes", "delta": 1, "value": 8 }
//	}
//
// 发布示例
//
//	_ = queue.PublishImageCounter(pub, queue.TopicImageLiked,
//	  queue.ImageCounterPayload{ImageID: id, Field: "likes", Delta: 1, Value: 8},
//	  queue.WithProducer("pixels"))
//
// 订阅端使用 ParseImageCounter 等函数解出强类型负载，消费者应忽略未知字段.
package queue

import (
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
)

const (
	PayloadVersionV1 string = "v1"

	// 元数据键，便于不解码负载即可路由或追踪.
	MetaTopic      = "topic"
	MetaTraceID    = "trace_id"
	MetaProducer   = "producer"
	MetaOccurredAt = "occurred_at"
	MetaVersion    = "version"
)

// NewEventHeader 便捷创建事件头.
func NewEventHeader(topic string, opts ...func(*EventHeader)) EventHeader {
	hdr := EventHeader{
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Version:    PayloadVersionV1,
	}
	for _, opt := range opts {
		opt(&hdr)
	}

	return hdr
}

// WithTraceID 设置 TraceID.
func WithTraceID(id string) func(*EventHeader) { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer 设置 Producer.
func WithProducer(p string) func(*EventHeader) { return func(h *EventHeader) { h.Producer = p } }

// Encode 将消息封装为 JSON 字节切片.
func Encode[T any](msg Message[T]) ([]byte, error) { return sonic.Marshal(msg) }

// Decode 从 JSON 字节解码为消息.
func Decode[T any](b []byte) (Message[T], error) {
	var m Message[T]

	err := sonic.Unmarshal(b, &m)

	return m, err
}

// NewWatermillMessage 构造一个 watermill 消息，消息 ID 使用 ULID 以便按时间排序.
func NewWatermillMessage[T any](topic string, payload T, opts ...func(*EventHeader)) (*message.Message, error) {
	header := NewEventHeader(topic, opts...)

	data, err := Encode(Message[T]{Header: header, Payload: payload})
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewULID(), data)
	msg.Metadata.Set(MetaTopic, topic)
	msg.Metadata.Set(MetaOccurredAt, header.OccurredAt.Format(time.RFC3339Nano))
	msg.Metadata.Set(MetaVersion, header.Version)

	if header.TraceID != "" {
		msg.Metadata.Set(MetaTraceID, header.TraceID)
	}

	if header.Producer != "" {
		msg.Metadata.Set(MetaProducer, header.Producer)
	}

	return msg, nil
}

// ParseWatermillMessage 解出泛型负载.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	return Decode[T](msg.Payload)
}
