package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪 ID，来自请求的 span 上下文.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// ImageRef 事件中携带的图片快照.
type ImageRef struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageURL"`
	Tags      []string  `json:"tags"`
	Likes     int64     `json:"likes"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImageCreatedPayload 新图片记录.
type ImageCreatedPayload struct {
	Image ImageRef `json:"image"`
	// BatchSize 同一请求创建的记录总数.
	BatchSize int `json:"batch_size"`
}

// ImageCounterPayload 计数器变化（viewed/liked/unliked）.
type ImageCounterPayload struct {
	ImageID string `json:"image_id"`
	Field   string `json:"field"` // likes | views
	Delta   int64  `json:"delta"`
	Value   int64  `json:"value"` // 变化后的值
}

// ImageDeletedPayload 图片记录被删除.
type ImageDeletedPayload struct {
	Image ImageRef `json:"image"`
}
