package queue

import "github.com/ThreeDotsLabs/watermill/message"

// PublishImageCreated 发布 px.image.created 事件.
func PublishImageCreated(pub message.Publisher, payload ImageCreatedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicImageCreated, payload, opts...)
}

// PublishImageCounter 发布计数器事件，topic 为 viewed/liked/unliked 之一.
func PublishImageCounter(pub message.Publisher, topic string, payload ImageCounterPayload, opts ...func(*EventHeader)) error {
	return publish(pub, topic, payload, opts...)
}

// PublishImageDeleted 发布 px.image.deleted 事件.
func PublishImageDeleted(pub message.Publisher, payload ImageDeletedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicImageDeleted, payload, opts...)
}

func publish[T any](pub message.Publisher, topic string, payload T, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(topic, msg)
}

// ParseImageCreated 将 Watermill 消息解析为强类型 Envelope.
func ParseImageCreated(msg *message.Message) (Message[ImageCreatedPayload], error) {
	return ParseWatermillMessage[ImageCreatedPayload](msg)
}

// ParseImageCounter 解析计数器事件.
func ParseImageCounter(msg *message.Message) (Message[ImageCounterPayload], error) {
	return ParseWatermillMessage[ImageCounterPayload](msg)
}

// ParseImageDeleted 解析删除事件.
func ParseImageDeleted(msg *message.Message) (Message[ImageDeletedPayload], error) {
	return ParseWatermillMessage[ImageDeletedPayload](msg)
}
