package queue_test

import (
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/pixels/pkg/queue"
)

// capturePublisher 记录发布的消息.
type capturePublisher struct {
	topics []string
	msgs   []*message.Message
}

func (c *capturePublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, m := range msgs {
		c.topics = append(c.topics, topic)
		c.msgs = append(c.msgs, m)
	}

	return nil
}

func (c *capturePublisher) Close() error { return nil }

func TestPublishImageCounter_RoundTrip(t *testing.T) {
	pub := &capturePublisher{}
	payload := queue.ImageCounterPayload{ImageID: "01HX", Field: "likes", Delta: 1, Value: 8}

	err := queue.PublishImageCounter(pub, queue.TopicImageLiked, payload,
		queue.WithProducer("pixels"), queue.WithTraceID("trace-1"))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(pub.msgs) != 1 || pub.topics[0] != queue.TopicImageLiked {
		t.Fatalf("expected one message on %s, got %v", queue.TopicImageLiked, pub.topics)
	}

	msg := pub.msgs[0]
	if msg.Metadata.Get(queue.MetaTopic) != queue.TopicImageLiked {
		t.Errorf("unexpected topic metadata %q", msg.Metadata.Get(queue.MetaTopic))
	}

	if msg.Metadata.Get(queue.MetaTraceID) != "trace-1" {
		t.Errorf("unexpected trace metadata %q", msg.Metadata.Get(queue.MetaTraceID))
	}

	env, err := queue.ParseImageCounter(msg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if env.Payload != payload {
		t.Errorf("payload mismatch: %+v", env.Payload)
	}

	if env.Header.Producer != "pixels" || env.Header.Version != queue.PayloadVersionV1 {
		t.Errorf("unexpected header %+v", env.Header)
	}

	if time.Since(env.Header.OccurredAt) > time.Minute || env.Header.OccurredAt.Location() != time.UTC {
		t.Errorf("unexpected occurred_at %v", env.Header.OccurredAt)
	}
}

func TestPublishImageCreated_KeepsImageFields(t *testing.T) {
	pub := &capturePublisher{}
	ref := queue.ImageRef{
		ID:        "01HY",
		Title:     "Sunset",
		ImageURL:  "https://img.example/a.png",
		Tags:      []string{"sky", "orange"},
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	if err := queue.PublishImageCreated(pub, queue.ImageCreatedPayload{Image: ref, BatchSize: 2}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	env, err := queue.ParseImageCreated(pub.msgs[0])
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := env.Payload.Image
	if got.ID != ref.ID || got.Title != ref.Title || len(got.Tags) != 2 || got.Tags[1] != "orange" {
		t.Errorf("unexpected image %+v", got)
	}

	if !got.CreatedAt.Equal(ref.CreatedAt) || env.Payload.BatchSize != 2 {
		t.Errorf("unexpected payload %+v", env.Payload)
	}
}

func TestImageTopics(t *testing.T) {
	seen := map[string]bool{}
	for _, topic := range queue.ImageTopics {
		if seen[topic] {
			t.Errorf("duplicate topic %s", topic)
		}

		seen[topic] = true
	}

	if len(seen) != 5 {
		t.Errorf("expected 5 image topics, got %d", len(seen))
	}
}
