package mq_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/storage/mq"
	"github.com/yeisme/pixels/pkg/queue"
)

func memoryConfig() *configs.MQConfig {
	return &configs.MQConfig{
		Type:   configs.MQTypeMemory,
		Memory: configs.MQMemoryConfig{OutputBuffer: 16},
	}
}

func TestMemoryClient_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mq.New(ctx, memoryConfig(), mq.WithMetrics(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	ch, err := client.Subscribe(ctx, queue.TopicImageViewed)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	payload := queue.ImageCounterPayload{ImageID: "01HZ", Field: "views", Delta: 1, Value: 3}
	if err := queue.PublishImageCounter(client.Publisher(), queue.TopicImageViewed, payload); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-ch:
		env, err := queue.ParseImageCounter(msg)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		if env.Payload.Value != 3 || env.Header.Topic != queue.TopicImageViewed {
			t.Errorf("unexpected envelope %+v", env)
		}

		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}

	if err := client.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	client, err := mq.New(context.Background(), memoryConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}

	err = client.Publish(context.Background(), queue.TopicImageLiked, message.NewMessage("1", nil))
	if !errors.Is(err, mq.ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}

	if !errors.Is(client.Ping(context.Background()), mq.ErrClosed) {
		t.Error("expected ping to fail after close")
	}
}

func TestNew_UnknownType(t *testing.T) {
	if _, err := mq.New(context.Background(), &configs.MQConfig{Type: "kafka"}); err == nil {
		t.Fatal("expected error for unknown mq type")
	}

	types := mq.GetRegisteredTypes()
	if len(types) < 3 {
		t.Errorf("expected memory, nats and redis factories, got %v", types)
	}
}
