package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/pixels/pkg/configs"
)

func init() {
	RegisterFactory(configs.MQTypeMemory, memoryFactory)
}

// memoryFactory 创建进程内 GoChannel，同一实例同时作为 Publisher 与 Subscriber.
func memoryFactory(_ context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (*Backend, error) {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.Memory.OutputBuffer,
		Persistent:          cfg.Memory.Persistent,
	}, logger)

	return &Backend{Publisher: ch, Subscriber: ch}, nil
}
