// Package service 实现图片目录的业务逻辑，HTTP 层与仓储层之间的一层.
package service

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/pixels/pkg/cache"
	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/model"
)

var (
	// ErrValidation 请求参数不合法.
	ErrValidation = errors.New("validation error")
	// ErrNotFound 图片不存在.
	ErrNotFound = model.ErrImageNotFound
)

// CacheNamespace 图片列表缓存使用的代数命名空间.
const CacheNamespace = "images"

// Store 图片仓储，ImageStore 为其 gorm 实现.
type Store interface {
	InsertMany(ctx context.Context, images []model.Image) ([]model.Image, error)
	Find(ctx context.Context, filter model.ImageFilter, sort model.ImageSort) ([]model.Image, error)
	IncrementField(ctx context.Context, id string, field model.Counter, delta int64) (*model.Image, error)
	DeleteByID(ctx context.Context, id string) (*model.Image, error)
	Summary(ctx context.Context) (model.CatalogSummary, error)
}

// Option 配置 ImageService 的可选协作者.
type Option func(*ImageService)

// WithPublisher 发布领域事件，nil 表示不发布.
func WithPublisher(pub message.Publisher) Option {
	return func(s *ImageService) { s.pub = pub }
}

// WithCache 写操作后使列表缓存失效.
func WithCache(c *cache.Cache) Option {
	return func(s *ImageService) { s.cache = c }
}

// WithEvents 按主题开关事件.
func WithEvents(cfg configs.EventsConfig) Option {
	return func(s *ImageService) { s.events = cfg }
}

// allEvents 未配置时全部发布.
func allEvents() configs.EventsConfig {
	return configs.EventsConfig{
		Enabled: true,
		Image:   configs.ImageEventsConfig{Created: true, Viewed: true, Liked: true, Unliked: true, Deleted: true},
	}
}
