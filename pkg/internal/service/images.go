package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/yeisme/pixels/pkg/cache"
	"github.com/yeisme/pixels/pkg/configs"
	ctxPkg "github.com/yeisme/pixels/pkg/context"
	"github.com/yeisme/pixels/pkg/internal/model"
	"github.com/yeisme/pixels/pkg/internal/types"
	"github.com/yeisme/pixels/pkg/log"
	"github.com/yeisme/pixels/pkg/queue"
)

// ImageService 图片目录服务.
type ImageService struct {
	store  Store
	pub    message.Publisher
	cache  *cache.Cache
	events configs.EventsConfig
	logger zerolog.Logger
}

// NewImageService 创建服务，store 必须非空.
func NewImageService(store Store, opts ...Option) *ImageService {
	s := &ImageService{
		store:  store,
		events: allEvents(),
		logger: log.Component("service.images"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateImages 为每个图片地址创建一条记录，共享标题与标签.
func (s *ImageService) CreateImages(ctx context.Context, req types.CreateImagesRequest) ([]model.Image, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	urls := compact(req.ImageURLs)
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: at least one image URL is required", ErrValidation)
	}

	tags := compact(req.Tags)

	images := make([]model.Image, len(urls))
	for i, u := range urls {
		images[i] = model.Image{
			Title:    title,
			ImageURL: u,
			// 每条记录持有独立的标签切片
			Tags: append([]string(nil), tags...),
		}
	}

	created, err := s.store.InsertMany(ctx, images)
	if err != nil {
		return nil, fmt.Errorf("create images: %w", err)
	}

	s.invalidate(ctx)

	if s.enabled(s.events.Image.Created) {
		for _, img := range created {
			s.report(ctx, queue.TopicImageCreated, queue.PublishImageCreated(s.pub,
				queue.ImageCreatedPayload{Image: toRef(img), BatchSize: len(created)}, s.header(ctx)...))
		}
	}

	return created, nil
}

// ListImages 按关键字、标签与排序返回全部匹配的图片.
func (s *ImageService) ListImages(ctx context.Context, req types.ListImagesRequest) ([]model.Image, error) {
	filter := model.ImageFilter{
		Search: strings.TrimSpace(req.Search),
		Tags:   compact(req.Tags),
	}

	images, err := s.store.Find(ctx, filter, ParseSort(req.SortBy))
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	return images, nil
}

// ParseSort 解析排序参数，未知取值按最新排序.
func ParseSort(sortBy string) model.ImageSort {
	switch strings.TrimSpace(sortBy) {
	case types.SortPopular:
		return model.SortPopular
	case types.SortHot:
		return model.SortHot
	default:
		return model.SortNewest
	}
}

// RecordView 浏览数加一.
func (s *ImageService) RecordView(ctx context.Context, id string) (*model.Image, error) {
	return s.count(ctx, id, model.CounterViews, 1, queue.TopicImageViewed, s.events.Image.Viewed)
}

// RecordLike 点赞数加一.
func (s *ImageService) RecordLike(ctx context.Context, id string) (*model.Image, error) {
	return s.count(ctx, id, model.CounterLikes, 1, queue.TopicImageLiked, s.events.Image.Liked)
}

// RemoveLike 点赞数减一，已为 0 时原样返回.
func (s *ImageService) RemoveLike(ctx context.Context, id string) (*model.Image, error) {
	return s.count(ctx, id, model.CounterLikes, -1, queue.TopicImageUnliked, s.events.Image.Unliked)
}

func (s *ImageService) count(ctx context.Context, id string, field model.Counter, delta int64, topic string, publish bool) (*model.Image, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	img, err := s.store.IncrementField(ctx, id, field, delta)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("update %s: %w", field, err)
	}

	s.invalidate(ctx)

	if s.enabled(publish) {
		value := img.Likes
		if field == model.CounterViews {
			value = img.Views
		}

		s.report(ctx, topic, queue.PublishImageCounter(s.pub, topic, queue.ImageCounterPayload{
			ImageID: img.ID,
			Field:   string(field),
			Delta:   delta,
			Value:   value,
		}, s.header(ctx)...))
	}

	return img, nil
}

// DeleteImage 删除图片并返回被删除的记录.
func (s *ImageService) DeleteImage(ctx context.Context, id string) (*model.Image, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	img, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("delete image: %w", err)
	}

	s.invalidate(ctx)

	if s.enabled(s.events.Image.Deleted) {
		s.report(ctx, queue.TopicImageDeleted,
			queue.PublishImageDeleted(s.pub, queue.ImageDeletedPayload{Image: toRef(*img)}, s.header(ctx)...))
	}

	return img, nil
}

// Stats 目录汇总.
func (s *ImageService) Stats(ctx context.Context) (model.CatalogSummary, error) {
	sum, err := s.store.Summary(ctx)
	if err != nil {
		return model.CatalogSummary{}, fmt.Errorf("catalog stats: %w", err)
	}

	return sum, nil
}

// invalidate 提升列表缓存代数，失败只记录日志.
func (s *ImageService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if _, err := s.cache.Bump(ctx, CacheNamespace); err != nil {
		l := ctxPkg.WithTraceContext(ctx, s.logger)
		l.Warn().Err(err).Msg("failed to invalidate image list cache")
	}
}

func (s *ImageService) enabled(topic bool) bool {
	return s.pub != nil && s.events.Enabled && topic
}

// report 记录发布失败，事件是尽力而为的.
func (s *ImageService) report(ctx context.Context, topic string, err error) {
	if err == nil {
		return
	}

	l := ctxPkg.WithTraceContext(ctx, s.logger)
	l.Warn().Err(err).Str("topic", topic).Msg("failed to publish image event")
}

func (s *ImageService) header(ctx context.Context) []func(*queue.EventHeader) {
	opts := []func(*queue.EventHeader){queue.WithProducer(configs.AppName)}
	if id := ctxPkg.TraceID(ctx); id != "" {
		opts = append(opts, queue.WithTraceID(id))
	}

	return opts
}

func toRef(img model.Image) queue.ImageRef {
	return queue.ImageRef{
		ID:        img.ID,
		Title:     img.Title,
		ImageURL:  img.ImageURL,
		Tags:      img.Tags,
		Likes:     img.Likes,
		Views:     img.Views,
		CreatedAt: img.CreatedAt,
	}
}

// compact 去掉首尾空白并丢弃空字符串，保持顺序.
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
