// Package store 提供基于 gorm 的图片目录仓储.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yeisme/pixels/pkg/internal/model"
	"github.com/yeisme/pixels/pkg/tracing"
)

// ErrInvalidCounter 计数字段不在白名单内.
var ErrInvalidCounter = errors.New("invalid counter field")

// ImageStore 图片仓储.
type ImageStore struct {
	db *gorm.DB
}

// NewImageStore 基于已连接的 *gorm.DB 创建仓储.
func NewImageStore(db *gorm.DB) *ImageStore {
	return &ImageStore{db: db}
}

// Migrate 同步表结构，并为缺少搜索文本的旧记录补齐 tags_text.
func (s *ImageStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&model.Image{}); err != nil {
		return err
	}

	var stale []model.Image

	return db.Select("id", "tags").
		Where("tags_text = '' AND tags IS NOT NULL AND tags <> '[]'").
		FindInBatches(&stale, 200, func(_ *gorm.DB, _ int) error {
			for _, img := range stale {
				err := s.db.WithContext(ctx).Model(&model.Image{}).Where("id = ?", img.ID).
					Update("tags_text", model.TagsText(img.Tags)).Error
				if err != nil {
					return fmt.Errorf("backfill tags_text: %w", err)
				}
			}

			return nil
		}).Error
}

// InsertMany 在一个事务中插入一批图片，任意一条失败则整体回滚.
// 同一批次共享创建时间，返回带 ID 的记录.
func (s *ImageStore) InsertMany(ctx context.Context, images []model.Image) (_ []model.Image, err error) {
	ctx, span := tracing.StartSpan(ctx, "store.images.insert_many",
		trace.WithAttributes(attribute.Int("images.batch_size", len(images))))
	defer func() { tracing.EndSpan(span, err) }()

	if len(images) == 0 {
		return []model.Image{}, nil
	}

	now := time.Now().UTC()
	for i := range images {
		if images[i].CreatedAt.IsZero() {
			images[i].CreatedAt = now
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&images).Error
	})
	if err != nil {
		return nil, fmt.Errorf("insert images: %w", err)
	}

	return images, nil
}

// Find 返回全部匹配记录，不分页.
func (s *ImageStore) Find(ctx context.Context, filter model.ImageFilter, sort model.ImageSort) (_ []model.Image, err error) {
	ctx, span := tracing.StartSpan(ctx, "store.images.find",
		trace.WithAttributes(attribute.String("images.sort", string(sort))))
	defer func() { tracing.EndSpan(span, err) }()

	q := s.db.WithContext(ctx).Model(&model.Image{})

	if terms := strings.Fields(filter.Search); len(terms) > 0 {
		conds := make([]string, 0, len(terms))
		args := make([]any, 0, len(terms)*2)

		for _, term := range terms {
			pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
			conds = append(conds, "(LOWER(title) LIKE ? ESCAPE '!' OR tags_text LIKE ? ESCAPE '!')")
			args = append(args, pattern, pattern)
		}

		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	if len(filter.Tags) > 0 {
		conds := make([]string, 0, len(filter.Tags))
		args := make([]any, 0, len(filter.Tags))

		for _, tag := range filter.Tags {
			// 与 serializer:json 写入的格式一致，精确匹配数组元素
			encoded, mErr := sonic.ConfigStd.MarshalToString(tag)
			if mErr != nil {
				return nil, fmt.Errorf("encode tag: %w", mErr)
			}

			conds = append(conds, "tags LIKE ? ESCAPE '!'")
			args = append(args, "%"+escapeLike(encoded)+"%")
		}

		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	for _, order := range orderBy(sort) {
		q = q.Order(order)
	}

	images := make([]model.Image, 0)
	if err = q.Find(&images).Error; err != nil {
		return nil, fmt.Errorf("find images: %w", err)
	}

	return images, nil
}

// orderBy 返回排序子句，最后总以 id 倒序打破平局.
func orderBy(sort model.ImageSort) []string {
	switch sort {
	case model.SortPopular:
		return []string{"likes DESC", "views DESC", "id DESC"}
	case model.SortHot:
		return []string{"created_at DESC", "likes DESC", "views DESC", "id DESC"}
	default:
		return []string{"created_at DESC", "id DESC"}
	}
}

// IncrementField 原子地修改计数字段并返回最新记录.
// delta 为负且当前值不足时不做修改，返回原记录.
func (s *ImageStore) IncrementField(ctx context.Context, id string, field model.Counter, delta int64) (_ *model.Image, err error) {
	ctx, span := tracing.StartSpan(ctx, "store.images.increment",
		trace.WithAttributes(
			attribute.String("image.id", id),
			attribute.String("image.counter", string(field)),
			attribute.Int64("image.delta", delta),
		))
	defer func() { tracing.EndSpan(span, err) }()

	if !field.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCounter, field)
	}

	col := string(field)

	var img model.Image

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Image{}).Where("id = ?", id)
		if delta < 0 {
			q = q.Where(col+" >= ?", -delta)
		}

		if res := q.UpdateColumn(col, gorm.Expr(col+" + ?", delta)); res.Error != nil {
			return res.Error
		}

		return tx.Where("id = ?", id).First(&img).Error
	})
	if err != nil {
		return nil, translate(err, "increment "+col)
	}

	return &img, nil
}

// DeleteByID 删除并返回被删除的记录.
func (s *ImageStore) DeleteByID(ctx context.Context, id string) (_ *model.Image, err error) {
	ctx, span := tracing.StartSpan(ctx, "store.images.delete",
		trace.WithAttributes(attribute.String("image.id", id)))
	defer func() { tracing.EndSpan(span, err) }()

	var img model.Image

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&img).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.Image{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
	if err != nil {
		return nil, translate(err, "delete image")
	}

	return &img, nil
}

// Summary 统计图片数量与计数总和.
func (s *ImageStore) Summary(ctx context.Context) (_ model.CatalogSummary, err error) {
	ctx, span := tracing.StartSpan(ctx, "store.images.summary")
	defer func() { tracing.EndSpan(span, err) }()

	var sum model.CatalogSummary

	err = s.db.WithContext(ctx).Model(&model.Image{}).
		Select("COUNT(*) AS images, COALESCE(SUM(likes), 0) AS likes, COALESCE(SUM(views), 0) AS views").
		Scan(&sum).Error
	if err != nil {
		return model.CatalogSummary{}, fmt.Errorf("summarize images: %w", err)
	}

	return sum, nil
}

func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrImageNotFound
	}

	return fmt.Errorf("%s: %w", op, err)
}

// escapeLike 转义 LIKE 通配符，转义字符为 '!'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
