// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/model"
	"github.com/yeisme/pixels/pkg/log"
	"github.com/yeisme/pixels/pkg/metrics"
	"github.com/yeisme/pixels/pkg/scheduler"
)

// Summarizer 提供目录汇总，由 store.ImageStore 实现.
type Summarizer interface {
	Summary(ctx context.Context) (model.CatalogSummary, error)
}

// Purger 清理过期缓存，由 cache.Cache 实现.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// Deps 定时任务依赖，为 nil 的依赖对应的任务不注册.
type Deps struct {
	Catalog Summarizer
	Cache   Purger
}

// RegisterCronJobs 配置业务定时任务：
//   - catalog.stats 刷新目录汇总指标
//   - cache.purge 清理 KV 中已过期的缓存条目
func RegisterCronJobs(ctx context.Context, sched *scheduler.Scheduler, cfg configs.SchedulerConfig, deps Deps) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	if deps.Catalog != nil {
		if err := sched.AddCron(ctx, JobCatalogStats, cfg.CatalogStatsCron, CatalogStats(deps.Catalog)); err != nil {
			return err
		}
	}

	if deps.Cache != nil {
		if err := sched.AddCron(ctx, JobCachePurge, cfg.CachePurgeCron, CachePurge(deps.Cache)); err != nil {
			return err
		}
	}

	return nil
}

// CatalogStats 读取目录汇总并写入指标.
func CatalogStats(s Summarizer) scheduler.JobFunc {
	return func(ctx context.Context) error {
		sum, err := s.Summary(ctx)
		if err != nil {
			return fmt.Errorf("catalog summary: %w", err)
		}

		metrics.SetCatalog(sum.Images, sum.Likes, sum.Views)

		l := log.Component("jobs")
		l.Debug().Str("job", JobCatalogStats).
			Int64("images", sum.Images).Int64("likes", sum.Likes).Int64("views", sum.Views).
			Msg("catalog stats refreshed")

		return nil
	}
}

// CachePurge 清理过期缓存.
func CachePurge(p Purger) scheduler.JobFunc {
	return func(ctx context.Context) error {
		n, err := p.Purge(ctx)
		if err != nil {
			return fmt.Errorf("purge cache: %w", err)
		}

		if n > 0 {
			l := log.Component("jobs")
			l.Info().Str("job", JobCachePurge).Int("purged", n).Msg("expired cache entries purged")
		}

		return nil
	}
}
