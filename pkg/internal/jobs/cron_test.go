package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yeisme/pixels/pkg/cache"
	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/jobs"
	"github.com/yeisme/pixels/pkg/internal/model"
	"github.com/yeisme/pixels/pkg/internal/storage/kv"
	"github.com/yeisme/pixels/pkg/metrics"
	"github.com/yeisme/pixels/pkg/scheduler"
)

type summaryFunc func(ctx context.Context) (model.CatalogSummary, error)

func (f summaryFunc) Summary(ctx context.Context) (model.CatalogSummary, error) { return f(ctx) }

func TestCatalogStats(t *testing.T) {
	job := jobs.CatalogStats(summaryFunc(func(context.Context) (model.CatalogSummary, error) {
		return model.CatalogSummary{Images: 7, Likes: 3, Views: 40}, nil
	}))

	if err := job(context.Background()); err != nil {
		t.Fatalf("job: %v", err)
	}

	if got := testutil.ToFloat64(metrics.CatalogImages); got != 7 {
		t.Errorf("images gauge = %v", got)
	}

	if got := testutil.ToFloat64(metrics.CatalogViews); got != 40 {
		t.Errorf("views gauge = %v", got)
	}

	failing := jobs.CatalogStats(summaryFunc(func(context.Context) (model.CatalogSummary, error) {
		return model.CatalogSummary{}, errors.New("db down")
	}))
	if err := failing(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestCachePurge(t *testing.T) {
	ctx := context.Background()

	store, err := kv.NewKVStore(ctx, kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("kv: %v", err)
	}

	c := cache.NewCache(store)
	_ = cache.Set(ctx, c, "a", 1, 5*time.Millisecond)
	_ = cache.Set(ctx, c, "b", 2, time.Hour)

	time.Sleep(20 * time.Millisecond)

	if err := jobs.CachePurge(c)(ctx); err != nil {
		t.Fatalf("purge: %v", err)
	}

	if ok, _ := store.Exists(ctx, cache.DefaultPrefix+"a"); ok {
		t.Error("expired entry should be purged")
	}

	if ok, _ := c.Exists(ctx, "b"); !ok {
		t.Error("live entry must survive")
	}
}

func TestRegisterCronJobs(t *testing.T) {
	sched, err := scheduler.NewScheduler()
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	defer sched.Stop()

	cfg := configs.SchedulerConfig{
		Enabled:          true,
		CatalogStatsCron: configs.DefaultCatalogStatsCron,
		CachePurgeCron:   configs.DefaultCachePurgeCron,
	}

	deps := jobs.Deps{
		Catalog: summaryFunc(func(context.Context) (model.CatalogSummary, error) { return model.CatalogSummary{}, nil }),
	}

	if err := jobs.RegisterCronJobs(context.Background(), sched, cfg, deps); err != nil {
		t.Fatalf("register: %v", err)
	}

	infos := sched.GetJobInfos()
	if len(infos) != 1 || infos[0].Name != jobs.JobCatalogStats {
		t.Errorf("unexpected jobs %+v", infos)
	}

	if err := jobs.RegisterCronJobs(context.Background(), nil, cfg, deps); err == nil {
		t.Error("nil scheduler should fail")
	}
}
