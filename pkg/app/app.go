// Package app 负责按配置初始化各组件并管理服务的启动与优雅退出.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/pixels/pkg/api"
	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/jobs"
	"github.com/yeisme/pixels/pkg/internal/mq"
	"github.com/yeisme/pixels/pkg/internal/storage"
	"github.com/yeisme/pixels/pkg/log"
	"github.com/yeisme/pixels/pkg/metrics"
	"github.com/yeisme/pixels/pkg/scheduler"
	"github.com/yeisme/pixels/pkg/tracing"
)

// App 持有运行期的全部资源.
type App struct {
	config    *configs.AppConfig
	storage   *storage.Manager
	server    *api.Server
	scheduler *scheduler.Scheduler
	consumer  *mq.Consumer
	http      *http.Server
	logger    zerolog.Logger
}

// NewApp 加载配置并初始化日志、追踪、指标、存储、调度器与事件消费者.
// 初始化失败时释放已创建的资源.
func NewApp(ctx context.Context, configPath string) (_ *App, err error) {
	if err = configs.InitConfig(configPath); err != nil {
		return nil, err
	}

	config := configs.GetConfig()

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	if err = tracing.InitTracer(config.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	if err = metrics.InitMetrics(config.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	var storageOpts []storage.Option
	if metrics.Enabled() {
		storageOpts = append(storageOpts, storage.WithMetrics(metrics.GetRegistry()))
	}

	a := &App{config: config, logger: log.Component("app")}

	defer func() {
		if err != nil {
			_ = a.close(context.Background())
		}
	}()

	if a.storage, err = storage.Init(ctx, config, storageOpts...); err != nil {
		return nil, err
	}

	var apiOpts []api.Option

	if config.Scheduler.Enabled {
		if a.scheduler, err = scheduler.NewScheduler(); err != nil {
			return nil, fmt.Errorf("init scheduler: %w", err)
		}

		apiOpts = append(apiOpts, api.WithScheduler(a.scheduler))
	}

	if a.server, err = api.New(ctx, config, a.storage, apiOpts...); err != nil {
		return nil, err
	}

	if a.scheduler != nil {
		deps := jobs.Deps{Catalog: a.server.Store, Cache: a.server.Cache}
		if err = jobs.RegisterCronJobs(ctx, a.scheduler, config.Scheduler, deps); err != nil {
			return nil, fmt.Errorf("register jobs: %w", err)
		}
	}

	if config.Events.Enabled {
		var consumerOpts []mq.ConsumerOption
		if metrics.Enabled() {
			consumerOpts = append(consumerOpts, mq.WithRouterMetrics(metrics.GetRegistry()))
		}

		mqc := a.storage.GetMQClient()
		if a.consumer, err = mq.NewConsumer(mqc.Subscriber(), mqc.Logger(), consumerOpts...); err != nil {
			return nil, fmt.Errorf("init consumer: %w", err)
		}
	}

	a.http = &http.Server{
		Addr:              net.JoinHostPort(config.Server.Host, strconv.Itoa(config.Server.Port)),
		Handler:           a.server.Engine,
		ReadHeaderTimeout: config.Server.GetTimeoutDuration(),
	}

	return a, nil
}

// Engine 返回 gin 引擎.
func (a *App) Engine() *gin.Engine {
	return a.server.Engine
}

// Run 启动 HTTP 服务、调度器与事件消费者，阻塞到 ctx 取消或任一组件失败，然后优雅退出.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.scheduler != nil {
		a.scheduler.Start()
	}

	if a.consumer != nil {
		g.Go(func() error {
			if err := a.consumer.Run(gctx); err != nil {
				return fmt.Errorf("event consumer: %w", err)
			}

			return nil
		})
	}

	g.Go(func() error {
		a.logger.Info().Str("addr", a.http.Addr).Msg("http server listening")

		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		timeout := a.config.Server.GetShutdownDuration()
		if timeout <= 0 {
			timeout = 10 * time.Second
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		a.logger.Info().Dur("timeout", timeout).Msg("shutting down")

		return a.close(shutdownCtx)
	})

	return g.Wait()
}

// close 按依赖的逆序释放资源，收集全部错误.
func (a *App) close(ctx context.Context) error {
	var errs []error

	if a.http != nil {
		errs = append(errs, a.http.Shutdown(ctx))
	}

	if a.consumer != nil {
		errs = append(errs, a.consumer.Close())
	}

	if a.scheduler != nil {
		errs = append(errs, a.scheduler.Stop())
	}

	if a.storage != nil {
		errs = append(errs, a.storage.Close())
	}

	errs = append(errs, tracing.ShutdownTracer(ctx))

	return errors.Join(errs...)
}
