// Package storage 聚合图片目录依赖的存储资源：数据库、KV、消息队列与对象存储.
//
// Example:
//
//	mgr, err := storage.Init(ctx, configs.GetConfig(), storage.WithMetrics(metrics.GetRegistry()))
//	if err != nil {
//		// 处理错误
//	}
//	defer mgr.Close()
//
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/pixels/pkg/configs"
	dbc "github.com/yeisme/pixels/pkg/internal/storage/db"
	kvc "github.com/yeisme/pixels/pkg/internal/storage/kv"
	mqc "github.com/yeisme/pixels/pkg/internal/storage/mq"
	s3c "github.com/yeisme/pixels/pkg/internal/storage/s3"
	nlog "github.com/yeisme/pixels/pkg/log"
)

// Manager 聚合所有存储资源，S3 未启用时为 nil.
type Manager struct {
	DB *dbc.Client
	KV *kvc.Client
	MQ *mqc.Client
	S3 *s3c.Client
}

type options struct {
	registry prometheus.Registerer
}

// Option 调整初始化行为.
type Option func(*options)

// WithMetrics 为 DB 与 MQ 启用 prometheus 指标.
func WithMetrics(registry prometheus.Registerer) Option {
	return func(o *options) { o.registry = registry }
}

// Init 按配置初始化全部存储，任一必需组件失败时关闭已创建的资源并返回错误.
func Init(ctx context.Context, cfg *configs.AppConfig, opts ...Option) (*Manager, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{}

	dbi, err := dbc.New(ctx, &cfg.DB,
		dbc.WithMetrics(o.registry != nil),
		dbc.WithSQLLog(cfg.Server.Debug),
	)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	m.DB = dbi

	kvi, err := kvc.NewKVClient(ctx, &cfg.KV)
	if err != nil {
		_ = m.Close()

		return nil, fmt.Errorf("init kv: %w", err)
	}

	m.KV = kvi

	var mqOpts []mqc.Option
	if o.registry != nil {
		mqOpts = append(mqOpts, mqc.WithMetrics(o.registry))
	}

	mqi, err := mqc.New(ctx, &cfg.MQ, mqOpts...)
	if err != nil {
		_ = m.Close()

		return nil, fmt.Errorf("init mq: %w", err)
	}

	m.MQ = mqi

	if cfg.S3.Enabled {
		s3i, err := s3c.New(ctx, &cfg.S3)
		if err != nil {
			_ = m.Close()

			return nil, fmt.Errorf("init s3: %w", err)
		}

		m.S3 = s3i
	}

	nlog.Logger().Info().
		Str("db", cfg.DB.GetDBType()).
		Str("kv", string(m.KV.Type())).
		Str("mq", string(m.MQ.Type())).
		Bool("s3", m.S3 != nil).
		Msg("storage manager initialized")

	return m, nil
}

// GetS3Client 获取 S3 客户端.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 按创建的逆序关闭资源.
func (m *Manager) Close() error {
	var errs []error

	if m.S3 != nil {
		errs = append(errs, m.S3.Close())
	}

	if m.MQ != nil {
		errs = append(errs, m.MQ.Close())
	}

	if m.KV != nil {
		errs = append(errs, m.KV.Close())
	}

	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}

	return errors.Join(errs...)
}
