// Package db 处理数据库连接，按配置的类型选择 GORM dialector.
package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormPrometheus "gorm.io/plugin/prometheus"

	"github.com/yeisme/pixels/pkg/configs"
	nlog "github.com/yeisme/pixels/pkg/log"
)

// DialectorFactory 定义创建 dialector 的函数类型.
type DialectorFactory func(dsn string) gorm.Dialector

var (
	factoriesMu sync.RWMutex
	// dialectorFactories 存储数据库类型到 dialector 工厂的映射.
	dialectorFactories = map[configs.DBType]DialectorFactory{}
)

// RegisterDialectorFactory 注册数据库 dialector 工厂函数，别名类型共用同一个工厂.
func RegisterDialectorFactory(factory DialectorFactory, dbTypes ...configs.DBType) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	for _, t := range dbTypes {
		dialectorFactories[t] = factory
	}
}

// GetRegisteredDBTypes 返回已注册的数据库类型列表（按名称排序）.
func GetRegisteredDBTypes() []configs.DBType {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	types := make([]configs.DBType, 0, len(dialectorFactories))
	for dbType := range dialectorFactories {
		types = append(types, dbType)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// Client 包装 GORM DB 客户端.
type Client struct {
	*gorm.DB
}

type options struct {
	metrics  bool
	logLevel logger.LogLevel
}

// Option 调整连接行为.
type Option func(*options)

// WithMetrics 注册 gorm prometheus 插件.
func WithMetrics(enabled bool) Option {
	return func(o *options) { o.metrics = enabled }
}

// WithSQLLog 输出每条 SQL（调试模式使用）.
func WithSQLLog(enabled bool) Option {
	return func(o *options) {
		if enabled {
			o.logLevel = logger.Info
		}
	}
}

// New 按配置打开数据库连接并校验连通性.
func New(ctx context.Context, cfg *configs.DBConfig, opts ...Option) (*Client, error) {
	o := options{logLevel: logger.Warn}
	for _, opt := range opts {
		opt(&o)
	}

	dsn := cfg.GetDSN()
	if dsn == "" {
		return nil, fmt.Errorf("failed to generate DSN for database type: %s", cfg.Type)
	}

	factoriesMu.RLock()
	factory, exists := dialectorFactories[cfg.Type]
	factoriesMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	gormLogger := logger.New(
		nlog.Logger(),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  o.logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(factory(dsn), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client := &Client{DB: db}
	if o.metrics {
		if err := client.RegisterGORMMetrics(cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to register GORM metrics: %w", err)
		}
	}

	nlog.Logger().Info().
		Str("type", cfg.GetDBType()).
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Msg("database connected")

	return client, nil
}

// GetDB 返回 GORM DB 实例.
func (c *Client) GetDB() *gorm.DB {
	return c.DB
}

// Ping 检查连接是否可用，供健康检查使用.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Close 关闭底层连接池.
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

const defaultGORMMetricsRefreshInterval = 15 // 秒

// RegisterGORMMetrics 注册 GORM 连接池指标到默认注册表.
func (c *Client) RegisterGORMMetrics(dbName string) error {
	promConfig := gormPrometheus.Config{
		DBName:          dbName,
		RefreshInterval: defaultGORMMetricsRefreshInterval,
		StartServer:     false,
	}

	if err := c.Use(gormPrometheus.New(promConfig)); err != nil {
		return fmt.Errorf("failed to register GORM prometheus plugin: %w", err)
	}

	return nil
}
