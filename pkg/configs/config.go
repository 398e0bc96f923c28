// Package configs 管理应用程序配置，包括服务器、数据库、缓存、消息队列和对象存储的配置信息.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
//
// 环境变量使用 PIXELS_ 前缀，嵌套键使用下划线连接，例如 PIXELS_SERVER_PORT、PIXELS_DB_TYPE.
// 为兼容早期部署，PORT 与 DB_URL 分别映射到 server.port 与 db.dsn.
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yeisme/pixels/pkg/rule"
)

// AppVersion 应用版本，构建时可通过 -ldflags 覆盖.
var AppVersion = "0.1.0"

const (
	// AppName 应用名称，用于日志、追踪与对象存储的 AppInfo.
	AppName = "pixels"
	// EnvPrefix 环境变量前缀.
	EnvPrefix = "PIXELS"
)

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		Server         ServerConfig         `mapstructure:"server"`          // ServerConfig 服务器配置，端口、调试模式等
		DB             DBConfig             `mapstructure:"db"`              // DBConfig 数据库配置
		KV             KVConfig             `mapstructure:"kv"`              // KVConfig 键值存储配置
		MQ             MQConfig             `mapstructure:"mq"`              // MQConfig 消息队列配置
		S3             S3Config             `mapstructure:"s3"`              // S3Config 对象存储配置
		Upload         UploadConfig         `mapstructure:"upload"`          // UploadConfig 外部图床签名配置
		Cache          CacheConfig          `mapstructure:"cache"`           // CacheConfig HTTP 响应缓存
		Events         EventsConfig         `mapstructure:"events"`          // EventsConfig 领域事件开关
		Log            LogConfig            `mapstructure:"log"`             // LogConfig 日志相关配置
		Metrics        MetricsConfig        `mapstructure:"metrics"`         // MetricsConfig 监控配置
		Tracing        TracingConfig        `mapstructure:"tracing"`         // TracingConfig 追踪配置
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // CircuitBreakerConfig 熔断配置
		Scheduler      SchedulerConfig      `mapstructure:"scheduler"`       // SchedulerConfig 定时任务配置
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// 找不到配置文件时仅使用默认值与环境变量.
func InitConfig(path string) error {
	// .env 只补充尚未设置的环境变量
	_ = godotenv.Load()

	appViper = viper.New()
	setAllDefaults(appViper)

	if path == "" {
		path = "."
	}

	// 检查path是否是文件
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(filepath.Join(path, "configs"))

		for _, ext := range []string{"yaml", "yml", "json", "toml"} {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.SetEnvPrefix(EnvPrefix)
	appViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	appViper.AutomaticEnv()
	bindLegacyEnv(appViper)

	if err := appViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var next AppConfig
	if err := appViper.Unmarshal(&next); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := rule.ValidateStruct(&next); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	globalConfig = next

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// bindLegacyEnv 绑定无前缀的历史环境变量.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("db.dsn", EnvPrefix+"_DB_DSN", "DB_URL")
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig   ServerConfig
		dbConfig       DBConfig
		kvConfig       KVConfig
		mqConfig       MQConfig
		s3Config       S3Config
		uploadConfig   UploadConfig
		cacheConfig    CacheConfig
		eventsConfig   EventsConfig
		logConfig      LogConfig
		metricsConfig  MetricsConfig
		tracingConfig  TracingConfig
		cbConfig       CircuitBreakerConfig
		schedulerConfg SchedulerConfig
	)

	serverConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	kvConfig.setDefaults(v)
	mqConfig.setDefaults(v)
	s3Config.setDefaults(v)
	uploadConfig.setDefaults(v)
	cacheConfig.setDefaults(v)
	eventsConfig.setDefaults(v)
	logConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	tracingConfig.setDefaults(v)
	cbConfig.setDefaults(v)
	schedulerConfg.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload || v.ConfigFileUsed() == "" {
		return
	}
	// 启用配置热重载
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)
		fmt.Println("Reloading configuration...")

		var next AppConfig
		if err := v.Unmarshal(&next); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
			return
		}

		if err := rule.ValidateStruct(&next); err != nil {
			fmt.Printf("Rejected reloaded config: %v\n", err)
			return
		}

		globalConfig = next
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper 返回全局 Viper 实例，未初始化时为 nil.
func GetViper() *viper.Viper {
	return appViper
}
