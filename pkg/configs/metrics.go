package configs

import (
	"github.com/spf13/viper"
)

// MetricsConfig Prometheus 指标配置.
// 启用后在主服务上暴露 Path（默认 /metrics），可选暴露 pprof.
type MetricsConfig struct {
	Enabled        bool              `mapstructure:"enabled"`
	Path           string            `mapstructure:"path"            rule:"omitempty,startswith=/"`
	Namespace      string            `mapstructure:"namespace"`       // 业务指标前缀
	RuntimeMetrics bool              `mapstructure:"runtime_metrics"` // 是否收集 Go 运行时与进程指标
	Labels         map[string]string `mapstructure:"labels"`          // 所有业务指标附带的常量标签
	Pprof          bool              `mapstructure:"pprof"`           // 是否暴露 /debug/pprof
}

// setDefaults 设置Metrics配置的默认值.
func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", AppName)
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.labels", map[string]string{})
	v.SetDefault("metrics.pprof", false)
}
