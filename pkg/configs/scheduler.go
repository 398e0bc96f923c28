package configs

import "github.com/spf13/viper"

const (
	DefaultCatalogStatsCron = "*/5 * * * *"
	DefaultCachePurgeCron   = "17 * * * *"
)

// SchedulerConfig 定时任务配置.
type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	CatalogStatsCron string `mapstructure:"catalog_stats_cron" rule:"required"`
	CachePurgeCron   string `mapstructure:"cache_purge_cron"   rule:"required"`
}

func (c *SchedulerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.catalog_stats_cron", DefaultCatalogStatsCron)
	v.SetDefault("scheduler.cache_purge_cron", DefaultCachePurgeCron)
}
