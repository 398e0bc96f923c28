package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool              `mapstructure:"enabled"` // 总开关
	Image   ImageEventsConfig `mapstructure:"image"`
}

// ImageEventsConfig 针对图片目录领域的事件开关。
type ImageEventsConfig struct {
	Created bool `mapstructure:"created"`
	Viewed  bool `mapstructure:"viewed"`
	Liked   bool `mapstructure:"liked"`
	Unliked bool `mapstructure:"unliked"`
	Deleted bool `mapstructure:"deleted"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	v.SetDefault("events.image.created", true)
	v.SetDefault("events.image.deleted", true)
	v.SetDefault("events.image.liked", true)
	v.SetDefault("events.image.unliked", true)
	// 浏览事件量大，默认关闭
	v.SetDefault("events.image.viewed", false)
}
