package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool             `mapstructure:"enabled"` // 总开关
	File    FileEventsConfig `mapstructure:"file"`
}

// FileEventsConfig 针对文件生命周期的事件开关。
type FileEventsConfig struct {
	Stored        bool `mapstructure:"stored"`
	Deleted       bool `mapstructure:"deleted"`
	Quarantined   bool `mapstructure:"quarantined"`
	Rejected      bool `mapstructure:"rejected"`
	QuotaExceeded bool `mapstructure:"quota_exceeded"`
	Accessed      bool `mapstructure:"accessed"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 文件生命周期事件：默认开启安全相关的最小必要集
	v.SetDefault("events.file.stored", true)
	v.SetDefault("events.file.deleted", true)
	v.SetDefault("events.file.quarantined", true)
	v.SetDefault("events.file.rejected", true)

	// 可选事件：默认关闭，按需开启
	v.SetDefault("events.file.quota_exceeded", false)
	v.SetDefault("events.file.accessed", false) // 访问事件量可能很大，默认关闭
}
