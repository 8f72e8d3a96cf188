package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultUploadMaxFileSize 单文件大小上限（10 MiB）.
	DefaultUploadMaxFileSize = 10 << 20
	// DefaultQuotaMaxUploads 配额窗口内允许的上传次数.
	DefaultQuotaMaxUploads = 100
	// DefaultQuotaWindowSeconds 配额窗口长度，单位秒.
	DefaultQuotaWindowSeconds = 3600
)

// UploadConfig 上传校验与配额配置.
type UploadConfig struct {
	MaxFileSize int64 `mapstructure:"max_file_size" rule:"min=1"`
	// AllowedExtensions 限定允许的扩展名子集，留空使用内置白名单
	AllowedExtensions  []string `mapstructure:"allowed_extensions"`
	QuotaMaxUploads    int      `mapstructure:"quota_max_uploads"     rule:"min=1"`
	QuotaWindowSeconds int      `mapstructure:"quota_window_seconds"  rule:"min=1"`
}

// GetQuotaWindow 返回配额窗口作为 time.Duration.
func (c *UploadConfig) GetQuotaWindow() time.Duration {
	return time.Duration(c.QuotaWindowSeconds) * time.Second
}

func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.max_file_size", DefaultUploadMaxFileSize)
	v.SetDefault("upload.allowed_extensions", []string{})
	v.SetDefault("upload.quota_max_uploads", DefaultQuotaMaxUploads)
	v.SetDefault("upload.quota_window_seconds", DefaultQuotaWindowSeconds)
}
