package configs

import "github.com/spf13/viper"

const (
	// DefaultStoreRoot 默认存储根目录.
	DefaultStoreRoot = "./data/objects"
	// DefaultStoreFileMode 默认落盘文件权限（无可执行位）.
	DefaultStoreFileMode = 0o600
	// DefaultSnapshotPath 默认元数据快照文件路径.
	DefaultSnapshotPath = "./data/records.json"
	// DefaultMetadataBackend 默认元数据持久化后端.
	DefaultMetadataBackend = "snapshot"
)

// StoreConfig 本地磁盘对象存储配置.
type StoreConfig struct {
	Root     string `mapstructure:"root"      rule:"required"` // 存储根目录
	FileMode uint32 `mapstructure:"file_mode"`                 // 落盘文件权限，可执行位会被强制清除
	// MetadataBackend 元数据持久化后端：snapshot（扁平 JSON 快照）或 db（GORM）
	MetadataBackend string `mapstructure:"metadata_backend" rule:"oneof=snapshot db"`
	// SnapshotPath 快照文件路径，仅 snapshot 后端使用
	SnapshotPath string `mapstructure:"snapshot_path"`
}

func (c *StoreConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("store.root", DefaultStoreRoot)
	v.SetDefault("store.file_mode", DefaultStoreFileMode)
	v.SetDefault("store.metadata_backend", DefaultMetadataBackend)
	v.SetDefault("store.snapshot_path", DefaultSnapshotPath)
}
