// Package model 定义文件记录等核心领域模型.
package model

import (
	"time"

	"github.com/bytedance/sonic"
)

// FileStatus 文件记录状态.
// 状态机：active -> deleted（终态）、active -> quarantined（终态），不允许其它迁移.
type FileStatus string

const (
	StatusActive      FileStatus = "active"      // 正常可访问
	StatusDeleted     FileStatus = "deleted"     // 已删除（记录保留用于审计）
	StatusQuarantined FileStatus = "quarantined" // 隔离，所有者永久不可访问
)

// ScanStatus 安全扫描状态，创建时写入一次.
type ScanStatus string

const (
	ScanPending  ScanStatus = "pending"  // 等待扫描
	ScanClean    ScanStatus = "clean"    // 扫描通过
	ScanInfected ScanStatus = "infected" // 检出威胁
	ScanError    ScanStatus = "error"    // 扫描失败
)

// FileRecord 文件元数据记录，持久化的最小单元.
// StorageKey 由存储层生成，与用户提供的文件名无关；DisplayName 仅用于展示和下载头.
type FileRecord struct {
	// ID 全局唯一标识（ULID，可按时间排序），创建后不可变
	ID string `gorm:"primaryKey;size:26" json:"id"`
	// OwnerID 创建该记录的认证用户，创建后不可变
	OwnerID string `gorm:"size:255;index" json:"owner_id"`
	// DisplayName 清洗后的原始文件名，仅用于展示
	DisplayName string `gorm:"size:512" json:"display_name"`
	// StorageKey 磁盘定位键，全局唯一且永不复用
	StorageKey  string `gorm:"size:255;uniqueIndex" json:"storage_key"`
	ByteSize    int64  `gorm:"index"    json:"byte_size"`
	ContentType string `gorm:"size:255" json:"content_type"`
	Extension   string `gorm:"size:16"  json:"extension"`
	// Checksum 验证时计算的 SHA-256 内容哈希，写入校验与审计指纹共用
	Checksum string     `gorm:"size:64"        json:"checksum"`
	Status   FileStatus `gorm:"size:16;index"  json:"status"`
	Scan     ScanStatus `gorm:"size:16;index"  json:"scan_status"`
	// MetadataJSON 调用方附加元数据，以 JSON 字符串存储便于跨后端复用
	MetadataJSON   string    `gorm:"type:text" json:"metadata_json,omitempty"`
	CreatedAt      time.Time `gorm:"index"     json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	AccessCount    int64     `json:"access_count"`
}

// OwnedBy 判断记录是否属于指定用户，所有权检查统一经过这里.
func (r *FileRecord) OwnedBy(user string) bool {
	return user != "" && r.OwnerID == user
}

// Accessible 判断记录当前是否可被所有者读取.
func (r *FileRecord) Accessible() bool {
	return r.Status == StatusActive && r.Scan == ScanClean
}

// CanTransitionTo 校验状态迁移是否合法.deleted 与 quarantined 均为终态.
func (s FileStatus) CanTransitionTo(target FileStatus) bool {
	if s != StatusActive {
		return false
	}

	return target == StatusDeleted || target == StatusQuarantined
}

// SetMetadata 序列化附加元数据.nil 或空 map 时清空字段.
func (r *FileRecord) SetMetadata(meta map[string]string) error {
	if len(meta) == 0 {
		r.MetadataJSON = ""
		return nil
	}

	b, err := sonic.Marshal(meta)
	if err != nil {
		return err
	}

	r.MetadataJSON = string(b)

	return nil
}

// Metadata 反序列化附加元数据，字段为空时返回 nil.
func (r *FileRecord) Metadata() (map[string]string, error) {
	if r.MetadataJSON == "" {
		return nil, nil
	}

	var meta map[string]string
	if err := sonic.Unmarshal([]byte(r.MetadataJSON), &meta); err != nil {
		return nil, err
	}

	return meta, nil
}
