package types

import (
	"time"

	"github.com/yeisme/docvault/pkg/internal/model"
)

// FileInfo 对外呈现的文件记录视图.存储键不对外暴露.
type FileInfo struct {
	ID             string            `json:"id"`
	FileName       string            `json:"file_name"`
	ByteSize       int64             `json:"byte_size"`
	ContentType    string            `json:"content_type"`
	Extension      string            `json:"extension"`
	Checksum       string            `json:"checksum"`
	Status         string            `json:"status"`
	ScanStatus     string            `json:"scan_status"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at,omitempty"`
	AccessCount    int64             `json:"access_count"`
}

// FileInfoFromRecord 把领域记录投影为对外视图.
func FileInfoFromRecord(r *model.FileRecord) FileInfo {
	meta, _ := r.Metadata()

	return FileInfo{
		ID:             r.ID,
		FileName:       r.DisplayName,
		ByteSize:       r.ByteSize,
		ContentType:    r.ContentType,
		Extension:      r.Extension,
		Checksum:       r.Checksum,
		Status:         string(r.Status),
		ScanStatus:     string(r.Scan),
		Metadata:       meta,
		CreatedAt:      r.CreatedAt,
		LastAccessedAt: r.LastAccessedAt,
		AccessCount:    r.AccessCount,
	}
}

// ListFilesRequest 文件列表查询参数.
type ListFilesRequest struct {
	Status string `form:"status" json:"status,omitempty" rule:"omitempty,oneof=active deleted quarantined"`
}

// ListFilesResponse 文件列表响应.
type ListFilesResponse struct {
	Files []FileInfo `json:"files"`
	Total int        `json:"total"`
}

// FileMetaResponse 单条记录的元数据响应.
type FileMetaResponse struct {
	File FileInfo `json:"file"`
}

// DeleteFileResponse 删除响应.
type DeleteFileResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
