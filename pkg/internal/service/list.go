package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// FileSummary 列表项：仅展示安全字段，不含存储键与校验和.
type FileSummary struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	ByteSize    int64  `json:"byte_size"`
	ContentType string `json:"content_type"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// ListResult 分页列表结果.
type ListResult struct {
	Files []FileSummary `json:"files"`
	Total int           `json:"total"`
}

// ListForOwner 按所有者与可选状态过滤，新记录在前，分页返回.
// limit <= 0 表示不限制.
func (s *UploadService) ListForOwner(_ context.Context, owner, status string, limit, offset int) (*ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*model.FileRecord, 0)

	for _, rec := range s.records {
		if !rec.OwnedBy(owner) {
			continue
		}

		if status != "" && string(rec.Status) != strings.ToLower(status) {
			continue
		}

		matched = append(matched, rec)
	}

	// 新记录在前；创建时间相同时按 ID 倒序保证稳定
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}

		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	if offset > 0 {
		if offset >= total {
			matched = nil
		} else {
			matched = matched[offset:]
		}
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	files := make([]FileSummary, 0, len(matched))
	for _, rec := range matched {
		files = append(files, FileSummary{
			ID:          rec.ID,
			FileName:    rec.DisplayName,
			ByteSize:    rec.ByteSize,
			ContentType: rec.ContentType,
			Status:      string(rec.Status),
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		})
	}

	return &ListResult{Files: files, Total: total}, nil
}

// StatsForOwner 当前用户的文件统计.
func (s *UploadService) StatsForOwner(_ context.Context, owner string) *types.StatsFilesSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &types.StatsFilesSummary{}

	for _, rec := range s.records {
		if !rec.OwnedBy(owner) {
			continue
		}

		summary.TotalFiles++
		summary.TotalSize += rec.ByteSize

		switch rec.Status {
		case model.StatusActive:
			summary.ActiveFiles++
			summary.ActiveSize += rec.ByteSize
		case model.StatusDeleted:
			summary.DeletedFiles++
		case model.StatusQuarantined:
			summary.QuarantinedFiles++
		}
	}

	return summary
}

// QuotaStatusForOwner 当前用户的配额窗口状态.
func (s *UploadService) QuotaStatusForOwner(owner string) *types.QuotaStatus {
	used, limit, resetAfter := s.quota.Status(owner)

	return &types.QuotaStatus{
		Used:              used,
		Limit:             limit,
		WindowSeconds:     int(s.quota.Window().Seconds()),
		ResetAfterSeconds: int64(resetAfter.Seconds()),
	}
}
