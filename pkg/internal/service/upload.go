package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/disk"
	"github.com/yeisme/docvault/pkg/internal/types"
	"github.com/yeisme/docvault/pkg/internal/validation"
	nlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
)

// Upload 执行完整的上传序列：配额 -> 校验 -> 扫描 -> 落盘 -> 记录 -> 持久化.
// 配额只在全部步骤成功后消耗；配额拒绝与校验拒绝都不触碰存储.
func (s *UploadService) Upload(ctx context.Context, owner, declaredName, declaredType string,
	data []byte, metadata map[string]string,
) (*types.UploadFileResponse, error) {
	if owner == "" {
		return nil, fmt.Errorf("service: owner is required")
	}

	// 1. 准入配额检查（不消耗）
	if ok, retryAfter := s.quota.Check(owner); !ok {
		qErr := &types.QuotaError{
			User:       owner,
			Limit:      s.quota.Limit(),
			RetryAfter: retryAfter,
		}

		nlog.Logger().Warn().Str("owner", owner).Dur("retry_after", retryAfter).
			Msg("upload rejected: quota exceeded")
		s.publishQuotaExceeded(owner, retryAfter)
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()

		return nil, qErr
	}

	// 2. 内容校验
	result := s.validator.Validate(data, declaredName, declaredType)
	if !result.Accepted {
		vErr := &types.ValidationError{
			FileName: validation.SanitizeDisplayName(declaredName),
			Errors:   result.Errors,
			Warnings: result.Warnings,
		}

		nlog.Logger().Warn().Str("owner", owner).Strs("errors", result.Errors).
			Msg("upload rejected: validation failed")
		s.publishUploadRejected(owner, vErr.FileName, int64(len(data)), result.Errors)
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()

		return nil, vErr
	}

	// 3. 安全扫描：infected 与扫描器故障都进入隔离，绝不静默放行
	scanStatus, scanDetail, scanErr := s.scanner.Scan(ctx, data)
	if scanErr != nil {
		scanStatus = model.ScanError
		scanDetail = scanErr.Error()
	}

	// 4. 落盘：写入校验失败时存储层已自行清理残留
	key, err := s.store.Put(ctx, data, result.Sanitized.Extension, result.Sanitized.Checksum)
	if err != nil {
		retryable := !errors.Is(err, disk.ErrIntegrity)

		nlog.Logger().Error().Err(err).Str("owner", owner).Bool("retryable", retryable).
			Msg("upload failed: storage put")
		metrics.UploadsTotal.WithLabelValues("failed").Inc()

		return nil, types.NewStorageError("put", retryable, err)
	}

	now := time.Now().UTC()

	rec := &model.FileRecord{
		ID:          newRecordID(now),
		OwnerID:     owner,
		DisplayName: result.Sanitized.DisplayName,
		StorageKey:  key,
		ByteSize:    int64(len(data)),
		ContentType: result.Sanitized.ContentType,
		Extension:   result.Sanitized.Extension,
		Checksum:    result.Sanitized.Checksum,
		Status:      model.StatusActive,
		Scan:        scanStatus,
		CreatedAt:   now,
	}

	if scanStatus != model.ScanClean {
		rec.Status = model.StatusQuarantined
	}

	if err := rec.SetMetadata(metadata); err != nil {
		s.removeObject(ctx, key)
		return nil, fmt.Errorf("service: encode metadata: %w", err)
	}

	// 5. 记录入索引并持久化快照，失败则整体回滚
	s.mu.Lock()
	s.records[rec.ID] = rec

	if err := s.persistLocked(ctx); err != nil {
		delete(s.records, rec.ID)
		s.mu.Unlock()
		s.removeObject(ctx, key)

		return nil, types.NewStorageError("persist", true, err)
	}
	s.mu.Unlock()

	// 6. 全部成功后才消耗配额
	s.quota.Consume(owner)

	if rec.Status == model.StatusQuarantined {
		nlog.Logger().Warn().Str("owner", owner).Str("record", rec.ID).
			Str("scan", string(scanStatus)).Str("detail", scanDetail).
			Msg("upload quarantined by security scan")
		s.publishFileQuarantined(rec, "scan_"+string(scanStatus))
		metrics.UploadsTotal.WithLabelValues("quarantined").Inc()
		metrics.QuarantinesTotal.WithLabelValues("scan").Inc()

		return nil, types.ErrScanRejected
	}

	nlog.Logger().Info().Str("owner", owner).Str("record", rec.ID).
		Int64("size", rec.ByteSize).Str("type", rec.ContentType).
		Msg("file stored")
	s.publishFileStored(rec)
	metrics.UploadsTotal.WithLabelValues("stored").Inc()

	return &types.UploadFileResponse{
		File:     types.FileInfoFromRecord(rec),
		Warnings: result.Warnings,
	}, nil
}

// removeObject 回滚时清理已落盘对象，失败只记日志.
func (s *UploadService) removeObject(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil && !errors.Is(err, disk.ErrNotFound) {
		nlog.Logger().Error().Err(err).Str("key", key).Msg("rollback: failed to remove object")
	}
}
