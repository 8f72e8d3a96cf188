package service

import (
	"context"
	"errors"
	"time"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/disk"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
)

// FetchResult 读取结果.
type FetchResult struct {
	Data        []byte
	DisplayName string
	ContentType string
	ByteSize    int64
}

// Fetch 读取文件内容.所有权不符按安全事件记录并返回 ErrForbidden，
// 处理层会把它与 ErrNotFound 统一呈现，避免向非所有者确认记录存在.
// 读取前比对磁盘内容校验和，不匹配立即隔离记录.
func (s *UploadService) Fetch(ctx context.Context, id, requester string) (*FetchResult, error) {
	s.mu.RLock()
	rec := s.lookup(id)

	if rec == nil {
		s.mu.RUnlock()
		return nil, types.ErrNotFound
	}

	if !rec.OwnedBy(requester) {
		owner := rec.OwnerID
		s.mu.RUnlock()

		// 安全事件：探测他人记录
		nlog.Logger().Warn().Str("record", id).Str("actor", requester).
			Msg("access denied: ownership check failed on fetch")
		s.publishAccessDenied(id, owner, requester, "fetch")

		return nil, types.ErrForbidden
	}

	if !rec.Accessible() {
		s.mu.RUnlock()
		return nil, types.ErrNotAccessible
	}

	checksum := rec.Checksum
	storageKey := rec.StorageKey
	s.mu.RUnlock()

	// 读取时完整性校验：磁盘内容必须与记录指纹一致
	if err := s.store.VerifyChecksum(ctx, storageKey, checksum); err != nil {
		if errors.Is(err, disk.ErrIntegrity) {
			s.quarantine(ctx, id, "integrity_fault", err)
			return nil, types.NewStorageError("fetch", false, err)
		}

		return nil, types.NewStorageError("fetch", true, err)
	}

	data, err := s.store.Get(ctx, storageKey)
	if err != nil {
		// 可执行位或可执行签名意味着磁盘内容被篡改，同样隔离
		if errors.Is(err, disk.ErrExecutable) {
			s.quarantine(ctx, id, "integrity_fault", err)
			return nil, types.NewStorageError("fetch", false, err)
		}

		return nil, types.NewStorageError("fetch", true, err)
	}

	// 访问簿记：失败不影响本次读取结果
	s.mu.Lock()

	res := &FetchResult{Data: data}

	if rec := s.lookup(id); rec != nil {
		rec.LastAccessedAt = time.Now().UTC()
		rec.AccessCount++
		res.DisplayName = rec.DisplayName
		res.ContentType = rec.ContentType
		res.ByteSize = rec.ByteSize

		if err := s.persistLocked(ctx); err != nil {
			nlog.Logger().Error().Err(err).Str("record", id).
				Msg("failed to persist access bookkeeping")
		}

		s.publishFileAccessed(rec)
	}
	s.mu.Unlock()

	return res, nil
}

// GetRecordMetadata 返回单条记录的元数据视图.
// 已删除或被隔离的记录对所有者依然可见（内容不可读，元数据保留用于审计）.
func (s *UploadService) GetRecordMetadata(_ context.Context, id, requester string) (*types.FileMetaResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := s.lookup(id)
	if rec == nil {
		return nil, types.ErrNotFound
	}

	if !rec.OwnedBy(requester) {
		nlog.Logger().Warn().Str("record", id).Str("actor", requester).
			Msg("access denied: ownership check failed on meta")
		s.publishAccessDenied(id, rec.OwnerID, requester, "meta")

		return nil, types.ErrForbidden
	}

	return &types.FileMetaResponse{File: types.FileInfoFromRecord(rec)}, nil
}

// quarantine 把记录迁入隔离终态并持久化.用于读取时发现的完整性故障.
func (s *UploadService) quarantine(ctx context.Context, id, reason string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(id)
	if rec == nil || !rec.Status.CanTransitionTo(model.StatusQuarantined) {
		return
	}

	rec.Status = model.StatusQuarantined

	nlog.Logger().Error().Err(cause).Str("record", id).Str("reason", reason).
		Msg("record quarantined")
	metrics.QuarantinesTotal.WithLabelValues("integrity").Inc()

	if err := s.persistLocked(ctx); err != nil {
		nlog.Logger().Error().Err(err).Str("record", id).
			Msg("failed to persist quarantine transition")
	}

	s.publishIntegrityFault(rec, cause)
	s.publishFileQuarantined(rec, reason)
}
