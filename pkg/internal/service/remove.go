package service

import (
	"context"
	"errors"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/disk"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// Remove 删除文件：先移除磁盘内容，成功后才把记录迁入 deleted 终态.
// 存储层删除失败时记录状态保持不变，不允许出现"假删除".
// 记录本身保留在快照中用于审计，存储键永不复用.
func (s *UploadService) Remove(ctx context.Context, id, requester string) (*types.DeleteFileResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(id)
	if rec == nil {
		return nil, types.ErrNotFound
	}

	if !rec.OwnedBy(requester) {
		nlog.Logger().Warn().Str("record", id).Str("actor", requester).
			Msg("access denied: ownership check failed on remove")
		s.publishAccessDenied(id, rec.OwnerID, requester, "remove")

		return nil, types.ErrForbidden
	}

	if !rec.Status.CanTransitionTo(model.StatusDeleted) {
		return nil, types.ErrInvalidTransition
	}

	// 对象已不在磁盘上是正常情况，照常完成状态迁移
	if err := s.store.Remove(ctx, rec.StorageKey); err != nil && !errors.Is(err, disk.ErrNotFound) {
		nlog.Logger().Error().Err(err).Str("record", id).Msg("remove failed: storage")
		return nil, types.NewStorageError("remove", true, err)
	}

	prev := rec.Status
	rec.Status = model.StatusDeleted

	if err := s.persistLocked(ctx); err != nil {
		rec.Status = prev
		return nil, types.NewStorageError("persist", true, err)
	}

	nlog.Logger().Info().Str("record", id).Str("owner", requester).Msg("file deleted")
	s.publishFileDeleted(rec)

	return &types.DeleteFileResponse{ID: id, Status: string(rec.Status)}, nil
}
