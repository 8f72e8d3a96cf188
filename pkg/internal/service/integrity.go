package service

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/disk"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// sweepConcurrency 单轮巡检的并发校验数.
const sweepConcurrency = 4

// IntegritySweep 巡检所有 active 记录：逐一比对磁盘内容与记录校验和，
// 不一致或对象丢失的记录迁入隔离.供定时任务周期性调用.
func (s *UploadService) IntegritySweep(ctx context.Context) (checked, faulted int, err error) {
	type item struct {
		id       string
		key      string
		checksum string
	}

	s.mu.RLock()

	items := make([]item, 0, len(s.records))

	for _, rec := range s.records {
		if rec.Status != model.StatusActive {
			continue
		}

		items = append(items, item{id: rec.ID, key: rec.StorageKey, checksum: rec.Checksum})
	}
	s.mu.RUnlock()

	var faultCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	for _, it := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			verifyErr := s.store.VerifyChecksum(gctx, it.key, it.checksum)
			if verifyErr == nil {
				return nil
			}

			switch {
			case errors.Is(verifyErr, disk.ErrIntegrity), errors.Is(verifyErr, disk.ErrNotFound):
				faultCount.Add(1)
				s.quarantine(gctx, it.id, "integrity_sweep", verifyErr)
			default:
				// 瞬态 IO 错误留给下一轮巡检
				nlog.Logger().Warn().Err(verifyErr).Str("record", it.id).
					Msg("integrity sweep: verify failed, will retry next round")
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return len(items), int(faultCount.Load()), err
	}

	return len(items), int(faultCount.Load()), nil
}
