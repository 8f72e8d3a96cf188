package service

import (
	"time"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/queue"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// 事件发布是尽力而为：失败只记日志，绝不影响业务操作结果.

const eventProducer = "docvault"

func (s *UploadService) eventsEnabled() bool {
	return s.mqClient != nil && s.events.Enabled
}

func fileRefOf(rec *model.FileRecord) queue.FileRef {
	return queue.FileRef{
		RecordID:    rec.ID,
		OwnerID:     rec.OwnerID,
		StorageKey:  rec.StorageKey,
		FileName:    rec.DisplayName,
		Size:        rec.ByteSize,
		ContentType: rec.ContentType,
		Checksum:    rec.Checksum,
	}
}

func (s *UploadService) publishFileStored(rec *model.FileRecord) {
	if !s.eventsEnabled() || !s.events.File.Stored {
		return
	}

	err := queue.PublishFileStored(s.mqClient.Publisher(), queue.FileStoredPayload{
		File:       fileRefOf(rec),
		ScanStatus: string(rec.Scan),
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Error().Err(err).Str("record", rec.ID).Msg("publish file stored event")
	}
}

func (s *UploadService) publishFileDeleted(rec *model.FileRecord) {
	if !s.eventsEnabled() || !s.events.File.Deleted {
		return
	}

	err := queue.PublishFileDeleted(s.mqClient.Publisher(), queue.FileDeletedPayload{
		File: fileRefOf(rec),
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Error().Err(err).Str("record", rec.ID).Msg("publish file deleted event")
	}
}

func (s *UploadService) publishFileQuarantined(rec *model.FileRecord, reason string) {
	if !s.eventsEnabled() || !s.events.File.Quarantined {
		return
	}

	err := queue.PublishFileQuarantined(s.mqClient.Publisher(), queue.FileQuarantinedPayload{
		File:   fileRefOf(rec),
		Reason: reason,
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Error().Err(err).Str("record", rec.ID).Msg("publish file quarantined event")
	}
}

func (s *UploadService) publishFileAccessed(rec *model.FileRecord) {
	if !s.eventsEnabled() || !s.events.File.Accessed {
		return
	}

	err := queue.PublishFileAccessed(s.mqClient.Publisher(), queue.FileAccessedPayload{
		File:        fileRefOf(rec),
		AccessCount: rec.AccessCount,
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Error().Err(err).Str("record", rec.ID).Msg("publish file accessed event")
	}
}

func (s *UploadService) publishUploadRejected(owner, fileName string, size int64, errs []string) {
	if !s.eventsEnabled() || !s.events.File.Rejected {
		return
	}

	err := queue.PublishUploadRejected(s.mqClient.Publisher(), queue.UploadRejectedPayload{
		OwnerID:  owner,
		FileName: fileName,
		Size:     size,
		Errors:   errs,
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Error().Err(err).Str("owner", owner).Msg("publish upload rejected event")
	}
}

func (s *UploadService) publishQuotaExceeded(owner string, retryAfter time.Duration) {
	if !s.eventsEnabled() || !s.events.File.QuotaExceeded {
		return
	}

	err := queue.PublishQuotaExceeded(s.mqClient.Publisher(), queue.QuotaExceededPayload{
		OwnerID:           owner,
		Limit:             s.quota.Limit(),
		RetryAfterSeconds: int64(retryAfter.Seconds()),
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Error().Err(err).Str("owner", owner).Msg("publish quota exceeded event")
	}
}

func (s *UploadService) publishAccessDenied(recordID, owner, actor, op string) {
	if !s.eventsEnabled() {
		return
	}

	err := queue.PublishAccessDenied(s.mqClient.Publisher(), queue.AccessDeniedPayload{
		RecordID: recordID,
		OwnerID:  owner,
		Actor:    actor,
		Op:       op,
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Error().Err(err).Str("record", recordID).Msg("publish access denied event")
	}
}

func (s *UploadService) publishIntegrityFault(rec *model.FileRecord, cause error) {
	if !s.eventsEnabled() {
		return
	}

	err := queue.PublishIntegrityFault(s.mqClient.Publisher(), queue.IntegrityFaultPayload{
		File:     fileRefOf(rec),
		Expected: rec.Checksum,
		Detail:   cause.Error(),
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Error().Err(err).Str("record", rec.ID).Msg("publish integrity fault event")
	}
}
