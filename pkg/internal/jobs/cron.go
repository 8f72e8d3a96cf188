// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/storage"
	"github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:00 对所有 active 记录做完整性巡检，篡改记录迁入隔离
//   - 每天 04:30 备份元数据快照（仅 snapshot 后端）
//   - 每小时清理配额跟踪器中窗口已过期的用户条目
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每天 03:00 完整性巡检
	_ = sched.AddCron(JobIntegritySweep, CronIntegritySweep, func(ctx context.Context) {
		runIntegritySweep(ctx)
	}, baseCtx)

	// 每天 04:30 备份元数据快照
	if configs.GetConfig().Store.MetadataBackend != "db" {
		_ = sched.AddCron(JobSnapshotBackup, CronSnapshotBackup, func(ctx context.Context) {
			runSnapshotBackup(ctx)
		}, baseCtx)
	}

	// 每小时清理过期配额条目
	_ = sched.AddCron(JobQuotaPrune, CronQuotaPrune, func(ctx context.Context) {
		runQuotaPrune(ctx)
	}, baseCtx)

	return nil
}

// runQuotaPrune 回收配额跟踪器中窗口已过期的用户条目.
func runQuotaPrune(ctx context.Context) {
	l := log.Logger().With().Str("job", JobQuotaPrune).Logger()

	svc, err := service.Shared(ctx)
	if err != nil {
		l.Error().Err(err).Msg("upload service unavailable")
		return
	}

	if removed := svc.Quota().Prune(); removed > 0 {
		l.Info().Int("removed", removed).Msg("stale quota entries pruned")
	}
}

// runIntegritySweep 巡检所有 active 记录的磁盘内容完整性。
func runIntegritySweep(ctx context.Context) {
	l := log.Logger().With().Str("job", JobIntegritySweep).Logger()

	svc, err := service.Shared(ctx)
	if err != nil {
		l.Error().Err(err).Msg("upload service unavailable")
		return
	}

	checked, faulted, err := svc.IntegritySweep(ctx)
	if err != nil {
		l.Error().Err(err).Msg("integrity sweep aborted")
		return
	}

	if faulted > 0 {
		l.Warn().Int("checked", checked).Int("faulted", faulted).Msg("integrity sweep quarantined records")
		return
	}

	l.Info().Int("checked", checked).Msg("integrity sweep done")
}

// runSnapshotBackup 把当前元数据快照复制为带日期后缀的备份文件。
func runSnapshotBackup(_ context.Context) {
	l := log.Logger().With().Str("job", JobSnapshotBackup).Logger()

	src := configs.GetConfig().Store.SnapshotPath

	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			l.Info().Str("path", src).Msg("no snapshot to back up")
			return
		}

		l.Error().Err(err).Str("path", src).Msg("open snapshot failed")

		return
	}
	defer in.Close() //nolint:errcheck

	dst := fmt.Sprintf("%s.%s.bak", src, time.Now().UTC().Format("20060102"))

	out, err := os.Create(dst)
	if err != nil {
		l.Error().Err(err).Str("path", dst).Msg("create backup failed")
		return
	}
	defer out.Close() //nolint:errcheck

	n, err := io.Copy(out, in)
	if err != nil {
		l.Error().Err(err).Str("path", dst).Msg("copy snapshot failed")
		return
	}

	l.Info().Str("path", dst).Int64("bytes", n).Msg("snapshot backed up")
}
