package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobIntegritySweep = "store.integrity_sweep"
	JobSnapshotBackup = "meta.snapshot_backup"
	JobQuotaPrune     = "quota.prune_stale"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronIntegritySweep = "0 3 * * *"
	CronSnapshotBackup = "30 4 * * *"
	CronQuotaPrune     = "0 * * * *"
)
