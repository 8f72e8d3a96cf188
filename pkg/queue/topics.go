// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：dv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：file(文件生命周期)、scan(安全扫描)、audit(安全审计)
// 动作：存储相关(stored/deleted/quarantined)、访问相关(accessed)、审计相关(rejected/exceeded/denied)

const (
	// 文件生命周期领域.
	TopicFileStored      = "dv.file.stored"      // 文件通过校验并写入存储（元数据已入快照）
	TopicFileDeleted     = "dv.file.deleted"     // 文件被所有者删除（记录保留，内容移除）
	TopicFileQuarantined = "dv.file.quarantined" // 文件被隔离（扫描命中或完整性校验失败）
	TopicFileAccessed    = "dv.file.accessed"    // 文件被读取（用于热点统计，默认关闭）

	// 安全扫描领域.
	TopicScanRequested = "dv.scan.requested" // 请求对文件执行安全扫描
	TopicScanCompleted = "dv.scan.completed" // 扫描完成（结果见负载）

	// 安全审计领域.
	TopicAuditUploadRejected = "dv.audit.upload.rejected" // 上传被校验管线拒绝
	TopicAuditQuotaExceeded  = "dv.audit.quota.exceeded"  // 上传配额超限
	TopicAuditAccessDenied   = "dv.audit.access.denied"   // 所有权校验失败的访问尝试
	TopicAuditIntegrityFault = "dv.audit.integrity.fault" // 读取时完整性校验失败
)

// 主题分组，用于批量操作或权限控制.
var (
	// 文件生命周期相关主题集合.
	FileTopics = []string{
		TopicFileStored, TopicFileDeleted,
		TopicFileQuarantined, TopicFileAccessed,
	}

	// 安全扫描相关主题集合.
	ScanTopics = []string{
		TopicScanRequested, TopicScanCompleted,
	}

	// 安全审计相关主题集合.
	AuditTopics = []string{
		TopicAuditUploadRejected, TopicAuditQuotaExceeded,
		TopicAuditAccessDenied, TopicAuditIntegrityFault,
	}
)
