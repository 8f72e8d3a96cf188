package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 文件生命周期领域 --------------------------

// FileRef 标识一条文件记录及其存储对象.
// 审计消息可能流向外部系统，只携带定位与指纹信息，不携带文件内容.
type FileRef struct {
	RecordID    string `json:"record_id"`
	OwnerID     string `json:"owner_id,omitempty"`
	StorageKey  string `json:"storage_key,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
}

// FileStoredPayload 文件通过校验并写入存储.
type FileStoredPayload struct {
	File FileRef `json:"file"`
	// ScanStatus 写入时的扫描结论（clean/pending）
	ScanStatus string `json:"scan_status,omitempty"`
}

// FileDeletedPayload 文件被所有者删除.
type FileDeletedPayload struct {
	File FileRef `json:"file"`
}

// FileQuarantinedPayload 文件被隔离.
type FileQuarantinedPayload struct {
	File FileRef `json:"file"`
	// Reason 隔离原因：scan_infected / integrity_fault
	Reason string `json:"reason"`
}

// FileAccessedPayload 文件被读取.
type FileAccessedPayload struct {
	File        FileRef `json:"file"`
	AccessCount int64   `json:"access_count,omitempty"`
}

// -------------------------- 安全扫描领域 --------------------------

// ScanRequestedPayload 请求安全扫描.
type ScanRequestedPayload struct {
	File FileRef `json:"file"`
}

// ScanCompletedPayload 扫描完成.
type ScanCompletedPayload struct {
	File FileRef `json:"file"`
	// Result 扫描结论：clean/infected/error
	Result string `json:"result"`
	Detail string `json:"detail,omitempty"`
}

// -------------------------- 安全审计领域 --------------------------

// UploadRejectedPayload 上传被校验管线拒绝.
type UploadRejectedPayload struct {
	OwnerID  string   `json:"owner_id"`
	FileName string   `json:"file_name"`
	Size     int64    `json:"size,omitempty"`
	Errors   []string `json:"errors"`
}

// QuotaExceededPayload 上传配额超限.
type QuotaExceededPayload struct {
	OwnerID           string `json:"owner_id"`
	Limit             int    `json:"limit"`
	RetryAfterSeconds int64  `json:"retry_after_seconds"`
}

// AccessDeniedPayload 所有权校验失败的访问尝试.
type AccessDeniedPayload struct {
	RecordID string `json:"record_id"`
	OwnerID  string `json:"owner_id"`  // 记录真实所有者
	Actor    string `json:"actor"`     // 发起访问的用户
	Op       string `json:"op"`        // fetch/remove/meta
}

// IntegrityFaultPayload 读取时完整性校验失败.
type IntegrityFaultPayload struct {
	File     FileRef `json:"file"`
	Expected string  `json:"expected"` // 记录中的校验和
	Detail   string  `json:"detail,omitempty"`
}
