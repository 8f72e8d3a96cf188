package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishFileStored 发布 dv.file.stored 事件。
// 在文件通过校验、写入存储且元数据持久化之后发布，通知下游流程。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishFileStored(pub message.Publisher, payload FileStoredPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicFileStored, payload, opts...)
}

// PublishFileDeleted 发布 dv.file.deleted 事件。
func PublishFileDeleted(pub message.Publisher, payload FileDeletedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicFileDeleted, payload, opts...)
}

// PublishFileQuarantined 发布 dv.file.quarantined 事件。
func PublishFileQuarantined(pub message.Publisher, payload FileQuarantinedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicFileQuarantined, payload, opts...)
}

// PublishFileAccessed 发布 dv.file.accessed 事件。
func PublishFileAccessed(pub message.Publisher, payload FileAccessedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicFileAccessed, payload, opts...)
}

// PublishUploadRejected 发布 dv.audit.upload.rejected 审计事件。
func PublishUploadRejected(pub message.Publisher, payload UploadRejectedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicAuditUploadRejected, payload, opts...)
}

// PublishQuotaExceeded 发布 dv.audit.quota.exceeded 审计事件。
func PublishQuotaExceeded(pub message.Publisher, payload QuotaExceededPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicAuditQuotaExceeded, payload, opts...)
}

// PublishAccessDenied 发布 dv.audit.access.denied 审计事件。
func PublishAccessDenied(pub message.Publisher, payload AccessDeniedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicAuditAccessDenied, payload, opts...)
}

// PublishIntegrityFault 发布 dv.audit.integrity.fault 审计事件。
func PublishIntegrityFault(pub message.Publisher, payload IntegrityFaultPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicAuditIntegrityFault, payload, opts...)
}

// ParseFileStored 将 Watermill 消息解析为强类型 Envelope（FileStoredPayload）。
func ParseFileStored(msg *message.Message) (Message[FileStoredPayload], error) {
	return ParseWatermillMessage[FileStoredPayload](msg)
}

// ParseFileQuarantined 将 Watermill 消息解析为强类型 Envelope（FileQuarantinedPayload）。
func ParseFileQuarantined(msg *message.Message) (Message[FileQuarantinedPayload], error) {
	return ParseWatermillMessage[FileQuarantinedPayload](msg)
}

func publish[T any](pub message.Publisher, topic string, payload T, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(topic, msg)
}
