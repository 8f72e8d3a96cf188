package types

// UploadFileRequest 单文件上传请求（multipart 表单的附加字段）.
// 文件内容从表单 file 字段读取，这里只承载可选的声明与元数据.
type UploadFileRequest struct {
	// ContentType 调用方声明的内容类型，可选；与签名嗅探、扩展名映射交叉校验
	ContentType string `form:"content_type" json:"content_type,omitempty" rule:"omitempty,max=255"`
	// Metadata 调用方附加元数据，随记录持久化
	Metadata map[string]string `form:"-" json:"metadata,omitempty"`
}

// UploadFileResponse 上传成功响应.
type UploadFileResponse struct {
	File FileInfo `json:"file"`
	// Warnings 校验通过但值得注意的告警（如声明类型与规范类型不一致）
	Warnings []string `json:"warnings,omitempty"`
}
