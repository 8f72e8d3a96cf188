package service

import (
	"context"

	"github.com/yeisme/docvault/pkg/internal/model"
)

// Scanner 安全扫描器.扫描发生在校验通过之后、记录可见之前，
// infected 与 error 两种结论都会导致记录进入 quarantined 终态.
type Scanner interface {
	// Scan 对内容执行扫描，返回结论与可读描述.
	// 返回 error 仅表示扫描器自身故障，结论以 ScanStatus 为准.
	Scan(ctx context.Context, data []byte) (model.ScanStatus, string, error)
}

// NoopScanner 未接入真实扫描引擎时的占位实现，一律报告 clean.
// 这不是安全决策：真实部署应通过配置接入外部扫描服务.
// TODO: 接入 ClamAV 或等价引擎后移除该占位实现的默认地位.
type NoopScanner struct{}

// NewNoopScanner 创建占位扫描器.
func NewNoopScanner() *NoopScanner {
	return &NoopScanner{}
}

// Scan 恒定返回 clean.
func (s *NoopScanner) Scan(_ context.Context, _ []byte) (model.ScanStatus, string, error) {
	return model.ScanClean, "", nil
}
