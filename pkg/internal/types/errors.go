package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// 领域哨兵错误.处理层据此映射 HTTP 状态码.
var (
	// ErrNotFound 记录不存在.对无权访问的记录同样返回该错误，避免泄露存在性
	ErrNotFound = errors.New("file not found")
	// ErrForbidden 所有权校验失败.仅内部使用，对外统一呈现为 ErrNotFound
	ErrForbidden = errors.New("operation not permitted")
	// ErrNotAccessible 记录存在但已删除或被隔离
	ErrNotAccessible = errors.New("file is not accessible")
	// ErrInvalidTransition 非法状态迁移（终态记录再次删除等）
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrScanRejected 安全扫描未通过，文件已被隔离
	ErrScanRejected = errors.New("file failed security scan and was quarantined")
)

// ValidationError 内容校验失败，携带全部校验错误.
type ValidationError struct {
	FileName string   `json:"file_name"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FileName, strings.Join(e.Errors, "; "))
}

// QuotaError 上传配额超限.
type QuotaError struct {
	User       string        `json:"user"`
	Limit      int           `json:"limit"`
	RetryAfter time.Duration `json:"retry_after"`
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("upload quota exceeded for %s: limit %d, retry after %s",
		e.User, e.Limit, e.RetryAfter.Round(time.Second))
}

// StorageError 存储层失败.Retryable 区分瞬态 IO 错误与完整性错误，
// 完整性错误意味着磁盘内容不可信，必须隔离而非重试.
type StorageError struct {
	Op        string `json:"op"`
	Retryable bool   `json:"retryable"`
	Err       error  `json:"-"`
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError 包装存储层错误.
func NewStorageError(op string, retryable bool, err error) *StorageError {
	return &StorageError{Op: op, Retryable: retryable, Err: err}
}
