// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
	"github.com/yeisme/docvault/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// checkUser 提取当前用户身份：oauth2-proxy 注入的请求头优先 -> query 参数 -> 测试默认值.
func checkUser(c *gin.Context) (string, error) {
	user := c.GetHeader("X-Auth-Request-Email")
	if user == "" {
		user = c.GetHeader("X-Forwarded-Email")
	}

	if user == "" {
		user = c.Query("user")
	}
	// 测试默认值，不为 Release 模式时
	if user == "" && gin.Mode() != gin.ReleaseMode {
		user = "test-user@example.com"
	}

	user = strings.TrimSpace(user)

	// 使用 validator 验证用户名格式为 email
	if err := rule.ValidateVar(user, "required,email"); err != nil {
		return "", err
	}

	return user, nil
}

// uploadService 取进程级共享的上传服务实例.
func uploadService(ctx context.Context) (*service.UploadService, error) {
	return service.Shared(ctx)
}

// writeDomainError 把领域错误映射为 HTTP 响应.
// 所有权失败与记录不存在返回完全相同的 404 响应体，避免向非所有者泄露记录存在性.
func writeDomainError(c *gin.Context, err error) {
	var (
		vErr *types.ValidationError
		qErr *types.QuotaError
		sErr *types.StorageError
	)

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "validation failed",
			"file_name": vErr.FileName,
			"errors":    vErr.Errors,
			"warnings":  vErr.Warnings,
		})
	case errors.As(err, &qErr):
		c.Header("Retry-After", strconv.FormatInt(int64(qErr.RetryAfter.Seconds()), 10))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":               "upload quota exceeded",
			"limit":               qErr.Limit,
			"retry_after_seconds": int64(qErr.RetryAfter.Seconds()),
		})
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrForbidden):
		c.JSON(http.StatusNotFound, gin.H{"error": types.ErrNotFound.Error()})
	case errors.Is(err, types.ErrNotAccessible):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrScanRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &sErr):
		status := http.StatusInternalServerError
		if sErr.Retryable {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{"error": "storage operation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
