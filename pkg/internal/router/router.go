// Package router 管理路由配置，用于设置HTTP服务的路由规则.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 注册 /api/v1 下的全部业务路由.
// 处理器的实现由 pkg/internal/handle 提供，router 包只负责路径绑定.
func RegisterAPIRoutes(e *gin.Engine) {
	v1 := e.Group("/api/v1")

	RegisterFilesRoutes(v1)
	RegisterHealthCheckRoute(v1)
	RegisterSchedulerRoutes(v1)
}
