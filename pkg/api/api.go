// Package api 负责把 HTTP 接口绑定到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/router"
)

// RegisterRoutes 注册全部业务路由与文档路由到传入的 gin 引擎.
func RegisterRoutes(e *gin.Engine) *gin.Engine {
	router.RegisterAPIRoutes(e)
	router.RegisterSwaggerRoute(e)

	return e
}
