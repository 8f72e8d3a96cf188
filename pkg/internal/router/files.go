package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/handle"
)

// RegisterFilesRoutes 注册文件操作相关路由.
func RegisterFilesRoutes(g *gin.RouterGroup) {
	// 文件操作路由
	filesRoutes := g.Group("/files")
	{
		// 上传文件（multipart 表单）
		filesRoutes.POST("", handle.UploadFile)
		// 列表，支持状态过滤与分页
		filesRoutes.GET("", handle.ListFiles)

		// 统计与配额
		filesRoutes.GET("/stats", handle.FilesStats)
		filesRoutes.GET("/quota", handle.QuotaStatus)

		// 单个文件操作
		singleGroup := filesRoutes.Group("/:id")
		{
			// 下载文件内容
			singleGroup.GET("", handle.DownloadFile)
			// 查询元数据
			singleGroup.GET("/meta", handle.FileMeta)
			// 删除文件
			singleGroup.DELETE("", handle.DeleteFile)
		}
	}
}
