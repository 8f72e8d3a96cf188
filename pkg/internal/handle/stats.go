package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FilesStats 当前用户的文件统计.
//
//	@Summary		文件统计
//	@Description	按状态汇总当前用户的文件数量与字节数
//	@Tags			统计
//	@Produce		json
//	@Success		200	{object}	types.StatsFilesSummary	"统计摘要"
//	@Failure		400	{object}	map[string]string		"请求参数错误"
//	@Router			/api/v1/files/stats [get]
func FilesStats(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc, err := uploadService(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable"})
		return
	}

	c.JSON(http.StatusOK, svc.StatsForOwner(c.Request.Context(), user))
}

// QuotaStatus 当前用户的配额窗口状态.
//
//	@Summary		配额状态
//	@Description	返回当前滑动窗口内已用的上传次数、上限与窗口重置时间
//	@Tags			统计
//	@Produce		json
//	@Success		200	{object}	types.QuotaStatus	"配额状态"
//	@Failure		400	{object}	map[string]string	"请求参数错误"
//	@Router			/api/v1/files/quota [get]
func QuotaStatus(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc, err := uploadService(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable"})
		return
	}

	c.JSON(http.StatusOK, svc.QuotaStatusForOwner(user))
}
