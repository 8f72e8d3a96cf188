package handle

import (
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/log"
)

// UploadFile 处理文件上传：multipart 表单接收内容，经校验、扫描后落盘.
//
//	@Summary		上传文件
//	@Description	接收 multipart 表单中的文件内容，通过内容校验与安全扫描后写入本地存储
//	@Tags			文件
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file			formData	file						true	"文件内容"
//	@Param			content_type	formData	string						false	"声明的内容类型，缺省取表单头"
//	@Param			metadata		formData	string						false	"用户元数据，JSON 对象字符串"
//	@Success		201				{object}	types.UploadFileResponse	"已存储的文件信息"
//	@Failure		400				{object}	map[string]string			"请求参数错误"
//	@Failure		422				{object}	map[string]string			"内容校验或安全扫描未通过"
//	@Failure		429				{object}	map[string]string			"上传配额超限"
//	@Router			/api/v1/files [post]
func UploadFile(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("invalid upload request: missing file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})

		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	declaredType := c.PostForm("content_type")
	if declaredType == "" {
		declaredType = fileHeader.Header.Get("Content-Type")
	}

	var metadata map[string]string

	if raw := c.PostForm("metadata"); raw != "" {
		if err := sonic.UnmarshalString(raw, &metadata); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "metadata must be a JSON object of strings"})
			return
		}
	}

	svc, err := uploadService(c.Request.Context())
	if err != nil {
		l.Error().Err(err).Msg("upload service unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable"})

		return
	}

	resp, err := svc.Upload(c.Request.Context(), user, fileHeader.Filename, declaredType, data, metadata)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListFiles 列出当前用户的文件.
//
//	@Summary		文件列表
//	@Description	列出当前用户的文件记录，支持按状态过滤与分页
//	@Tags			文件
//	@Produce		json
//	@Param			status	query		string				false	"状态过滤"	Enums(active, deleted, quarantined)
//	@Param			limit	query		int					false	"每页条数，缺省不限制"
//	@Param			offset	query		int					false	"偏移量"
//	@Success		200		{object}	service.ListResult	"文件列表"
//	@Failure		400		{object}	map[string]string	"请求参数错误"
//	@Router			/api/v1/files [get]
func ListFiles(c *gin.Context) {
	user, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	svc, err := uploadService(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service unavailable"})
		return
	}

	result, err := svc.ListForOwner(c.Request.Context(), user, c.Query("status"), limit, offset)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DownloadFile 下载文件内容.
//
//	@Summary		下载文件
//	@Description	读取文件内容，读取前做完整性校验，不匹配的记录会被隔离
//	@Tags			文件
//	@Produce		octet-stream
//	@Param			id	path		string				true	"文件记录 ID"
//	@Success		200	{file}		binary				"文件内容"
//	@Failure		404	{object}	map[string]string	"记录不存在"
//	@Failure		410	{object}	map[string]string	"记录已删除或被隔离"
//	@Router			/api/v1/files/{id} [get]
func DownloadFile(c *gin.Context) {
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

	res, err := svc.Fetch(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+res.DisplayName+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

// FileMeta 查询单条文件记录的元数据.
//
//	@Summary		文件元数据
//	@Description	返回文件记录的元数据视图，已删除或被隔离的记录对所有者依然可见
//	@Tags			文件
//	@Produce		json
//	@Param			id	path		string					true	"文件记录 ID"
//	@Success		200	{object}	types.FileMetaResponse	"文件元数据"
//	@Failure		404	{object}	map[string]string		"记录不存在"
//	@Router			/api/v1/files/{id}/meta [get]
func FileMeta(c *gin.Context) {
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

	resp, err := svc.GetRecordMetadata(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteFile 删除文件.
//
//	@Summary		删除文件
//	@Description	移除磁盘内容并把记录迁入 deleted 终态，记录保留用于审计
//	@Tags			文件
//	@Produce		json
//	@Param			id	path		string						true	"文件记录 ID"
//	@Success		200	{object}	types.DeleteFileResponse	"删除结果"
//	@Failure		404	{object}	map[string]string			"记录不存在"
//	@Failure		409	{object}	map[string]string			"记录已处于终态"
//	@Router			/api/v1/files/{id} [delete]
func DeleteFile(c *gin.Context) {
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

	resp, err := svc.Remove(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
