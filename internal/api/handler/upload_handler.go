package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/service"
	"cometa/backend/pkg/response"
)

// UploadHandler 文件上传模块 HTTP 处理器
type UploadHandler struct {
	uploadSvc service.UploadService
}

// NewUploadHandler 创建 UploadHandler
func NewUploadHandler(uploadSvc service.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

// Upload 批量上传文件到指定存储桶。
// 全部成功返回 201，部分成功返回 207，全部失败返回 400
// POST /api/v1/upload/:bucket  (multipart/form-data, 字段 files, 可选 prefix)
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	files := form.File["files"]
	prefix := c.PostForm("prefix")

	result, err := h.uploadSvc.UploadBatch(c.Request.Context(), c.Param("bucket"), prefix, files)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownBucket):
			response.BadRequest(c, 21001, "未知存储桶")
		case errors.Is(err, service.ErrNoFiles):
			response.BadRequest(c, 21003, "未收到文件")
		case errors.Is(err, service.ErrTooManyFiles):
			response.BadRequest(c, 21002, "单次最多上传 5 个文件")
		default:
			response.InternalError(c)
		}
		return
	}

	switch {
	case result.Failed == 0:
		response.Created(c, result)
	case result.Success == 0:
		response.BadRequest(c, 21004, "全部文件上传失败")
	default:
		response.MultiStatus(c, result)
	}
}

// List 列举存储桶内对象
// GET /api/v1/upload/:bucket?prefix=&limit=
func (h *UploadHandler) List(c *gin.Context) {
	var req dto.StorageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	objects, err := h.uploadSvc.List(c.Request.Context(), c.Param("bucket"), req.Prefix, req.Limit)
	if err != nil {
		if errors.Is(err, service.ErrUnknownBucket) {
			response.BadRequest(c, 21001, "未知存储桶")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, objects)
}

// Delete 删除存储桶内对象
// DELETE /api/v1/upload/:bucket?path=xxx
func (h *UploadHandler) Delete(c *gin.Context) {
	objectPath := c.Query("path")
	if objectPath == "" {
		response.BadRequest(c, 10001, "path 不能为空")
		return
	}

	if err := h.uploadSvc.Delete(c.Request.Context(), c.Param("bucket"), objectPath); err != nil {
		if errors.Is(err, service.ErrUnknownBucket) {
			response.BadRequest(c, 21001, "未知存储桶")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
