package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/service"
	"cometa/backend/pkg/response"
)

// DocumentHandler 文档模块 HTTP 处理器
type DocumentHandler struct {
	documentSvc service.DocumentService
}

// NewDocumentHandler 创建 DocumentHandler
func NewDocumentHandler(documentSvc service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentSvc: documentSvc}
}

// Create 登记文档元数据（文件本体走上传接口）
// POST /api/v1/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return
	}

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	doc, err := h.documentSvc.Create(c.Request.Context(), &req, userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.BadRequest(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, doc)
}

// Get 获取文档详情
// GET /api/v1/documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			response.NotFound(c, 18001, "文档不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, doc)
}

// List 文档列表
// GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	var req dto.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	docs, total, err := h.documentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, docs, total, req.GetPage(), req.GetPageSize())
}

// Update 更新文档元数据
// PUT /api/v1/documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	doc, err := h.documentSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			response.NotFound(c, 18001, "文档不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, doc)
}

// Delete 删除文档记录（软删除）
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			response.NotFound(c, 18001, "文档不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
