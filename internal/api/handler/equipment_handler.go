package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/service"
	apperrors "cometa/backend/pkg/errors"
	"cometa/backend/pkg/response"
)

// EquipmentHandler 设备模块 HTTP 处理器
type EquipmentHandler struct {
	equipmentSvc service.EquipmentService
}

// NewEquipmentHandler 创建 EquipmentHandler
func NewEquipmentHandler(equipmentSvc service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentSvc: equipmentSvc}
}

// Create 创建设备
// POST /api/v1/equipment
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req dto.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	equipment, err := h.equipmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, equipment)
}

// Get 获取设备详情
// GET /api/v1/equipment/:id
func (h *EquipmentHandler) Get(c *gin.Context) {
	equipment, err := h.equipmentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			response.NotFound(c, 14001, "设备不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, equipment)
}

// List 设备列表
// GET /api/v1/equipment
func (h *EquipmentHandler) List(c *gin.Context) {
	var req dto.EquipmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.equipmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// Update 更新设备
// PUT /api/v1/equipment/:id
func (h *EquipmentHandler) Update(c *gin.Context) {
	var req dto.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	equipment, err := h.equipmentSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			response.NotFound(c, 14001, "设备不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, equipment)
}

// Delete 停用设备（软删除）。存在未结束指派时拒绝
// DELETE /api/v1/equipment/:id
func (h *EquipmentHandler) Delete(c *gin.Context) {
	if err := h.equipmentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrEquipmentNotFound):
			response.NotFound(c, 14001, "设备不存在")
		case errors.Is(err, apperrors.ErrActiveAssignment):
			response.BadRequest(c, 14004, "存在有效指派，无法删除")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ── 指派 ──

// Assign 将设备指派给班组或项目
// POST /api/v1/equipment/:id/assignments
func (h *EquipmentHandler) Assign(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.equipmentSvc.Assign(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEquipmentNotFound):
			response.NotFound(c, 14001, "设备不存在")
		case errors.Is(err, service.ErrCrewNotFound):
			response.BadRequest(c, 17001, "班组不存在")
		case errors.Is(err, service.ErrProjectNotFound):
			response.BadRequest(c, 13001, "项目不存在")
		case errors.Is(err, service.ErrAssignmentTarget):
			response.BadRequest(c, 14005, "必须指定班组或项目")
		case errors.Is(err, apperrors.ErrResourceConflict):
			// 冲突响应带出当前占用方，便于前端提示
			response.BadRequest(c, 14003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, assignment)
}

// EndAssignment 结束指派
// POST /api/v1/equipment/assignments/:assignmentId/end
func (h *EquipmentHandler) EndAssignment(c *gin.Context) {
	var req dto.EndAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	err := h.equipmentSvc.EndAssignment(c.Request.Context(), c.Param("assignmentId"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.NotFound(c, 14002, "指派记录不存在")
		case errors.Is(err, service.ErrAssignmentClosed):
			response.BadRequest(c, 14008, "指派已结束")
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 14006, "结束时间不能早于开始时间")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ListAssignments 设备指派历史
// GET /api/v1/equipment/:id/assignments
func (h *EquipmentHandler) ListAssignments(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.equipmentSvc.ListAssignments(c.Request.Context(), c.Param("id"), &page)
	if err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			response.NotFound(c, 14001, "设备不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, items, total, page.GetPage(), page.GetPageSize())
}

// ── 证件 ──

// AddDocument 登记设备证件（TÜV、保险等）
// POST /api/v1/equipment/:id/documents
func (h *EquipmentHandler) AddDocument(c *gin.Context) {
	var req dto.CreateResourceDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	doc, err := h.equipmentSvc.AddDocument(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			response.NotFound(c, 14001, "设备不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, doc)
}

// ListDocuments 设备证件列表
// GET /api/v1/equipment/:id/documents
func (h *EquipmentHandler) ListDocuments(c *gin.Context) {
	docs, err := h.equipmentSvc.ListDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			response.NotFound(c, 14001, "设备不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, docs)
}

// DeleteDocument 删除设备证件记录
// DELETE /api/v1/equipment/documents/:docId
func (h *EquipmentHandler) DeleteDocument(c *gin.Context) {
	if err := h.equipmentSvc.DeleteDocument(c.Request.Context(), c.Param("docId")); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ── 维护 ──

// ScheduleMaintenance 排期设备维护
// POST /api/v1/equipment/:id/maintenance
func (h *EquipmentHandler) ScheduleMaintenance(c *gin.Context) {
	var req dto.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	m, err := h.equipmentSvc.ScheduleMaintenance(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			response.NotFound(c, 14001, "设备不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, m)
}

// CompleteMaintenance 完成维护
// POST /api/v1/equipment/maintenance/:maintenanceId/complete
func (h *EquipmentHandler) CompleteMaintenance(c *gin.Context) {
	var req dto.CompleteMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	m, err := h.equipmentSvc.CompleteMaintenance(c.Request.Context(), c.Param("maintenanceId"), &req)
	if err != nil {
		if errors.Is(err, service.ErrMaintenanceNotFound) {
			response.NotFound(c, 14007, "维护记录不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, m)
}

// ListMaintenance 设备维护历史
// GET /api/v1/equipment/:id/maintenance
func (h *EquipmentHandler) ListMaintenance(c *gin.Context) {
	items, err := h.equipmentSvc.ListMaintenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEquipmentNotFound) {
			response.NotFound(c, 14001, "设备不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, items)
}

// Analytics 设备池聚合分析
// GET /api/v1/equipment/analytics
func (h *EquipmentHandler) Analytics(c *gin.Context) {
	analytics, err := h.equipmentSvc.Analytics(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, analytics)
}
