package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/service"
	apperrors "cometa/backend/pkg/errors"
	"cometa/backend/pkg/response"
)

// VehicleHandler 车辆模块 HTTP 处理器
type VehicleHandler struct {
	vehicleSvc service.VehicleService
}

// NewVehicleHandler 创建 VehicleHandler
func NewVehicleHandler(vehicleSvc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

// Create 创建车辆
// POST /api/v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	vehicle, err := h.vehicleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrPlateExists) {
			response.BadRequest(c, 15002, "车牌号已存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, vehicle)
}

// Get 获取车辆详情
// GET /api/v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			response.NotFound(c, 15001, "车辆不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, vehicle)
}

// List 车辆列表
// GET /api/v1/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	var req dto.VehicleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.vehicleSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// Update 更新车辆
// PUT /api/v1/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var req dto.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	vehicle, err := h.vehicleSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			response.NotFound(c, 15001, "车辆不存在")
		case errors.Is(err, service.ErrPlateExists):
			response.BadRequest(c, 15002, "车牌号已存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, vehicle)
}

// Delete 停用车辆（软删除）。存在未结束指派时拒绝
// DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.vehicleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			response.NotFound(c, 15001, "车辆不存在")
		case errors.Is(err, apperrors.ErrActiveAssignment):
			response.BadRequest(c, 15004, "存在有效指派，无法删除")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ── 指派 ──

// Assign 将车辆指派给班组或项目
// POST /api/v1/vehicles/:id/assignments
func (h *VehicleHandler) Assign(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.vehicleSvc.Assign(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			response.NotFound(c, 15001, "车辆不存在")
		case errors.Is(err, service.ErrCrewNotFound):
			response.BadRequest(c, 17001, "班组不存在")
		case errors.Is(err, service.ErrProjectNotFound):
			response.BadRequest(c, 13001, "项目不存在")
		case errors.Is(err, service.ErrAssignmentTarget):
			response.BadRequest(c, 14005, "必须指定班组或项目")
		case errors.Is(err, apperrors.ErrResourceConflict):
			response.BadRequest(c, 15003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, assignment)
}

// EndAssignment 结束指派
// POST /api/v1/vehicles/assignments/:assignmentId/end
func (h *VehicleHandler) EndAssignment(c *gin.Context) {
	var req dto.EndAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	err := h.vehicleSvc.EndAssignment(c.Request.Context(), c.Param("assignmentId"), &req)
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

// ListAssignments 车辆指派历史
// GET /api/v1/vehicles/:id/assignments
func (h *VehicleHandler) ListAssignments(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.vehicleSvc.ListAssignments(c.Request.Context(), c.Param("id"), &page)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			response.NotFound(c, 15001, "车辆不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, items, total, page.GetPage(), page.GetPageSize())
}

// ── 证件 ──

// AddDocument 登记车辆证件（TÜV、保险等）
// POST /api/v1/vehicles/:id/documents
func (h *VehicleHandler) AddDocument(c *gin.Context) {
	var req dto.CreateResourceDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	doc, err := h.vehicleSvc.AddDocument(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			response.NotFound(c, 15001, "车辆不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, doc)
}

// ListDocuments 车辆证件列表
// GET /api/v1/vehicles/:id/documents
func (h *VehicleHandler) ListDocuments(c *gin.Context) {
	docs, err := h.vehicleSvc.ListDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			response.NotFound(c, 15001, "车辆不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, docs)
}

// DeleteDocument 删除车辆证件记录
// DELETE /api/v1/vehicles/documents/:docId
func (h *VehicleHandler) DeleteDocument(c *gin.Context) {
	if err := h.vehicleSvc.DeleteDocument(c.Request.Context(), c.Param("docId")); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
