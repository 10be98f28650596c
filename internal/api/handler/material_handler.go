package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/service"
	"cometa/backend/pkg/response"
)

// MaterialHandler 物料模块 HTTP 处理器，覆盖物料主档、采购订单与项目分配
type MaterialHandler struct {
	materialSvc service.MaterialService
}

// NewMaterialHandler 创建 MaterialHandler
func NewMaterialHandler(materialSvc service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialSvc: materialSvc}
}

// Create 创建物料
// POST /api/v1/materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var req dto.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	material, err := h.materialSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, material)
}

// Get 获取物料详情
// GET /api/v1/materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	material, err := h.materialSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			response.NotFound(c, 16001, "物料不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, material)
}

// List 物料列表
// GET /api/v1/materials
func (h *MaterialHandler) List(c *gin.Context) {
	var req dto.MaterialListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.materialSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// Update 更新物料
// PUT /api/v1/materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	var req dto.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	material, err := h.materialSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			response.NotFound(c, 16001, "物料不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, material)
}

// AdjustStock 调整库存（增量，可为负）。扣减不得使库存为负
// POST /api/v1/materials/:id/adjust-stock
func (h *MaterialHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	material, err := h.materialSvc.AdjustStock(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			response.NotFound(c, 16001, "物料不存在")
		case errors.Is(err, service.ErrInsufficientStock):
			response.BadRequest(c, 16004, "可用库存不足")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, material)
}

// Delete 停用物料（软删除）
// DELETE /api/v1/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.materialSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			response.NotFound(c, 16001, "物料不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ── 采购订单 ──

// CreateOrder 创建采购订单
// POST /api/v1/materials/orders
func (h *MaterialHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	order, err := h.materialSvc.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			response.BadRequest(c, 16001, "物料不存在")
		case errors.Is(err, service.ErrProjectNotFound):
			response.BadRequest(c, 13001, "项目不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, order)
}

// GetOrder 获取订单详情
// GET /api/v1/materials/orders/:orderId
func (h *MaterialHandler) GetOrder(c *gin.Context) {
	order, err := h.materialSvc.GetOrderByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, 16002, "订单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, order)
}

// ListOrders 采购订单列表
// GET /api/v1/materials/orders
func (h *MaterialHandler) ListOrders(c *gin.Context) {
	var req dto.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orders, total, err := h.materialSvc.ListOrders(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, orders, total, req.GetPage(), req.GetPageSize())
}

// UpdateOrderStatus 推进订单状态。delivered 时自动入库
// PUT /api/v1/materials/orders/:orderId/status
func (h *MaterialHandler) UpdateOrderStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	order, err := h.materialSvc.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, 16002, "订单不存在")
		case errors.Is(err, service.ErrOrderNotPending):
			response.BadRequest(c, 16005, "订单状态不允许此操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, order)
}

// ── 项目分配 ──

// Allocate 将库存分配给项目，扣减可用库存
// POST /api/v1/materials/allocations
func (h *MaterialHandler) Allocate(c *gin.Context) {
	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	allocation, err := h.materialSvc.Allocate(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			response.BadRequest(c, 16001, "物料不存在")
		case errors.Is(err, service.ErrProjectNotFound):
			response.BadRequest(c, 13001, "项目不存在")
		case errors.Is(err, service.ErrInsufficientStock):
			response.BadRequest(c, 16004, "可用库存不足")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, allocation)
}

// RecordUsage 记录分配用量
// POST /api/v1/materials/allocations/:allocationId/usage
func (h *MaterialHandler) RecordUsage(c *gin.Context) {
	var req dto.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	allocation, err := h.materialSvc.RecordUsage(c.Request.Context(), c.Param("allocationId"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAllocationNotFound):
			response.NotFound(c, 16003, "分配记录不存在")
		case errors.Is(err, service.ErrUsageExceedsQty):
			response.BadRequest(c, 16006, "用量超出分配数量")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, allocation)
}

// ListAllocations 分配记录列表
// GET /api/v1/materials/allocations?material_id=&project_id=
func (h *MaterialHandler) ListAllocations(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.materialSvc.ListAllocations(
		c.Request.Context(), c.Query("material_id"), c.Query("project_id"), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, items, total, page.GetPage(), page.GetPageSize())
}
