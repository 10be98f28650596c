package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/service"
	"cometa/backend/pkg/response"
)

// FinancialHandler 财务模块 HTTP 处理器
type FinancialHandler struct {
	financialSvc service.FinancialService
}

// NewFinancialHandler 创建 FinancialHandler
func NewFinancialHandler(financialSvc service.FinancialService) *FinancialHandler {
	return &FinancialHandler{financialSvc: financialSvc}
}

// CreateCost 录入成本
// POST /api/v1/financial/costs
func (h *FinancialHandler) CreateCost(c *gin.Context) {
	var req dto.CreateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cost, err := h.financialSvc.CreateCost(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.BadRequest(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, cost)
}

// ListCosts 成本明细列表
// GET /api/v1/financial/costs
func (h *FinancialHandler) ListCosts(c *gin.Context) {
	var filter dto.FinancialSummaryRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	costs, total, err := h.financialSvc.ListCosts(c.Request.Context(), &filter, &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, costs, total, page.GetPage(), page.GetPageSize())
}

// CreateTransaction 录入收支交易
// POST /api/v1/financial/transactions
func (h *FinancialHandler) CreateTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tx, err := h.financialSvc.CreateTransaction(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.BadRequest(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, tx)
}

// ListTransactions 交易明细列表
// GET /api/v1/financial/transactions
func (h *FinancialHandler) ListTransactions(c *gin.Context) {
	var filter dto.FinancialSummaryRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	txs, total, err := h.financialSvc.ListTransactions(c.Request.Context(), &filter, &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, txs, total, page.GetPage(), page.GetPageSize())
}

// Summary 财务汇总（按类型、按月、按项目）
// GET /api/v1/financial/summary
func (h *FinancialHandler) Summary(c *gin.Context) {
	var req dto.FinancialSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	summary, err := h.financialSvc.Summary(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}

// PreparationCost 项目前期准备成本估算
// GET /api/v1/financial/preparation-cost/:projectId
func (h *FinancialHandler) PreparationCost(c *gin.Context) {
	result, err := h.financialSvc.PreparationCost(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
