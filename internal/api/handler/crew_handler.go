package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/service"
	"cometa/backend/pkg/response"
)

// CrewHandler 班组模块 HTTP 处理器
type CrewHandler struct {
	crewSvc service.CrewService
}

// NewCrewHandler 创建 CrewHandler
func NewCrewHandler(crewSvc service.CrewService) *CrewHandler {
	return &CrewHandler{crewSvc: crewSvc}
}

// Create 创建班组
// POST /api/v1/crews
func (h *CrewHandler) Create(c *gin.Context) {
	var req dto.CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	crew, err := h.crewSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.BadRequest(c, 12001, "工长不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, crew)
}

// Get 获取班组详情（含成员）
// GET /api/v1/crews/:id
func (h *CrewHandler) Get(c *gin.Context) {
	crew, err := h.crewSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCrewNotFound) {
			response.NotFound(c, 17001, "班组不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, crew)
}

// List 班组列表
// GET /api/v1/crews
func (h *CrewHandler) List(c *gin.Context) {
	var req dto.CrewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	crews, total, err := h.crewSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, crews, total, req.GetPage(), req.GetPageSize())
}

// Update 更新班组
// PUT /api/v1/crews/:id
func (h *CrewHandler) Update(c *gin.Context) {
	var req dto.UpdateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	crew, err := h.crewSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCrewNotFound):
			response.NotFound(c, 17001, "班组不存在")
		case errors.Is(err, service.ErrUserNotFound):
			response.BadRequest(c, 12001, "工长不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, crew)
}

// Delete 停用班组（软删除）
// DELETE /api/v1/crews/:id
func (h *CrewHandler) Delete(c *gin.Context) {
	if err := h.crewSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCrewNotFound) {
			response.NotFound(c, 17001, "班组不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ── 成员 ──

// AddMember 添加班组成员。一名用户同一时刻只能在一个班组
// POST /api/v1/crews/:id/members
func (h *CrewHandler) AddMember(c *gin.Context) {
	var req dto.AddCrewMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	member, err := h.crewSvc.AddMember(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCrewNotFound):
			response.NotFound(c, 17001, "班组不存在")
		case errors.Is(err, service.ErrUserNotFound):
			response.BadRequest(c, 12001, "用户不存在")
		case errors.Is(err, service.ErrAlreadyInCrew):
			response.BadRequest(c, 17003, "该用户已在其他班组")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, member)
}

// RemoveMember 移除班组成员（结束成员关系）
// DELETE /api/v1/crews/members/:memberId
func (h *CrewHandler) RemoveMember(c *gin.Context) {
	if err := h.crewSvc.RemoveMember(c.Request.Context(), c.Param("memberId")); err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFound(c, 17002, "成员记录不存在")
		case errors.Is(err, service.ErrMembershipClosed):
			response.BadRequest(c, 17004, "成员关系已结束")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ListMembers 班组成员列表
// GET /api/v1/crews/:id/members
func (h *CrewHandler) ListMembers(c *gin.Context) {
	members, err := h.crewSvc.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCrewNotFound) {
			response.NotFound(c, 17001, "班组不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, members)
}
