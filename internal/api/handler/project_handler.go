package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/service"
	apperrors "cometa/backend/pkg/errors"
	"cometa/backend/pkg/response"
)

// ProjectHandler 项目模块 HTTP 处理器，覆盖项目主档、图纸、
// 临建设施、住宿、施工日志与资源总览子资源
type ProjectHandler struct {
	projectSvc   service.ProjectService
	documentSvc  service.DocumentService
	equipmentSvc service.EquipmentService
	vehicleSvc   service.VehicleService
	materialSvc  service.MaterialService
}

// NewProjectHandler 创建 ProjectHandler。
// 资源指派入口按类型转发到对应模块的 Service，文档登记复用 DocumentService
func NewProjectHandler(
	projectSvc service.ProjectService,
	documentSvc service.DocumentService,
	equipmentSvc service.EquipmentService,
	vehicleSvc service.VehicleService,
	materialSvc service.MaterialService,
) *ProjectHandler {
	return &ProjectHandler{
		projectSvc:   projectSvc,
		documentSvc:  documentSvc,
		equipmentSvc: equipmentSvc,
		vehicleSvc:   vehicleSvc,
		materialSvc:  materialSvc,
	}
}

// Create 创建项目
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	project, err := h.projectSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrPMNotFound) {
			response.BadRequest(c, 13002, "项目经理不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, project)
}

// Get 获取项目详情
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, project)
}

// List 项目列表
// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req dto.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	projects, total, err := h.projectSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, projects, total, req.GetPage(), req.GetPageSize())
}

// Update 更新项目
// PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	project, err := h.projectSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			response.NotFound(c, 13001, "项目不存在")
		case errors.Is(err, service.ErrPMNotFound):
			response.BadRequest(c, 13002, "项目经理不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, project)
}

// Delete 停用项目（软删除）
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Progress 项目进度（已完成米数 / 总米数）
// GET /api/v1/projects/:id/progress
func (h *ProjectHandler) Progress(c *gin.Context) {
	progress, err := h.projectSvc.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, progress)
}

// Documents 项目文件合并视图（普通文档 + 图纸，按创建时间倒序）
// GET /api/v1/projects/:id/documents
func (h *ProjectHandler) Documents(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.projectSvc.Documents(c.Request.Context(), c.Param("id"), &page)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, items, total, page.GetPage(), page.GetPageSize())
}

// CreateDocument 在项目下登记文档元数据
// POST /api/v1/projects/:id/documents
func (h *ProjectHandler) CreateDocument(c *gin.Context) {
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
	projectID := c.Param("id")
	req.ProjectID = &projectID

	doc, err := h.documentSvc.Create(c.Request.Context(), &req, userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, doc)
}

// Resources 项目资源总览：设备/车辆指派与物料分配
// GET /api/v1/projects/:id/resources
func (h *ProjectHandler) Resources(c *gin.Context) {
	resources, err := h.projectSvc.Resources(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, resources)
}

// AssignResource 按类型向项目指派资源，转发到设备/车辆/物料模块
// POST /api/v1/projects/:id/resources
func (h *ProjectHandler) AssignResource(c *gin.Context) {
	var req dto.AssignResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ctx := c.Request.Context()
	projectID := c.Param("id")
	if _, err := h.projectSvc.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	switch req.Type {
	case "equipment", "vehicle":
		fromTs := req.FromTs
		if fromTs == "" {
			fromTs = time.Now().Format(time.RFC3339)
		}
		assignReq := &dto.CreateAssignmentRequest{
			CrewID:           req.CrewID,
			ProjectID:        &projectID,
			FromTs:           fromTs,
			RentalCostPerDay: req.RentalCostPerDay,
			Notes:            req.Notes,
		}

		var result interface{}
		var err error
		if req.Type == "equipment" {
			result, err = h.equipmentSvc.Assign(ctx, req.ResourceID, assignReq)
		} else {
			result, err = h.vehicleSvc.Assign(ctx, req.ResourceID, assignReq)
		}
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEquipmentNotFound):
				response.NotFound(c, 14001, "设备不存在")
			case errors.Is(err, service.ErrVehicleNotFound):
				response.NotFound(c, 15001, "车辆不存在")
			case errors.Is(err, apperrors.ErrResourceConflict):
				response.BadRequest(c, 14003, err.Error())
			default:
				response.InternalError(c)
			}
			return
		}
		response.Created(c, result)

	case "material":
		if req.AllocatedQty <= 0 {
			response.BadRequest(c, 10001, "分配数量必须大于 0")
			return
		}
		date := req.Date
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		allocation, err := h.materialSvc.Allocate(ctx, &dto.CreateAllocationRequest{
			MaterialID:     req.ResourceID,
			ProjectID:      &projectID,
			CrewID:         req.CrewID,
			AllocatedQty:   req.AllocatedQty,
			AllocationDate: date,
			Notes:          req.Notes,
		})
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
		response.Created(c, allocation)
	}
}

// ── 图纸 ──

// CreatePlan 登记项目图纸
// POST /api/v1/projects/:id/plans
func (h *ProjectHandler) CreatePlan(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return
	}

	var req dto.CreateProjectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	plan, err := h.projectSvc.CreatePlan(c.Request.Context(), c.Param("id"), &req, userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, plan)
}

// ListPlans 项目图纸列表
// GET /api/v1/projects/:id/plans
func (h *ProjectHandler) ListPlans(c *gin.Context) {
	plans, err := h.projectSvc.ListPlans(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, plans)
}

// DeletePlan 删除图纸记录
// DELETE /api/v1/projects/plans/:planId
func (h *ProjectHandler) DeletePlan(c *gin.Context) {
	if err := h.projectSvc.DeletePlan(c.Request.Context(), c.Param("planId")); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.NotFound(c, 13003, "图纸不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ── 临建设施 ──

// CreateFacility 登记临建设施
// POST /api/v1/projects/:id/facilities
func (h *ProjectHandler) CreateFacility(c *gin.Context) {
	var req dto.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	facility, err := h.projectSvc.CreateFacility(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, facility)
}

// UpdateFacility 更新临建设施
// PUT /api/v1/projects/facilities/:facilityId
func (h *ProjectHandler) UpdateFacility(c *gin.Context) {
	var req dto.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	facility, err := h.projectSvc.UpdateFacility(c.Request.Context(), c.Param("facilityId"), &req)
	if err != nil {
		if errors.Is(err, service.ErrFacilityNotFound) {
			response.NotFound(c, 13004, "设施不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, facility)
}

// ListFacilities 项目临建设施列表
// GET /api/v1/projects/:id/facilities
func (h *ProjectHandler) ListFacilities(c *gin.Context) {
	facilities, err := h.projectSvc.ListFacilities(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, facilities)
}

// DeleteFacility 删除临建设施
// DELETE /api/v1/projects/facilities/:facilityId
func (h *ProjectHandler) DeleteFacility(c *gin.Context) {
	if err := h.projectSvc.DeleteFacility(c.Request.Context(), c.Param("facilityId")); err != nil {
		if errors.Is(err, service.ErrFacilityNotFound) {
			response.NotFound(c, 13004, "设施不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ── 住宿 ──

// CreateHousing 登记住宿单元
// POST /api/v1/projects/:id/housing
func (h *ProjectHandler) CreateHousing(c *gin.Context) {
	var req dto.CreateHousingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	housing, err := h.projectSvc.CreateHousing(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, housing)
}

// ListHousing 项目住宿单元列表
// GET /api/v1/projects/:id/housing
func (h *ProjectHandler) ListHousing(c *gin.Context) {
	units, err := h.projectSvc.ListHousing(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, units)
}

// DeleteHousing 删除住宿单元
// DELETE /api/v1/projects/housing/:housingId
func (h *ProjectHandler) DeleteHousing(c *gin.Context) {
	if err := h.projectSvc.DeleteHousing(c.Request.Context(), c.Param("housingId")); err != nil {
		if errors.Is(err, service.ErrHousingNotFound) {
			response.NotFound(c, 13005, "住宿单元不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ── 施工日志 ──

// CreateWorkEntry 记录施工日志
// POST /api/v1/projects/:id/work-entries
func (h *ProjectHandler) CreateWorkEntry(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return
	}

	var req dto.CreateWorkEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.projectSvc.CreateWorkEntry(c.Request.Context(), c.Param("id"), &req, userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, entry)
}

// ListWorkEntries 项目施工日志列表
// GET /api/v1/projects/:id/work-entries
func (h *ProjectHandler) ListWorkEntries(c *gin.Context) {
	var req dto.WorkEntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, total, err := h.projectSvc.ListWorkEntries(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, entries, total, req.GetPage(), req.GetPageSize())
}

// ApproveWorkEntry 审核施工日志（管理员/项目经理）
// POST /api/v1/projects/work-entries/:entryId/approve
func (h *ProjectHandler) ApproveWorkEntry(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return
	}

	entry, err := h.projectSvc.ApproveWorkEntry(c.Request.Context(), c.Param("entryId"), userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkEntryNotFound):
			response.NotFound(c, 13006, "施工日志不存在")
		case errors.Is(err, service.ErrAlreadyApproved):
			response.BadRequest(c, 13007, "日志已审核")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, entry)
}
