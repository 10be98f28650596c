package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
)

var (
	ErrProjectNotFound   = errors.New("项目不存在")
	ErrPMNotFound        = errors.New("项目经理不存在")
	ErrPlanNotFound      = errors.New("图纸不存在")
	ErrFacilityNotFound  = errors.New("设施不存在")
	ErrHousingNotFound   = errors.New("住宿单元不存在")
	ErrWorkEntryNotFound = errors.New("施工日志不存在")
	ErrAlreadyApproved   = errors.New("日志已审核")
)

// ProjectService 项目业务接口
type ProjectService interface {
	Create(ctx context.Context, req *dto.CreateProjectRequest) (*model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, req *dto.ProjectListRequest) ([]model.Project, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id string) error
	Progress(ctx context.Context, id string) (*dto.ProjectProgressResponse, error)
	Documents(ctx context.Context, id string, page *dto.PaginationRequest) ([]dto.ProjectDocumentItem, int64, error)
	Resources(ctx context.Context, id string) (*dto.ProjectResourcesResponse, error)

	CreatePlan(ctx context.Context, projectID string, req *dto.CreateProjectPlanRequest, uploadedBy string) (*model.ProjectPlan, error)
	ListPlans(ctx context.Context, projectID string) ([]model.ProjectPlan, error)
	DeletePlan(ctx context.Context, planID string) error

	CreateFacility(ctx context.Context, projectID string, req *dto.CreateFacilityRequest) (*model.Facility, error)
	UpdateFacility(ctx context.Context, facilityID string, req *dto.UpdateFacilityRequest) (*model.Facility, error)
	ListFacilities(ctx context.Context, projectID string) ([]model.Facility, error)
	DeleteFacility(ctx context.Context, facilityID string) error

	CreateHousing(ctx context.Context, projectID string, req *dto.CreateHousingRequest) (*model.HousingUnit, error)
	ListHousing(ctx context.Context, projectID string) ([]model.HousingUnit, error)
	DeleteHousing(ctx context.Context, housingID string) error

	CreateWorkEntry(ctx context.Context, projectID string, req *dto.CreateWorkEntryRequest, userID string) (*model.WorkEntry, error)
	ListWorkEntries(ctx context.Context, projectID string, req *dto.WorkEntryListRequest) ([]model.WorkEntry, int64, error)
	ApproveWorkEntry(ctx context.Context, entryID, approverID string) (*model.WorkEntry, error)
}

type projectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo *repository.Repository, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, logger: logger}
}

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest) (*model.Project, error) {
	if req.PMUserID != nil {
		if _, err := s.repo.User.GetByID(ctx, *req.PMUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPMNotFound
			}
			return nil, err
		}
	}

	project := &model.Project{
		Name:         req.Name,
		Customer:     req.Customer,
		City:         req.City,
		Address:      req.Address,
		Contact24h:   req.Contact24h,
		StartDate:    parseDatePtr(req.StartDate),
		EndDatePlan:  parseDatePtr(req.EndDatePlan),
		Status:       model.ProjectStatusDraft,
		TotalLengthM: req.TotalLengthM,
		BaseRatePerM: req.BaseRatePerM,
		Budget:       req.Budget,
		PMUserID:     req.PMUserID,
		LanguageDefault: "de",
	}
	if err := s.repo.Project.Create(ctx, project); err != nil {
		s.logger.Error("创建项目失败", zap.Error(err))
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.repo.Project.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, req *dto.ProjectListRequest) ([]model.Project, int64, error) {
	return s.repo.Project.List(ctx, req.Status, req.Keyword, req.GetOffset(), req.GetPageSize())
}

func (s *projectService) Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*model.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PMUserID != nil {
		if _, err := s.repo.User.GetByID(ctx, *req.PMUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPMNotFound
			}
			return nil, err
		}
		project.PMUserID = req.PMUserID
	}
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Customer != nil {
		project.Customer = req.Customer
	}
	if req.City != nil {
		project.City = req.City
	}
	if req.Address != nil {
		project.Address = req.Address
	}
	if req.Contact24h != nil {
		project.Contact24h = req.Contact24h
	}
	if req.StartDate != nil {
		project.StartDate = parseDatePtr(req.StartDate)
	}
	if req.EndDatePlan != nil {
		project.EndDatePlan = parseDatePtr(req.EndDatePlan)
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.TotalLengthM != nil {
		project.TotalLengthM = *req.TotalLengthM
	}
	if req.BaseRatePerM != nil {
		project.BaseRatePerM = *req.BaseRatePerM
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}

	if err := s.repo.Project.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Project.SoftDelete(ctx, id)
}

// Progress 按已审核施工日志累计完成米数计算进度
func (s *projectService) Progress(ctx context.Context, id string) (*dto.ProjectProgressResponse, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	done, err := s.repo.WorkEntry.SumMetersByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	var percent float64
	if project.TotalLengthM > 0 {
		percent = done / project.TotalLengthM * 100
		if percent > 100 {
			percent = 100
		}
	}
	return &dto.ProjectProgressResponse{
		ProjectID:       id,
		TotalLengthM:    project.TotalLengthM,
		CompletedM:      done,
		ProgressPercent: percent,
	}, nil
}

// Documents 项目文件合并视图：普通文档与图纸按创建时间倒序统一分页
func (s *projectService) Documents(ctx context.Context, id string, page *dto.PaginationRequest) ([]dto.ProjectDocumentItem, int64, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, 0, err
	}

	// 两张表各自取全量后在内存中合并排序，项目级文件量级有限
	docs, _, err := s.repo.Document.List(ctx, id, "", "", 0, 1000)
	if err != nil {
		return nil, 0, err
	}
	plans, err := s.repo.Project.ListPlans(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	items := make([]docItem, 0, len(docs)+len(plans))
	for i := range docs {
		d := &docs[i]
		items = append(items, docItem{
			created: d.CreatedAt,
			item: dto.ProjectDocumentItem{
				ID:        d.ID,
				Source:    "document",
				Category:  d.Category,
				Title:     d.Title,
				FileName:  d.FileName,
				FileURL:   d.FileURL,
				CreatedAt: d.CreatedAt.Format(time.RFC3339),
			},
		})
	}
	for i := range plans {
		p := &plans[i]
		items = append(items, docItem{
			created: p.CreatedAt,
			item: dto.ProjectDocumentItem{
				ID:        p.ID,
				Source:    "plan",
				Category:  p.PlanType,
				Title:     p.Title,
				FileURL:   p.FileURL,
				CreatedAt: p.CreatedAt.Format(time.RFC3339),
			},
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].created.After(items[j].created) })

	total := int64(len(items))
	offset := page.GetOffset()
	if offset > len(items) {
		offset = len(items)
	}
	end := offset + page.GetPageSize()
	if end > len(items) {
		end = len(items)
	}

	result := make([]dto.ProjectDocumentItem, 0, end-offset)
	for _, it := range items[offset:end] {
		result = append(result, it.item)
	}
	return result, total, nil
}

type docItem struct {
	created time.Time
	item    dto.ProjectDocumentItem
}

// Resources 项目资源总览：设备/车辆指派与物料分配
func (s *projectService) Resources(ctx context.Context, id string) (*dto.ProjectResourcesResponse, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	resp := &dto.ProjectResourcesResponse{
		ProjectID: id,
		Equipment: []dto.ProjectEquipmentItem{},
		Vehicles:  []dto.ProjectVehicleItem{},
		Materials: []dto.ProjectMaterialItem{},
	}

	eqAssignments, err := s.repo.Equipment.ListAssignmentsByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range eqAssignments {
		a := &eqAssignments[i]
		item := dto.ProjectEquipmentItem{
			AssignmentID:     a.ID,
			EquipmentID:      a.EquipmentID,
			FromTs:           a.FromTs.Format(time.RFC3339),
			RentalCostPerDay: a.RentalCostPerDay,
		}
		if a.ToTs != nil {
			ts := a.ToTs.Format(time.RFC3339)
			item.ToTs = &ts
		}
		if eq, err := s.repo.Equipment.GetByID(ctx, a.EquipmentID); err == nil {
			item.EquipmentName = eq.Name
		}
		resp.Equipment = append(resp.Equipment, item)
	}

	vhAssignments, err := s.repo.Vehicle.ListAssignmentsByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range vhAssignments {
		a := &vhAssignments[i]
		item := dto.ProjectVehicleItem{
			AssignmentID: a.ID,
			VehicleID:    a.VehicleID,
			FromTs:       a.FromTs.Format(time.RFC3339),
		}
		if a.ToTs != nil {
			ts := a.ToTs.Format(time.RFC3339)
			item.ToTs = &ts
		}
		if v, err := s.repo.Vehicle.GetByID(ctx, a.VehicleID); err == nil {
			item.PlateNumber = v.PlateNumber
		}
		resp.Vehicles = append(resp.Vehicles, item)
	}

	allocations, _, err := s.repo.Material.ListAllocations(ctx, "", id, 0, 1000)
	if err != nil {
		return nil, err
	}
	for i := range allocations {
		a := &allocations[i]
		item := dto.ProjectMaterialItem{
			AllocationID: a.ID,
			MaterialID:   a.MaterialID,
			AllocatedQty: a.AllocatedQty,
			UsedQty:      a.UsedQty,
			Status:       a.Status,
		}
		if m, err := s.repo.Material.GetByID(ctx, a.MaterialID); err == nil {
			item.MaterialName = m.Name
		}
		resp.Materials = append(resp.Materials, item)
	}

	return resp, nil
}

// ── 图纸 ──

func (s *projectService) CreatePlan(ctx context.Context, projectID string, req *dto.CreateProjectPlanRequest, uploadedBy string) (*model.ProjectPlan, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	planType := req.PlanType
	if planType == "" {
		planType = "site_plan"
	}
	plan := &model.ProjectPlan{
		ProjectID:   projectID,
		Title:       req.Title,
		PlanType:    planType,
		FilePath:    req.FilePath,
		FileURL:     req.FileURL,
		Description: req.Description,
	}
	if uploadedBy != "" {
		plan.UploadedBy = &uploadedBy
	}
	if err := s.repo.Project.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *projectService) ListPlans(ctx context.Context, projectID string) ([]model.ProjectPlan, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.Project.ListPlans(ctx, projectID)
}

func (s *projectService) DeletePlan(ctx context.Context, planID string) error {
	if _, err := s.repo.Project.GetPlanByID(ctx, planID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return s.repo.Project.DeletePlan(ctx, planID)
}

// ── 临建设施 ──

func (s *projectService) CreateFacility(ctx context.Context, projectID string, req *dto.CreateFacilityRequest) (*model.Facility, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	f := &model.Facility{
		ProjectID:    projectID,
		Type:         req.Type,
		Supplier:     req.Supplier,
		RentDailyEUR: req.RentDailyEUR,
		ServiceFreq:  req.ServiceFreq,
		Status:       "planned",
		StartDate:    parseDatePtr(req.StartDate),
		EndDate:      parseDatePtr(req.EndDate),
	}
	if err := s.repo.Facility.CreateFacility(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *projectService) UpdateFacility(ctx context.Context, facilityID string, req *dto.UpdateFacilityRequest) (*model.Facility, error) {
	f, err := s.repo.Facility.GetFacilityByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	if req.Supplier != nil {
		f.Supplier = req.Supplier
	}
	if req.RentDailyEUR != nil {
		f.RentDailyEUR = *req.RentDailyEUR
	}
	if req.ServiceFreq != nil {
		f.ServiceFreq = req.ServiceFreq
	}
	if req.Status != nil {
		f.Status = *req.Status
	}
	if req.StartDate != nil {
		f.StartDate = parseDatePtr(req.StartDate)
	}
	if req.EndDate != nil {
		f.EndDate = parseDatePtr(req.EndDate)
	}

	if err := s.repo.Facility.UpdateFacility(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *projectService) ListFacilities(ctx context.Context, projectID string) ([]model.Facility, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.Facility.ListFacilities(ctx, projectID)
}

func (s *projectService) DeleteFacility(ctx context.Context, facilityID string) error {
	if _, err := s.repo.Facility.GetFacilityByID(ctx, facilityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFacilityNotFound
		}
		return err
	}
	return s.repo.Facility.DeleteFacility(ctx, facilityID)
}

// ── 住宿 ──

func (s *projectService) CreateHousing(ctx context.Context, projectID string, req *dto.CreateHousingRequest) (*model.HousingUnit, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	h := &model.HousingUnit{
		ProjectID:    projectID,
		Address:      req.Address,
		RoomsTotal:   req.RoomsTotal,
		Beds:         req.Beds,
		RentDailyEUR: req.RentDailyEUR,
		Status:       "available",
		CheckInDate:  parseDatePtr(req.CheckInDate),
		CheckOutDate: parseDatePtr(req.CheckOutDate),
	}
	if err := s.repo.Facility.CreateHousing(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *projectService) ListHousing(ctx context.Context, projectID string) ([]model.HousingUnit, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.Facility.ListHousing(ctx, projectID)
}

func (s *projectService) DeleteHousing(ctx context.Context, housingID string) error {
	if _, err := s.repo.Facility.GetHousingByID(ctx, housingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHousingNotFound
		}
		return err
	}
	return s.repo.Facility.DeleteHousing(ctx, housingID)
}

// ── 施工日志 ──

func (s *projectService) CreateWorkEntry(ctx context.Context, projectID string, req *dto.CreateWorkEntryRequest, userID string) (*model.WorkEntry, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	e := &model.WorkEntry{
		ProjectID:    projectID,
		CrewID:       req.CrewID,
		Date:         parseDate(req.Date),
		StageCode:    req.StageCode,
		MetersDoneM:  req.MetersDoneM,
		LaborCostEUR: req.LaborCostEUR,
		Notes:        req.Notes,
	}
	if userID != "" {
		e.UserID = &userID
	}
	if err := s.repo.WorkEntry.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *projectService) ListWorkEntries(ctx context.Context, projectID string, req *dto.WorkEntryListRequest) ([]model.WorkEntry, int64, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, 0, err
	}
	return s.repo.WorkEntry.List(ctx, projectID, req.CrewID, req.GetOffset(), req.GetPageSize())
}

func (s *projectService) ApproveWorkEntry(ctx context.Context, entryID, approverID string) (*model.WorkEntry, error) {
	e, err := s.repo.WorkEntry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkEntryNotFound
		}
		return nil, err
	}
	if e.Approved {
		return nil, ErrAlreadyApproved
	}
	e.Approved = true
	e.ApprovedBy = &approverID
	if err := s.repo.WorkEntry.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
