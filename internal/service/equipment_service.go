package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
	apperrors "cometa/backend/pkg/errors"
)

var (
	ErrEquipmentNotFound   = errors.New("设备不存在")
	ErrAssignmentNotFound  = errors.New("指派记录不存在")
	ErrAssignmentClosed    = errors.New("指派已结束")
	ErrAssignmentTarget    = errors.New("必须指定班组或项目")
	ErrMaintenanceNotFound = errors.New("维护记录不存在")
	ErrInvalidTimeRange    = errors.New("结束时间不能早于开始时间")
)

// EquipmentService 设备业务接口
type EquipmentService interface {
	Create(ctx context.Context, req *dto.CreateEquipmentRequest) (*model.Equipment, error)
	GetByID(ctx context.Context, id string) (*model.Equipment, error)
	List(ctx context.Context, req *dto.EquipmentListRequest) ([]model.Equipment, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEquipmentRequest) (*model.Equipment, error)
	Delete(ctx context.Context, id string) error

	Assign(ctx context.Context, equipmentID string, req *dto.CreateAssignmentRequest) (*model.EquipmentAssignment, error)
	EndAssignment(ctx context.Context, assignmentID string, req *dto.EndAssignmentRequest) error
	ListAssignments(ctx context.Context, equipmentID string, page *dto.PaginationRequest) ([]model.EquipmentAssignment, int64, error)

	AddDocument(ctx context.Context, equipmentID string, req *dto.CreateResourceDocumentRequest) (*model.EquipmentDocument, error)
	ListDocuments(ctx context.Context, equipmentID string) ([]model.EquipmentDocument, error)
	DeleteDocument(ctx context.Context, docID string) error

	ScheduleMaintenance(ctx context.Context, equipmentID string, req *dto.CreateMaintenanceRequest) (*model.EquipmentMaintenance, error)
	CompleteMaintenance(ctx context.Context, maintenanceID string, req *dto.CompleteMaintenanceRequest) (*model.EquipmentMaintenance, error)
	ListMaintenance(ctx context.Context, equipmentID string) ([]model.EquipmentMaintenance, error)

	Analytics(ctx context.Context) (*dto.EquipmentAnalyticsResponse, error)
}

type equipmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEquipmentService 创建 EquipmentService 实例
func NewEquipmentService(repo *repository.Repository, logger *zap.Logger) EquipmentService {
	return &equipmentService{repo: repo, logger: logger}
}

func (s *equipmentService) Create(ctx context.Context, req *dto.CreateEquipmentRequest) (*model.Equipment, error) {
	owned := true
	if req.Owned != nil {
		owned = *req.Owned
	}
	eq := &model.Equipment{
		Name:                req.Name,
		Type:                req.Type,
		InventoryNo:         req.InventoryNo,
		Status:              model.EquipmentStatusAvailable,
		PurchasePriceEUR:    req.PurchasePriceEUR,
		RentalCostPerDayEUR: req.RentalCostPerDayEUR,
		CurrentLocation:     req.CurrentLocation,
		Owned:               owned,
	}
	if err := s.repo.Equipment.Create(ctx, eq); err != nil {
		s.logger.Error("创建设备失败", zap.Error(err))
		return nil, err
	}
	return eq, nil
}

func (s *equipmentService) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	eq, err := s.repo.Equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	return eq, nil
}

func (s *equipmentService) List(ctx context.Context, req *dto.EquipmentListRequest) ([]model.Equipment, int64, error) {
	return s.repo.Equipment.List(ctx, req.Type, req.Status, req.Keyword, req.GetOffset(), req.GetPageSize())
}

func (s *equipmentService) Update(ctx context.Context, id string, req *dto.UpdateEquipmentRequest) (*model.Equipment, error) {
	eq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		eq.Name = *req.Name
	}
	if req.Type != nil {
		eq.Type = *req.Type
	}
	if req.Status != nil {
		eq.Status = *req.Status
	}
	if req.PurchasePriceEUR != nil {
		eq.PurchasePriceEUR = *req.PurchasePriceEUR
	}
	if req.RentalCostPerDayEUR != nil {
		eq.RentalCostPerDayEUR = *req.RentalCostPerDayEUR
	}
	if req.CurrentLocation != nil {
		eq.CurrentLocation = req.CurrentLocation
	}
	if req.NextMaintenanceDate != nil {
		eq.NextMaintenanceDate = parseDatePtr(req.NextMaintenanceDate)
	}

	if err := s.repo.Equipment.Update(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

// Delete 软删除，存在有效指派时拒绝
func (s *equipmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	open, err := s.repo.Equipment.HasOpenAssignment(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return apperrors.ErrActiveAssignment
	}
	return s.repo.Equipment.SoftDelete(ctx, id)
}

// ── 指派 ──

// Assign 创建指派。占用检查与写入在同一事务内完成，
// 行锁保证并发请求不会给同一设备产生两条有效指派
func (s *equipmentService) Assign(ctx context.Context, equipmentID string, req *dto.CreateAssignmentRequest) (*model.EquipmentAssignment, error) {
	if req.CrewID == nil && req.ProjectID == nil {
		return nil, ErrAssignmentTarget
	}

	eq, err := s.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	fromTs, err := time.Parse(time.RFC3339, req.FromTs)
	if err != nil {
		fromTs = parseDate(req.FromTs)
	}
	rental := req.RentalCostPerDay
	if rental == 0 {
		rental = eq.RentalCostPerDayEUR
	}

	assignment := &model.EquipmentAssignment{
		EquipmentID:      equipmentID,
		CrewID:           req.CrewID,
		ProjectID:        req.ProjectID,
		FromTs:           fromTs,
		RentalCostPerDay: rental,
		Notes:            req.Notes,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Equipment.GetOpenAssignmentForUpdate(ctx, equipmentID)
		if err == nil {
			holder := "另一资源"
			if existing.CrewID != nil {
				if crew, cerr := tx.Crew.GetByID(ctx, *existing.CrewID); cerr == nil {
					holder = "班组 " + crew.Name
				}
			} else if existing.ProjectID != nil {
				if p, perr := tx.Project.GetByID(ctx, *existing.ProjectID); perr == nil {
					holder = "项目 " + p.Name
				}
			}
			return fmt.Errorf("%w（%s）", apperrors.ErrResourceConflict, holder)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Equipment.CreateAssignment(ctx, assignment); err != nil {
			// 行锁未覆盖"无有效指派"场景，唯一索引兜底并发插入
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w（并发指派）", apperrors.ErrResourceConflict)
			}
			return err
		}
		eq.Status = model.EquipmentStatusInUse
		return tx.Equipment.Update(ctx, eq)
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *equipmentService) EndAssignment(ctx context.Context, assignmentID string, req *dto.EndAssignmentRequest) error {
	assignment, err := s.repo.Equipment.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if !assignment.IsOpen() {
		return ErrAssignmentClosed
	}

	toTs, err := time.Parse(time.RFC3339, req.ToTs)
	if err != nil {
		toTs = parseDate(req.ToTs)
	}
	if toTs.Before(assignment.FromTs) {
		return ErrInvalidTimeRange
	}

	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Equipment.EndAssignment(ctx, assignmentID, toTs); err != nil {
			return err
		}
		eq, err := tx.Equipment.GetByID(ctx, assignment.EquipmentID)
		if err != nil {
			return err
		}
		eq.Status = model.EquipmentStatusAvailable
		return tx.Equipment.Update(ctx, eq)
	})
}

func (s *equipmentService) ListAssignments(ctx context.Context, equipmentID string, page *dto.PaginationRequest) ([]model.EquipmentAssignment, int64, error) {
	if _, err := s.GetByID(ctx, equipmentID); err != nil {
		return nil, 0, err
	}
	return s.repo.Equipment.ListAssignments(ctx, equipmentID, page.GetOffset(), page.GetPageSize())
}

// ── 证件 ──

func (s *equipmentService) AddDocument(ctx context.Context, equipmentID string, req *dto.CreateResourceDocumentRequest) (*model.EquipmentDocument, error) {
	if _, err := s.GetByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	doc := &model.EquipmentDocument{
		EquipmentID:  equipmentID,
		DocumentType: req.DocumentType,
		Title:        req.Title,
		FilePath:     req.FilePath,
		ExpiryDate:   parseDatePtr(req.ExpiryDate),
	}
	if err := s.repo.Equipment.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *equipmentService) ListDocuments(ctx context.Context, equipmentID string) ([]model.EquipmentDocument, error) {
	if _, err := s.GetByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	return s.repo.Equipment.ListDocuments(ctx, equipmentID)
}

func (s *equipmentService) DeleteDocument(ctx context.Context, docID string) error {
	return s.repo.Equipment.SoftDeleteDocument(ctx, docID)
}

// ── 维护 ──

func (s *equipmentService) ScheduleMaintenance(ctx context.Context, equipmentID string, req *dto.CreateMaintenanceRequest) (*model.EquipmentMaintenance, error) {
	eq, err := s.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	typ := req.MaintenanceType
	if typ == "" {
		typ = "scheduled"
	}
	scheduled := parseDate(req.ScheduledDate)
	m := &model.EquipmentMaintenance{
		EquipmentID:     equipmentID,
		MaintenanceType: typ,
		ScheduledDate:   scheduled,
		Status:          "scheduled",
		CostEUR:         req.CostEUR,
		Description:     req.Description,
	}
	if err := s.repo.Equipment.CreateMaintenance(ctx, m); err != nil {
		return nil, err
	}

	// 维护日期同步到设备卡片
	if eq.NextMaintenanceDate == nil || scheduled.Before(*eq.NextMaintenanceDate) {
		eq.NextMaintenanceDate = &scheduled
		if err := s.repo.Equipment.Update(ctx, eq); err != nil {
			s.logger.Warn("同步设备维护日期失败", zap.Error(err))
		}
	}
	return m, nil
}

func (s *equipmentService) CompleteMaintenance(ctx context.Context, maintenanceID string, req *dto.CompleteMaintenanceRequest) (*model.EquipmentMaintenance, error) {
	m, err := s.repo.Equipment.GetMaintenanceByID(ctx, maintenanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, err
	}

	completed := parseDate(req.CompletedDate)
	m.CompletedDate = &completed
	m.Status = "completed"
	if req.CostEUR != nil {
		m.CostEUR = *req.CostEUR
	}
	if err := s.repo.Equipment.UpdateMaintenance(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *equipmentService) ListMaintenance(ctx context.Context, equipmentID string) ([]model.EquipmentMaintenance, error) {
	if _, err := s.GetByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	return s.repo.Equipment.ListMaintenance(ctx, equipmentID)
}

// ── 分析 ──

// analyticsTrendMonths 月度趋势回溯区间
const analyticsTrendMonths = 12

// Analytics 设备池聚合分析：利用率、分布、租金、使用排行与月度趋势
func (s *equipmentService) Analytics(ctx context.Context) (*dto.EquipmentAnalyticsResponse, error) {
	items, err := s.repo.Equipment.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(analyticsTrendMonths - 1), 0)
	assignments, err := s.repo.Equipment.ListAssignmentsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	resp := &dto.EquipmentAnalyticsResponse{
		TotalCount:         len(items),
		StatusDistribution: make(map[string]int),
		TypeDistribution:   make(map[string]int),
	}

	names := make(map[string]string, len(items))
	var inUse int
	for i := range items {
		eq := &items[i]
		names[eq.ID] = eq.Name
		resp.StatusDistribution[eq.Status]++
		resp.TypeDistribution[eq.Type]++
		resp.RentalCostTotalPerDay += eq.RentalCostPerDayEUR
		if eq.Status == model.EquipmentStatusInUse {
			inUse++
		}
	}
	if len(items) > 0 {
		resp.UtilizationRate = float64(inUse) / float64(len(items)) * 100
		resp.RentalCostAvgPerDay = resp.RentalCostTotalPerDay / float64(len(items))
	}

	type usage struct {
		count int
		days  float64
	}
	usageByEquipment := make(map[string]*usage)
	projectCounts := make(map[string]*dto.EquipmentProjectCount)
	monthCounts := make(map[string]int)

	for i := range assignments {
		a := &assignments[i]

		u := usageByEquipment[a.EquipmentID]
		if u == nil {
			u = &usage{}
			usageByEquipment[a.EquipmentID] = u
		}
		u.count++
		end := now
		if a.ToTs != nil {
			end = *a.ToTs
		}
		if end.After(a.FromTs) {
			u.days += end.Sub(a.FromTs).Hours() / 24
		}

		if a.IsOpen() && a.ProjectID != nil {
			pc := projectCounts[*a.ProjectID]
			if pc == nil {
				pc = &dto.EquipmentProjectCount{ProjectID: *a.ProjectID}
				if a.Project != nil {
					pc.ProjectName = a.Project.Name
				}
				projectCounts[*a.ProjectID] = pc
			}
			pc.Count++
		}

		if !a.FromTs.Before(since) {
			monthCounts[a.FromTs.Format("2006-01")]++
		}
	}

	for id, u := range usageByEquipment {
		resp.TopUsed = append(resp.TopUsed, dto.EquipmentUsageItem{
			EquipmentID:     id,
			Name:            names[id],
			AssignmentCount: u.count,
			TotalDays:       u.days,
		})
	}
	sort.Slice(resp.TopUsed, func(i, j int) bool {
		if resp.TopUsed[i].TotalDays != resp.TopUsed[j].TotalDays {
			return resp.TopUsed[i].TotalDays > resp.TopUsed[j].TotalDays
		}
		return resp.TopUsed[i].EquipmentID < resp.TopUsed[j].EquipmentID
	})
	if len(resp.TopUsed) > 10 {
		resp.TopUsed = resp.TopUsed[:10]
	}

	for _, pc := range projectCounts {
		resp.ProjectDistribution = append(resp.ProjectDistribution, *pc)
	}
	sort.Slice(resp.ProjectDistribution, func(i, j int) bool {
		if resp.ProjectDistribution[i].Count != resp.ProjectDistribution[j].Count {
			return resp.ProjectDistribution[i].Count > resp.ProjectDistribution[j].Count
		}
		return resp.ProjectDistribution[i].ProjectID < resp.ProjectDistribution[j].ProjectID
	})

	for m := since; !m.After(now); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		resp.MonthlyTrends = append(resp.MonthlyTrends, dto.MonthlyAssignmentCount{
			Month:       key,
			Assignments: monthCounts[key],
		})
	}

	return resp, nil
}
