package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
	apperrors "cometa/backend/pkg/errors"
)

var (
	ErrVehicleNotFound = errors.New("车辆不存在")
	ErrPlateExists     = errors.New("车牌号已存在")
)

// VehicleService 车辆业务接口
type VehicleService interface {
	Create(ctx context.Context, req *dto.CreateVehicleRequest) (*model.Vehicle, error)
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	List(ctx context.Context, req *dto.VehicleListRequest) ([]model.Vehicle, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateVehicleRequest) (*model.Vehicle, error)
	Delete(ctx context.Context, id string) error

	Assign(ctx context.Context, vehicleID string, req *dto.CreateAssignmentRequest) (*model.VehicleAssignment, error)
	EndAssignment(ctx context.Context, assignmentID string, req *dto.EndAssignmentRequest) error
	ListAssignments(ctx context.Context, vehicleID string, page *dto.PaginationRequest) ([]model.VehicleAssignment, int64, error)

	AddDocument(ctx context.Context, vehicleID string, req *dto.CreateResourceDocumentRequest) (*model.VehicleDocument, error)
	ListDocuments(ctx context.Context, vehicleID string) ([]model.VehicleDocument, error)
	DeleteDocument(ctx context.Context, docID string) error
}

type vehicleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVehicleService 创建 VehicleService 实例
func NewVehicleService(repo *repository.Repository, logger *zap.Logger) VehicleService {
	return &vehicleService{repo: repo, logger: logger}
}

func (s *vehicleService) Create(ctx context.Context, req *dto.CreateVehicleRequest) (*model.Vehicle, error) {
	if _, err := s.repo.Vehicle.GetByPlate(ctx, req.PlateNumber); err == nil {
		return nil, ErrPlateExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	owned := true
	if req.Owned != nil {
		owned = *req.Owned
	}
	v := &model.Vehicle{
		PlateNumber:         req.PlateNumber,
		Type:                req.Type,
		Brand:               req.Brand,
		Model:               req.Model,
		Status:              "available",
		FuelType:            req.FuelType,
		RentalCostPerDayEUR: req.RentalCostPerDayEUR,
		Owned:               owned,
	}
	if err := s.repo.Vehicle.Create(ctx, v); err != nil {
		s.logger.Error("创建车辆失败", zap.Error(err))
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	v, err := s.repo.Vehicle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) List(ctx context.Context, req *dto.VehicleListRequest) ([]model.Vehicle, int64, error) {
	return s.repo.Vehicle.List(ctx, req.Type, req.Status, req.Keyword, req.GetOffset(), req.GetPageSize())
}

func (s *vehicleService) Update(ctx context.Context, id string, req *dto.UpdateVehicleRequest) (*model.Vehicle, error) {
	v, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		v.Type = *req.Type
	}
	if req.Brand != nil {
		v.Brand = req.Brand
	}
	if req.Model != nil {
		v.Model = req.Model
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.FuelType != nil {
		v.FuelType = req.FuelType
	}
	if req.RentalCostPerDayEUR != nil {
		v.RentalCostPerDayEUR = *req.RentalCostPerDayEUR
	}
	if req.CurrentLocation != nil {
		v.CurrentLocation = req.CurrentLocation
	}

	if err := s.repo.Vehicle.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete 软删除，存在有效指派时拒绝
func (s *vehicleService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	open, err := s.repo.Vehicle.HasOpenAssignment(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return apperrors.ErrActiveAssignment
	}
	return s.repo.Vehicle.SoftDelete(ctx, id)
}

// ── 指派 ──

// Assign 创建指派，事务内行锁保证同一车辆至多一条有效指派
func (s *vehicleService) Assign(ctx context.Context, vehicleID string, req *dto.CreateAssignmentRequest) (*model.VehicleAssignment, error) {
	if req.CrewID == nil && req.ProjectID == nil {
		return nil, ErrAssignmentTarget
	}

	v, err := s.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	fromTs, err := time.Parse(time.RFC3339, req.FromTs)
	if err != nil {
		fromTs = parseDate(req.FromTs)
	}
	rental := req.RentalCostPerDay
	if rental == 0 {
		rental = v.RentalCostPerDayEUR
	}

	assignment := &model.VehicleAssignment{
		VehicleID:        vehicleID,
		CrewID:           req.CrewID,
		ProjectID:        req.ProjectID,
		FromTs:           fromTs,
		RentalCostPerDay: rental,
		Notes:            req.Notes,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Vehicle.GetOpenAssignmentForUpdate(ctx, vehicleID)
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

		if err := tx.Vehicle.CreateAssignment(ctx, assignment); err != nil {
			// 行锁未覆盖"无有效指派"场景，唯一索引兜底并发插入
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w（并发指派）", apperrors.ErrResourceConflict)
			}
			return err
		}
		v.Status = "in_use"
		return tx.Vehicle.Update(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *vehicleService) EndAssignment(ctx context.Context, assignmentID string, req *dto.EndAssignmentRequest) error {
	assignment, err := s.repo.Vehicle.GetAssignmentByID(ctx, assignmentID)
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
		if err := tx.Vehicle.EndAssignment(ctx, assignmentID, toTs); err != nil {
			return err
		}
		v, err := tx.Vehicle.GetByID(ctx, assignment.VehicleID)
		if err != nil {
			return err
		}
		v.Status = "available"
		return tx.Vehicle.Update(ctx, v)
	})
}

func (s *vehicleService) ListAssignments(ctx context.Context, vehicleID string, page *dto.PaginationRequest) ([]model.VehicleAssignment, int64, error) {
	if _, err := s.GetByID(ctx, vehicleID); err != nil {
		return nil, 0, err
	}
	return s.repo.Vehicle.ListAssignments(ctx, vehicleID, page.GetOffset(), page.GetPageSize())
}

// ── 证件 ──

func (s *vehicleService) AddDocument(ctx context.Context, vehicleID string, req *dto.CreateResourceDocumentRequest) (*model.VehicleDocument, error) {
	if _, err := s.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	doc := &model.VehicleDocument{
		VehicleID:    vehicleID,
		DocumentType: req.DocumentType,
		Title:        req.Title,
		FilePath:     req.FilePath,
		ExpiryDate:   parseDatePtr(req.ExpiryDate),
	}
	if err := s.repo.Vehicle.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *vehicleService) ListDocuments(ctx context.Context, vehicleID string) ([]model.VehicleDocument, error) {
	if _, err := s.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.repo.Vehicle.ListDocuments(ctx, vehicleID)
}

func (s *vehicleService) DeleteDocument(ctx context.Context, docID string) error {
	return s.repo.Vehicle.SoftDeleteDocument(ctx, docID)
}
