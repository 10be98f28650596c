package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
)

var (
	ErrMaterialNotFound   = errors.New("物料不存在")
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrAllocationNotFound = errors.New("分配记录不存在")
	ErrInsufficientStock  = errors.New("可用库存不足")
	ErrOrderNotPending    = errors.New("订单状态不允许此操作")
	ErrUsageExceedsQty    = errors.New("用量超出分配数量")
)

// MaterialService 物料业务接口
type MaterialService interface {
	Create(ctx context.Context, req *dto.CreateMaterialRequest) (*model.Material, error)
	GetByID(ctx context.Context, id string) (*model.Material, error)
	List(ctx context.Context, req *dto.MaterialListRequest) ([]model.Material, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateMaterialRequest) (*model.Material, error)
	AdjustStock(ctx context.Context, id string, req *dto.AdjustStockRequest) (*model.Material, error)
	Delete(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*model.MaterialOrder, error)
	GetOrderByID(ctx context.Context, id string) (*model.MaterialOrder, error)
	ListOrders(ctx context.Context, req *dto.OrderListRequest) ([]model.MaterialOrder, int64, error)
	UpdateOrderStatus(ctx context.Context, id string, req *dto.UpdateOrderStatusRequest) (*model.MaterialOrder, error)

	Allocate(ctx context.Context, req *dto.CreateAllocationRequest) (*model.MaterialAllocation, error)
	RecordUsage(ctx context.Context, allocationID string, req *dto.RecordUsageRequest) (*model.MaterialAllocation, error)
	ListAllocations(ctx context.Context, materialID, projectID string, page *dto.PaginationRequest) ([]model.MaterialAllocation, int64, error)
}

type materialService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMaterialService 创建 MaterialService 实例
func NewMaterialService(repo *repository.Repository, logger *zap.Logger) MaterialService {
	return &materialService{repo: repo, logger: logger}
}

func (s *materialService) Create(ctx context.Context, req *dto.CreateMaterialRequest) (*model.Material, error) {
	m := &model.Material{
		Name:            req.Name,
		Unit:            req.Unit,
		SKU:             req.SKU,
		Description:     req.Description,
		DefaultPriceEUR: req.DefaultPriceEUR,
		CurrentStockQty: req.CurrentStockQty,
		MinStockLevel:   req.MinStockLevel,
	}
	if err := s.repo.Material.Create(ctx, m); err != nil {
		s.logger.Error("创建物料失败", zap.Error(err))
		return nil, err
	}
	return m, nil
}

func (s *materialService) GetByID(ctx context.Context, id string) (*model.Material, error) {
	m, err := s.repo.Material.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *materialService) List(ctx context.Context, req *dto.MaterialListRequest) ([]model.Material, int64, error) {
	return s.repo.Material.List(ctx, req.Keyword, req.LowStock, req.GetOffset(), req.GetPageSize())
}

func (s *materialService) Update(ctx context.Context, id string, req *dto.UpdateMaterialRequest) (*model.Material, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Unit != nil {
		m.Unit = *req.Unit
	}
	if req.Description != nil {
		m.Description = req.Description
	}
	if req.DefaultPriceEUR != nil {
		m.DefaultPriceEUR = *req.DefaultPriceEUR
	}
	if req.MinStockLevel != nil {
		m.MinStockLevel = *req.MinStockLevel
	}

	if err := s.repo.Material.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// AdjustStock 手工盘点调整，负 delta 不得导致负库存
func (s *materialService) AdjustStock(ctx context.Context, id string, req *dto.AdjustStockRequest) (*model.Material, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Material.AdjustStock(ctx, id, req.Delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *materialService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Material.SoftDelete(ctx, id)
}

// ── 采购订单 ──

func (s *materialService) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*model.MaterialOrder, error) {
	material, err := s.GetByID(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}

	unitPrice := req.UnitPriceEUR
	if unitPrice == 0 {
		unitPrice = material.DefaultPriceEUR
	}
	order := &model.MaterialOrder{
		MaterialID:           req.MaterialID,
		ProjectID:            req.ProjectID,
		SupplierName:         req.SupplierName,
		Quantity:             req.Quantity,
		UnitPriceEUR:         unitPrice,
		Status:               model.OrderStatusPending,
		OrderDate:            parseDatePtr(req.OrderDate),
		ExpectedDeliveryDate: parseDatePtr(req.ExpectedDeliveryDate),
		Notes:                req.Notes,
	}
	if err := s.repo.Material.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *materialService) GetOrderByID(ctx context.Context, id string) (*model.MaterialOrder, error) {
	order, err := s.repo.Material.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *materialService) ListOrders(ctx context.Context, req *dto.OrderListRequest) ([]model.MaterialOrder, int64, error) {
	return s.repo.Material.ListOrders(ctx, req.Status, req.ProjectID, req.GetOffset(), req.GetPageSize())
}

// UpdateOrderStatus 状态流转。delivered 时入库增加库存
func (s *materialService) UpdateOrderStatus(ctx context.Context, id string, req *dto.UpdateOrderStatusRequest) (*model.MaterialOrder, error) {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusDelivered || order.Status == model.OrderStatusCancelled {
		return nil, ErrOrderNotPending
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		order.Status = req.Status
		if req.Status == model.OrderStatusDelivered {
			order.ActualDeliveryDate = parseDatePtr(req.ActualDeliveryDate)
			if err := tx.Material.AdjustStock(ctx, order.MaterialID, order.Quantity); err != nil {
				return err
			}
		}
		return tx.Material.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ── 物料分配 ──

// Allocate 从库存向项目/班组分配，可用量不足时拒绝
func (s *materialService) Allocate(ctx context.Context, req *dto.CreateAllocationRequest) (*model.MaterialAllocation, error) {
	material, err := s.GetByID(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}
	if material.AvailableQty() < req.AllocatedQty {
		return nil, ErrInsufficientStock
	}

	allocation := &model.MaterialAllocation{
		MaterialID:     req.MaterialID,
		ProjectID:      req.ProjectID,
		CrewID:         req.CrewID,
		AllocatedQty:   req.AllocatedQty,
		AllocationDate: parseDate(req.AllocationDate),
		Status:         "allocated",
		Notes:          req.Notes,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Material.AdjustStock(ctx, req.MaterialID, -req.AllocatedQty); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInsufficientStock
			}
			return err
		}
		return tx.Material.CreateAllocation(ctx, allocation)
	})
	if err != nil {
		return nil, err
	}
	return allocation, nil
}

func (s *materialService) RecordUsage(ctx context.Context, allocationID string, req *dto.RecordUsageRequest) (*model.MaterialAllocation, error) {
	allocation, err := s.repo.Material.GetAllocationByID(ctx, allocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, err
	}

	if allocation.UsedQty+req.UsedQty > allocation.AllocatedQty {
		return nil, ErrUsageExceedsQty
	}
	allocation.UsedQty += req.UsedQty
	if allocation.UsedQty >= allocation.AllocatedQty {
		allocation.Status = "used_up"
	}
	if err := s.repo.Material.UpdateAllocation(ctx, allocation); err != nil {
		return nil, err
	}
	return allocation, nil
}

func (s *materialService) ListAllocations(ctx context.Context, materialID, projectID string, page *dto.PaginationRequest) ([]model.MaterialAllocation, int64, error) {
	return s.repo.Material.ListAllocations(ctx, materialID, projectID, page.GetOffset(), page.GetPageSize())
}
