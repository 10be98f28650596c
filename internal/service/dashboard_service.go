package service

import (
	"context"

	"go.uber.org/zap"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
)

// DashboardService 仪表盘统计接口
type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Stats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	resp := &dto.DashboardStatsResponse{}
	var err error

	if resp.ActiveProjects, err = s.repo.Project.CountByStatus(ctx, model.ProjectStatusActive); err != nil {
		return nil, err
	}
	if resp.TotalProjects, err = s.repo.Project.Count(ctx); err != nil {
		return nil, err
	}
	if resp.EquipmentInUse, err = s.repo.Equipment.CountByStatus(ctx, model.EquipmentStatusInUse); err != nil {
		return nil, err
	}
	if resp.EquipmentTotal, err = s.repo.Equipment.Count(ctx); err != nil {
		return nil, err
	}
	if resp.VehiclesInUse, err = s.repo.Vehicle.CountByStatus(ctx, "in_use"); err != nil {
		return nil, err
	}
	if resp.VehiclesTotal, err = s.repo.Vehicle.Count(ctx); err != nil {
		return nil, err
	}
	if resp.ActiveCrews, err = s.repo.Crew.CountActive(ctx); err != nil {
		return nil, err
	}
	if resp.LowStockMaterials, err = s.repo.Material.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if resp.PendingOrders, err = s.repo.Material.CountOrdersByStatus(ctx, model.OrderStatusPending); err != nil {
		return nil, err
	}
	if resp.UnreadNotifications, err = s.repo.Notification.CountUnreadAll(ctx); err != nil {
		return nil, err
	}
	if resp.TotalBudget, err = s.repo.Project.SumBudgets(ctx); err != nil {
		return nil, err
	}
	if resp.TotalCosts, err = s.repo.Financial.SumCosts(ctx, repository.FinancialFilter{}); err != nil {
		return nil, err
	}
	return resp, nil
}
