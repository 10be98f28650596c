package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"cometa/backend/internal/model"
)

func TestDashboardStats(t *testing.T) {
	repos := newTestRepos()
	svc := NewDashboardService(repos.toRepository(), zap.NewNop())
	ctx := context.Background()

	// 项目：1 个进行中、1 个草稿
	active := &model.Project{Name: "主干网一期", Status: model.ProjectStatusActive, Budget: 100000}
	draft := &model.Project{Name: "主干网二期", Status: model.ProjectStatusDraft, Budget: 50000}
	repos.project.Create(ctx, active)
	repos.project.Create(ctx, draft)

	// 设备：1 台使用中、1 台闲置
	repos.equipment.Create(ctx, &model.Equipment{Name: "挖机", Type: "excavator", Status: model.EquipmentStatusInUse})
	repos.equipment.Create(ctx, &model.Equipment{Name: "压路机", Type: "roller", Status: model.EquipmentStatusAvailable})

	// 车辆：1 辆使用中
	repos.vehicle.Create(ctx, &model.Vehicle{PlateNumber: "B-CM 100", Type: "transporter", Status: "in_use"})

	// 班组：1 个在建、1 个已解散
	repos.crew.Create(ctx, &model.Crew{Name: "早班", Status: "active"})
	repos.crew.Create(ctx, &model.Crew{Name: "旧班组", Status: "disbanded"})

	// 物料：1 种低库存
	low := &model.Material{Name: "Leerrohr", Unit: "m", CurrentStockQty: 5, MinStockLevel: 10}
	repos.material.Create(ctx, low)
	repos.material.Create(ctx, &model.Material{Name: "Kabel", Unit: "m", CurrentStockQty: 500, MinStockLevel: 10})

	// 订单：1 笔待确认
	repos.material.CreateOrder(ctx, &model.MaterialOrder{MaterialID: low.ID, Quantity: 100, Status: model.OrderStatusPending})

	// 通知：2 条未读、1 条已读
	repos.notif.Create(ctx, &model.Notification{UserID: "u1", Title: "a", Type: "system", Priority: "normal"})
	repos.notif.Create(ctx, &model.Notification{UserID: "u1", Title: "b", Type: "system", Priority: "normal"})
	read := &model.Notification{UserID: "u1", Title: "c", Type: "system", Priority: "normal", IsRead: true}
	repos.notif.Create(ctx, read)

	// 成本
	repos.financial.CreateCost(ctx, &model.Cost{ProjectID: active.ID, CostType: "material", AmountEUR: 1234.5, Date: time.Now()})

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}

	if stats.ActiveProjects != 1 || stats.TotalProjects != 2 {
		t.Errorf("项目统计不符: active=%d total=%d", stats.ActiveProjects, stats.TotalProjects)
	}
	if stats.EquipmentInUse != 1 || stats.EquipmentTotal != 2 {
		t.Errorf("设备统计不符: inUse=%d total=%d", stats.EquipmentInUse, stats.EquipmentTotal)
	}
	if stats.VehiclesInUse != 1 || stats.VehiclesTotal != 1 {
		t.Errorf("车辆统计不符: inUse=%d total=%d", stats.VehiclesInUse, stats.VehiclesTotal)
	}
	if stats.ActiveCrews != 1 {
		t.Errorf("在建班组应为 1, 实际 %d", stats.ActiveCrews)
	}
	if stats.LowStockMaterials != 1 {
		t.Errorf("低库存物料应为 1, 实际 %d", stats.LowStockMaterials)
	}
	if stats.PendingOrders != 1 {
		t.Errorf("待确认订单应为 1, 实际 %d", stats.PendingOrders)
	}
	if stats.UnreadNotifications != 2 {
		t.Errorf("未读通知应为 2, 实际 %d", stats.UnreadNotifications)
	}
	if !almostEqual(stats.TotalBudget, 150000) {
		t.Errorf("预算合计应为 150000, 实际 %f", stats.TotalBudget)
	}
	if !almostEqual(stats.TotalCosts, 1234.5) {
		t.Errorf("成本合计应为 1234.5, 实际 %f", stats.TotalCosts)
	}
}
