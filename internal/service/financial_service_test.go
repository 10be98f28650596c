package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
)

func setupTestFinancialService() (FinancialService, *testRepos) {
	repos := newTestRepos()
	return NewFinancialService(repos.toRepository(), zap.NewNop()), repos
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestFinancialSummary(t *testing.T) {
	svc, repos := setupTestFinancialService()
	ctx := context.Background()

	project := &model.Project{Name: "科隆主干网", Status: model.ProjectStatusActive, Budget: 100000}
	if err := repos.project.Create(ctx, project); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}
	repos.financial.projects[project.ID] = project

	seed := []struct {
		costType string
		amount   float64
		date     string
	}{
		{model.CostTypeMaterial, 1200, "2026-03-05"},
		{model.CostTypeMaterial, 800, "2026-03-20"},
		{model.CostTypeLabor, 3000, "2026-04-01"},
	}
	for _, c := range seed {
		if _, err := svc.CreateCost(ctx, &dto.CreateCostRequest{
			ProjectID: project.ID,
			CostType:  c.costType,
			AmountEUR: c.amount,
			Date:      c.date,
		}); err != nil {
			t.Fatalf("录入成本失败: %v", err)
		}
	}
	if _, err := svc.CreateTransaction(ctx, &dto.CreateTransactionRequest{
		ProjectID: &project.ID,
		Type:      model.TransactionTypeIncome,
		AmountEUR: 20000,
		Date:      "2026-03-15",
	}); err != nil {
		t.Fatalf("录入交易失败: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, &dto.CreateTransactionRequest{
		ProjectID: &project.ID,
		Type:      model.TransactionTypeExpense,
		AmountEUR: 500,
		Date:      "2026-04-10",
	}); err != nil {
		t.Fatalf("录入交易失败: %v", err)
	}

	resp, err := svc.Summary(ctx, &dto.FinancialSummaryRequest{})
	if err != nil {
		t.Fatalf("汇总失败: %v", err)
	}
	if !almostEqual(resp.TotalCosts, 5000) {
		t.Errorf("总成本应为 5000, 实际 %v", resp.TotalCosts)
	}
	if !almostEqual(resp.CostsByType[model.CostTypeMaterial], 2000) {
		t.Errorf("物料成本应为 2000, 实际 %v", resp.CostsByType[model.CostTypeMaterial])
	}
	if !almostEqual(resp.NetBalance, 20000-500-5000) {
		t.Errorf("净额应为 14500, 实际 %v", resp.NetBalance)
	}

	// 月度序列按月排序并合并三类金额
	if len(resp.MonthlyBreakdown) != 2 {
		t.Fatalf("应有 2 个月度条目, 实际 %d", len(resp.MonthlyBreakdown))
	}
	march := resp.MonthlyBreakdown[0]
	if march.Month != "2026-03" || !almostEqual(march.Costs, 2000) || !almostEqual(march.Income, 20000) {
		t.Errorf("三月条目不符: %+v", march)
	}
	april := resp.MonthlyBreakdown[1]
	if april.Month != "2026-04" || !almostEqual(april.Costs, 3000) || !almostEqual(april.Expenses, 500) {
		t.Errorf("四月条目不符: %+v", april)
	}

	// 未过滤单项目时附项目概要
	if len(resp.ProjectSummaries) != 1 {
		t.Fatalf("应有 1 个项目概要, 实际 %d", len(resp.ProjectSummaries))
	}
	ps := resp.ProjectSummaries[0]
	if !almostEqual(ps.UsedPercent, 5) || !almostEqual(ps.Remaining, 95000) {
		t.Errorf("预算使用率不符: %+v", ps)
	}

	// 单项目过滤不再附项目概要
	scoped, err := svc.Summary(ctx, &dto.FinancialSummaryRequest{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("汇总失败: %v", err)
	}
	if len(scoped.ProjectSummaries) != 0 {
		t.Errorf("单项目汇总不应附项目概要")
	}
}

func TestFinancialSummary_YearMonthFilter(t *testing.T) {
	svc, repos := setupTestFinancialService()
	ctx := context.Background()
	project := &model.Project{Name: "杜塞尔多夫接入网", Status: model.ProjectStatusActive}
	if err := repos.project.Create(ctx, project); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	for _, date := range []string{"2026-02-10", "2026-03-10"} {
		if _, err := svc.CreateCost(ctx, &dto.CreateCostRequest{
			ProjectID: project.ID,
			CostType:  model.CostTypeOther,
			AmountEUR: 100,
			Date:      date,
		}); err != nil {
			t.Fatalf("录入成本失败: %v", err)
		}
	}

	resp, err := svc.Summary(ctx, &dto.FinancialSummaryRequest{Year: 2026, Month: 3})
	if err != nil {
		t.Fatalf("汇总失败: %v", err)
	}
	if !almostEqual(resp.TotalCosts, 100) {
		t.Errorf("三月汇总应只含一条成本, 实际 %v", resp.TotalCosts)
	}
}

func TestCreateCost_ProjectMustExist(t *testing.T) {
	svc, _ := setupTestFinancialService()
	_, err := svc.CreateCost(context.Background(), &dto.CreateCostRequest{
		ProjectID: "不存在",
		CostType:  model.CostTypeOther,
		AmountEUR: 1,
		Date:      "2026-01-01",
	})
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("期望 ErrProjectNotFound, 实际 %v", err)
	}
}

func TestPreparationCost(t *testing.T) {
	svc, repos := setupTestFinancialService()
	ctx := context.Background()

	project := &model.Project{Name: "不来梅港区改造", Status: model.ProjectStatusActive, Budget: 50000}
	if err := repos.project.Create(ctx, project); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	// 临建：10 欧/天 × 10 天（含首尾）
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 9)
	if err := repos.facility.CreateFacility(ctx, &model.Facility{
		ProjectID: project.ID, Type: "fence", RentDailyEUR: 10, StartDate: &start, EndDate: &end,
	}); err != nil {
		t.Fatalf("创建临建失败: %v", err)
	}

	// 住宿：未退房按 30 天估算
	if err := repos.facility.CreateHousing(ctx, &model.HousingUnit{
		ProjectID: project.ID, Address: "Bremerhaven, Hafenstr. 12", RentDailyEUR: 20, CheckInDate: &start,
	}); err != nil {
		t.Fatalf("创建住宿失败: %v", err)
	}

	// 设备租用：50 欧/天 × 4 天
	eq := &model.Equipment{Name: "吊车", Type: "crane", Status: model.EquipmentStatusAvailable}
	if err := repos.equipment.Create(ctx, eq); err != nil {
		t.Fatalf("创建设备失败: %v", err)
	}
	to := start.AddDate(0, 0, 4)
	if err := repos.equipment.CreateAssignment(ctx, &model.EquipmentAssignment{
		EquipmentID: eq.ID, ProjectID: &project.ID, FromTs: start, ToTs: &to, RentalCostPerDay: 50,
	}); err != nil {
		t.Fatalf("创建指派失败: %v", err)
	}

	// 物料分配：30 × 2.5 欧
	mat := &model.Material{Name: "光缆", Unit: "m", DefaultPriceEUR: 2.5, CurrentStockQty: 100}
	if err := repos.material.Create(ctx, mat); err != nil {
		t.Fatalf("创建物料失败: %v", err)
	}
	if err := repos.material.CreateAllocation(ctx, &model.MaterialAllocation{
		MaterialID: mat.ID, ProjectID: &project.ID, AllocatedQty: 30, AllocationDate: start,
	}); err != nil {
		t.Fatalf("创建分配失败: %v", err)
	}

	// 人工成本来自施工日志
	if err := repos.workEntry.Create(ctx, &model.WorkEntry{
		ProjectID: project.ID, Date: start, LaborCostEUR: 400,
	}); err != nil {
		t.Fatalf("创建施工日志失败: %v", err)
	}

	resp, err := svc.PreparationCost(ctx, project.ID)
	if err != nil {
		t.Fatalf("准备成本计算失败: %v", err)
	}
	if !almostEqual(resp.FacilityCost, 100) {
		t.Errorf("临建成本应为 100, 实际 %v", resp.FacilityCost)
	}
	if !almostEqual(resp.HousingCost, 600) {
		t.Errorf("住宿成本应为 600, 实际 %v", resp.HousingCost)
	}
	if !almostEqual(resp.EquipmentCost, 200) {
		t.Errorf("设备成本应为 200, 实际 %v", resp.EquipmentCost)
	}
	if !almostEqual(resp.MaterialCost, 75) {
		t.Errorf("物料成本应为 75, 实际 %v", resp.MaterialCost)
	}
	if !almostEqual(resp.LaborCost, 400) {
		t.Errorf("人工成本应为 400, 实际 %v", resp.LaborCost)
	}
	want := 100.0 + 600 + 200 + 75 + 400
	if !almostEqual(resp.TotalCost, want) {
		t.Errorf("总成本应为 %v, 实际 %v", want, resp.TotalCost)
	}
	if !almostEqual(resp.BudgetPercent, want/50000*100) {
		t.Errorf("预算占比不符: %v", resp.BudgetPercent)
	}

	if _, err := svc.PreparationCost(ctx, "不存在"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("期望 ErrProjectNotFound, 实际 %v", err)
	}
}
