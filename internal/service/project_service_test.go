package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
)

func setupTestProjectService() (ProjectService, *testRepos) {
	repos := newTestRepos()
	return NewProjectService(repos.toRepository(), zap.NewNop()), repos
}

func TestProjectCreate(t *testing.T) {
	svc, repos := setupTestProjectService()
	ctx := context.Background()

	missing := "00000000-0000-0000-0000-000000000000"
	if _, err := svc.Create(ctx, &dto.CreateProjectRequest{Name: "测试项目", PMUserID: &missing}); !errors.Is(err, ErrPMNotFound) {
		t.Fatalf("期望 ErrPMNotFound, 实际 %v", err)
	}

	pm := &model.User{Email: "pm@cometa.de", FirstName: "项", LastName: "经理", Role: model.RolePM}
	if err := repos.user.Create(ctx, pm); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	start := "2026-06-01"
	project, err := svc.Create(ctx, &dto.CreateProjectRequest{
		Name:         "埃森骨干网",
		StartDate:    &start,
		TotalLengthM: 5000,
		Budget:       80000,
		PMUserID:     &pm.ID,
	})
	if err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}
	if project.Status != model.ProjectStatusDraft {
		t.Errorf("新项目状态应为 draft, 实际 %s", project.Status)
	}
	if project.LanguageDefault != "de" {
		t.Errorf("默认语言应为 de, 实际 %s", project.LanguageDefault)
	}
	if project.StartDate == nil || project.StartDate.Format("2006-01-02") != start {
		t.Errorf("开工日期不符: %v", project.StartDate)
	}
}

func TestProjectProgress_CountsApprovedOnly(t *testing.T) {
	svc, repos := setupTestProjectService()
	ctx := context.Background()

	project, err := svc.Create(ctx, &dto.CreateProjectRequest{Name: "多特蒙德环网", TotalLengthM: 1000})
	if err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	e1, err := svc.CreateWorkEntry(ctx, project.ID, &dto.CreateWorkEntryRequest{
		Date:        today(),
		MetersDoneM: 300,
	}, "")
	if err != nil {
		t.Fatalf("创建施工日志失败: %v", err)
	}
	if _, err := svc.CreateWorkEntry(ctx, project.ID, &dto.CreateWorkEntryRequest{
		Date:        today(),
		MetersDoneM: 200,
	}, ""); err != nil {
		t.Fatalf("创建施工日志失败: %v", err)
	}

	// 未审核的日志不计入进度
	progress, err := svc.Progress(ctx, project.ID)
	if err != nil {
		t.Fatalf("进度查询失败: %v", err)
	}
	if progress.CompletedM != 0 || progress.ProgressPercent != 0 {
		t.Errorf("未审核日志不应计入进度: %+v", progress)
	}

	approver := &model.User{Email: "chef@cometa.de", FirstName: "审", LastName: "批", Role: model.RoleAdmin}
	if err := repos.user.Create(ctx, approver); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	approved, err := svc.ApproveWorkEntry(ctx, e1.ID, approver.ID)
	if err != nil {
		t.Fatalf("审核失败: %v", err)
	}
	if !approved.Approved || approved.ApprovedBy == nil || *approved.ApprovedBy != approver.ID {
		t.Errorf("审核结果不符: %+v", approved)
	}

	progress, err = svc.Progress(ctx, project.ID)
	if err != nil {
		t.Fatalf("进度查询失败: %v", err)
	}
	if progress.CompletedM != 300 || progress.ProgressPercent != 30 {
		t.Errorf("进度应为 300m/30%%, 实际 %+v", progress)
	}

	// 重复审核被拒绝
	if _, err := svc.ApproveWorkEntry(ctx, e1.ID, approver.ID); !errors.Is(err, ErrAlreadyApproved) {
		t.Fatalf("期望 ErrAlreadyApproved, 实际 %v", err)
	}
	if _, err := svc.ApproveWorkEntry(ctx, "不存在", approver.ID); !errors.Is(err, ErrWorkEntryNotFound) {
		t.Fatalf("期望 ErrWorkEntryNotFound, 实际 %v", err)
	}
}

func TestProjectProgress_CapsAtHundred(t *testing.T) {
	svc, repos := setupTestProjectService()
	ctx := context.Background()

	project, err := svc.Create(ctx, &dto.CreateProjectRequest{Name: "短段工程", TotalLengthM: 100})
	if err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}
	approver := &model.User{Email: "a@cometa.de", FirstName: "审", LastName: "批", Role: model.RoleAdmin}
	if err := repos.user.Create(ctx, approver); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	e, err := svc.CreateWorkEntry(ctx, project.ID, &dto.CreateWorkEntryRequest{
		Date:        today(),
		MetersDoneM: 150,
	}, approver.ID)
	if err != nil {
		t.Fatalf("创建施工日志失败: %v", err)
	}
	if e.UserID == nil || *e.UserID != approver.ID {
		t.Errorf("日志应记录创建人: %+v", e)
	}
	if _, err := svc.ApproveWorkEntry(ctx, e.ID, approver.ID); err != nil {
		t.Fatalf("审核失败: %v", err)
	}

	progress, err := svc.Progress(ctx, project.ID)
	if err != nil {
		t.Fatalf("进度查询失败: %v", err)
	}
	if progress.ProgressPercent != 100 {
		t.Errorf("进度应封顶 100%%, 实际 %v", progress.ProgressPercent)
	}
}

func TestProjectFacilitiesAndHousing(t *testing.T) {
	svc, _ := setupTestProjectService()
	ctx := context.Background()

	project, err := svc.Create(ctx, &dto.CreateProjectRequest{Name: "莱比锡新区"})
	if err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	fac, err := svc.CreateFacility(ctx, project.ID, &dto.CreateFacilityRequest{
		Type:         "container",
		RentDailyEUR: 15,
	})
	if err != nil {
		t.Fatalf("创建临建失败: %v", err)
	}
	if fac.Status != "planned" {
		t.Errorf("新临建状态应为 planned, 实际 %s", fac.Status)
	}

	hu, err := svc.CreateHousing(ctx, project.ID, &dto.CreateHousingRequest{
		Address:      "Leipzig, Bahnhofstr. 3",
		Beds:         6,
		RentDailyEUR: 40,
	})
	if err != nil {
		t.Fatalf("创建住宿失败: %v", err)
	}
	if hu.Status != "available" {
		t.Errorf("新住宿状态应为 available, 实际 %s", hu.Status)
	}

	facilities, err := svc.ListFacilities(ctx, project.ID)
	if err != nil || len(facilities) != 1 {
		t.Fatalf("临建列表应有 1 条, 实际 %d (err=%v)", len(facilities), err)
	}

	if err := svc.DeleteFacility(ctx, fac.ID); err != nil {
		t.Fatalf("删除临建失败: %v", err)
	}
	if err := svc.DeleteHousing(ctx, hu.ID); err != nil {
		t.Fatalf("删除住宿失败: %v", err)
	}

	// 项目不存在时各子资源操作返回项目错误
	if _, err := svc.CreateFacility(ctx, "不存在", &dto.CreateFacilityRequest{Type: "fence"}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("期望 ErrProjectNotFound, 实际 %v", err)
	}
	if _, _, err := svc.ListWorkEntries(ctx, "不存在", &dto.WorkEntryListRequest{}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("期望 ErrProjectNotFound, 实际 %v", err)
	}
}

func TestProjectDocuments_MergedView(t *testing.T) {
	svc, repos := setupTestProjectService()
	ctx := context.Background()

	if _, _, err := svc.Documents(ctx, "00000000-0000-0000-0000-000000000000", &dto.PaginationRequest{}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("期望 ErrProjectNotFound, 实际 %v", err)
	}

	project := &model.Project{Name: "科隆城域网", Status: model.ProjectStatusActive}
	if err := repos.project.Create(ctx, project); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	now := time.Now()
	plan := &model.ProjectPlan{ProjectID: project.ID, Title: "开挖平面图", PlanType: "site_plan", FileURL: "https://files.local/plan.pdf"}
	plan.CreatedAt = now.Add(-time.Hour)
	if err := repos.project.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("创建图纸失败: %v", err)
	}
	doc := &model.Document{ProjectID: &project.ID, Category: "contract", Title: "施工合同", FileName: "vertrag.pdf", FileURL: "https://files.local/vertrag.pdf"}
	doc.CreatedAt = now
	if err := repos.document.Create(ctx, doc); err != nil {
		t.Fatalf("创建文档失败: %v", err)
	}

	items, total, err := svc.Documents(ctx, project.ID, &dto.PaginationRequest{})
	if err != nil {
		t.Fatalf("查询项目文件失败: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("合并视图应有 2 条, 实际 total=%d len=%d", total, len(items))
	}
	// 新的在前：文档晚于图纸创建
	if items[0].Source != "document" || items[0].ID != doc.ID || items[0].Category != "contract" {
		t.Errorf("首条应为文档: %+v", items[0])
	}
	if items[1].Source != "plan" || items[1].ID != plan.ID || items[1].Category != "site_plan" {
		t.Errorf("次条应为图纸: %+v", items[1])
	}
	if items[1].FileName != "" {
		t.Errorf("图纸条目不带文件名, 实际 %q", items[1].FileName)
	}

	// 分页落在第二页只剩图纸
	page2, total, err := svc.Documents(ctx, project.ID, &dto.PaginationRequest{Page: 2, PageSize: 1})
	if err != nil {
		t.Fatalf("第二页查询失败: %v", err)
	}
	if total != 2 || len(page2) != 1 || page2[0].ID != plan.ID {
		t.Errorf("第二页应只含图纸, 实际 total=%d items=%+v", total, page2)
	}
}

func TestProjectResources(t *testing.T) {
	svc, repos := setupTestProjectService()
	ctx := context.Background()

	if _, err := svc.Resources(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("期望 ErrProjectNotFound, 实际 %v", err)
	}

	project := &model.Project{Name: "多特蒙德入户段", Status: model.ProjectStatusActive}
	if err := repos.project.Create(ctx, project); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	eq := &model.Equipment{Name: "吹缆机", Type: "blower", Status: model.EquipmentStatusInUse, RentalCostPerDayEUR: 150}
	if err := repos.equipment.Create(ctx, eq); err != nil {
		t.Fatalf("创建设备失败: %v", err)
	}
	if err := repos.equipment.CreateAssignment(ctx, &model.EquipmentAssignment{
		EquipmentID: eq.ID, ProjectID: &project.ID, FromTs: time.Now(), RentalCostPerDay: 150,
	}); err != nil {
		t.Fatalf("创建设备指派失败: %v", err)
	}

	vehicle := &model.Vehicle{PlateNumber: "DO-CM 421", Type: "van", Status: "in_use"}
	if err := repos.vehicle.Create(ctx, vehicle); err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}
	endTs := time.Now().Add(-time.Hour)
	if err := repos.vehicle.CreateAssignment(ctx, &model.VehicleAssignment{
		VehicleID: vehicle.ID, ProjectID: &project.ID, FromTs: time.Now().Add(-48 * time.Hour), ToTs: &endTs,
	}); err != nil {
		t.Fatalf("创建车辆指派失败: %v", err)
	}

	mat := &model.Material{Name: "微管 12x8", Unit: "m", CurrentStockQty: 500}
	if err := repos.material.Create(ctx, mat); err != nil {
		t.Fatalf("创建物料失败: %v", err)
	}
	if err := repos.material.CreateAllocation(ctx, &model.MaterialAllocation{
		MaterialID: mat.ID, ProjectID: &project.ID, AllocatedQty: 200, UsedQty: 50,
		AllocationDate: time.Now(), Status: "allocated",
	}); err != nil {
		t.Fatalf("创建物料分配失败: %v", err)
	}

	resp, err := svc.Resources(ctx, project.ID)
	if err != nil {
		t.Fatalf("查询项目资源失败: %v", err)
	}
	if resp.ProjectID != project.ID {
		t.Errorf("项目 ID 不符: %s", resp.ProjectID)
	}
	if len(resp.Equipment) != 1 || resp.Equipment[0].EquipmentName != "吹缆机" || resp.Equipment[0].ToTs != nil {
		t.Errorf("设备资源不符: %+v", resp.Equipment)
	}
	if len(resp.Vehicles) != 1 || resp.Vehicles[0].PlateNumber != "DO-CM 421" || resp.Vehicles[0].ToTs == nil {
		t.Errorf("车辆资源不符: %+v", resp.Vehicles)
	}
	if len(resp.Materials) != 1 || resp.Materials[0].MaterialName != "微管 12x8" || resp.Materials[0].AllocatedQty != 200 {
		t.Errorf("物料资源不符: %+v", resp.Materials)
	}
}
