package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	apperrors "cometa/backend/pkg/errors"
)

func setupTestEquipmentService() (EquipmentService, *testRepos) {
	repos := newTestRepos()
	return NewEquipmentService(repos.toRepository(), zap.NewNop()), repos
}

func seedEquipment(t *testing.T, repos *testRepos, name string) *model.Equipment {
	t.Helper()
	eq := &model.Equipment{Name: name, Type: "drill", Status: model.EquipmentStatusAvailable, RentalCostPerDayEUR: 80}
	if err := repos.equipment.Create(context.Background(), eq); err != nil {
		t.Fatalf("创建设备失败: %v", err)
	}
	return eq
}

func TestEquipmentAssign_RequiresTarget(t *testing.T) {
	svc, repos := setupTestEquipmentService()
	eq := seedEquipment(t, repos, "钻机 1 号")

	_, err := svc.Assign(context.Background(), eq.ID, &dto.CreateAssignmentRequest{
		FromTs: time.Now().Format(time.RFC3339),
	})
	if !errors.Is(err, ErrAssignmentTarget) {
		t.Fatalf("期望 ErrAssignmentTarget, 实际 %v", err)
	}
}

func TestEquipmentAssign_ConflictNamesHolder(t *testing.T) {
	svc, repos := setupTestEquipmentService()
	ctx := context.Background()
	eq := seedEquipment(t, repos, "注浆机")

	crew := &model.Crew{Name: "夜班班组", Status: "active"}
	if err := repos.crew.Create(ctx, crew); err != nil {
		t.Fatalf("创建班组失败: %v", err)
	}
	project := &model.Project{Name: "法兰克福扩容", Status: model.ProjectStatusActive}
	if err := repos.project.Create(ctx, project); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	if _, err := svc.Assign(ctx, eq.ID, &dto.CreateAssignmentRequest{
		CrewID: &crew.ID,
		FromTs: time.Now().Format(time.RFC3339),
	}); err != nil {
		t.Fatalf("首次指派应成功: %v", err)
	}

	_, err := svc.Assign(ctx, eq.ID, &dto.CreateAssignmentRequest{
		ProjectID: &project.ID,
		FromTs:    time.Now().Format(time.RFC3339),
	})
	if !errors.Is(err, apperrors.ErrResourceConflict) {
		t.Fatalf("期望资源占用冲突, 实际 %v", err)
	}
	if !strings.Contains(err.Error(), "夜班班组") {
		t.Errorf("冲突信息应带出占用班组名: %v", err)
	}
}

func TestEquipmentAssign_StatusAndRentalDefault(t *testing.T) {
	svc, repos := setupTestEquipmentService()
	ctx := context.Background()
	eq := seedEquipment(t, repos, "挖掘机")
	crew := &model.Crew{Name: "一组", Status: "active"}
	if err := repos.crew.Create(ctx, crew); err != nil {
		t.Fatalf("创建班组失败: %v", err)
	}

	a, err := svc.Assign(ctx, eq.ID, &dto.CreateAssignmentRequest{
		CrewID: &crew.ID,
		FromTs: time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("指派失败: %v", err)
	}
	// 未传租金时回落到设备日租金
	if a.RentalCostPerDay != 80 {
		t.Errorf("租金应回落到设备日租金 80, 实际 %v", a.RentalCostPerDay)
	}
	if got, _ := repos.equipment.GetByID(ctx, eq.ID); got.Status != model.EquipmentStatusInUse {
		t.Errorf("指派后设备应为 in_use, 实际 %s", got.Status)
	}

	if err := svc.EndAssignment(ctx, a.ID, &dto.EndAssignmentRequest{
		ToTs: time.Now().Format(time.RFC3339),
	}); err != nil {
		t.Fatalf("结束指派失败: %v", err)
	}
	if got, _ := repos.equipment.GetByID(ctx, eq.ID); got.Status != model.EquipmentStatusAvailable {
		t.Errorf("结束指派后设备应恢复 available, 实际 %s", got.Status)
	}
}

func TestEquipmentEndAssignment_Validation(t *testing.T) {
	svc, repos := setupTestEquipmentService()
	ctx := context.Background()
	eq := seedEquipment(t, repos, "压路机")
	crew := &model.Crew{Name: "二组", Status: "active"}
	if err := repos.crew.Create(ctx, crew); err != nil {
		t.Fatalf("创建班组失败: %v", err)
	}

	from := time.Now()
	a, err := svc.Assign(ctx, eq.ID, &dto.CreateAssignmentRequest{
		CrewID: &crew.ID,
		FromTs: from.Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("指派失败: %v", err)
	}

	// 结束时间早于开始时间
	err = svc.EndAssignment(ctx, a.ID, &dto.EndAssignmentRequest{
		ToTs: from.Add(-24 * time.Hour).Format(time.RFC3339),
	})
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("期望 ErrInvalidTimeRange, 实际 %v", err)
	}

	if err := svc.EndAssignment(ctx, a.ID, &dto.EndAssignmentRequest{
		ToTs: from.Add(time.Hour).Format(time.RFC3339),
	}); err != nil {
		t.Fatalf("正常结束失败: %v", err)
	}

	// 已结束的指派不能再次结束
	err = svc.EndAssignment(ctx, a.ID, &dto.EndAssignmentRequest{
		ToTs: from.Add(2 * time.Hour).Format(time.RFC3339),
	})
	if !errors.Is(err, ErrAssignmentClosed) {
		t.Fatalf("期望 ErrAssignmentClosed, 实际 %v", err)
	}

	err = svc.EndAssignment(ctx, "不存在", &dto.EndAssignmentRequest{
		ToTs: time.Now().Format(time.RFC3339),
	})
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("期望 ErrAssignmentNotFound, 实际 %v", err)
	}
}

func TestEquipmentDelete_ActiveAssignmentGuard(t *testing.T) {
	svc, repos := setupTestEquipmentService()
	ctx := context.Background()
	eq := seedEquipment(t, repos, "发电机")
	crew := &model.Crew{Name: "三组", Status: "active"}
	if err := repos.crew.Create(ctx, crew); err != nil {
		t.Fatalf("创建班组失败: %v", err)
	}

	a, err := svc.Assign(ctx, eq.ID, &dto.CreateAssignmentRequest{
		CrewID: &crew.ID,
		FromTs: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("指派失败: %v", err)
	}

	if err := svc.Delete(ctx, eq.ID); !errors.Is(err, apperrors.ErrActiveAssignment) {
		t.Fatalf("有效指派存在时删除应被拒绝, 实际 %v", err)
	}

	if err := svc.EndAssignment(ctx, a.ID, &dto.EndAssignmentRequest{
		ToTs: time.Now().Format(time.RFC3339),
	}); err != nil {
		t.Fatalf("结束指派失败: %v", err)
	}
	if err := svc.Delete(ctx, eq.ID); err != nil {
		t.Fatalf("结束指派后删除应成功: %v", err)
	}
	if _, err := svc.GetByID(ctx, eq.ID); !errors.Is(err, ErrEquipmentNotFound) {
		t.Fatalf("删除后应不可见, 实际 %v", err)
	}
}

func TestScheduleMaintenance_SyncsNextDate(t *testing.T) {
	svc, repos := setupTestEquipmentService()
	ctx := context.Background()
	eq := seedEquipment(t, repos, "水平定向钻")

	date := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	m, err := svc.ScheduleMaintenance(ctx, eq.ID, &dto.CreateMaintenanceRequest{
		ScheduledDate: date,
	})
	if err != nil {
		t.Fatalf("创建维护计划失败: %v", err)
	}
	if m.Status != "scheduled" || m.MaintenanceType != "scheduled" {
		t.Errorf("默认状态/类型应为 scheduled: %+v", m)
	}

	got, _ := repos.equipment.GetByID(ctx, eq.ID)
	if got.NextMaintenanceDate == nil || got.NextMaintenanceDate.Format("2006-01-02") != date {
		t.Errorf("维护日期应同步到设备卡片, 实际 %v", got.NextMaintenanceDate)
	}

	// 更早的计划覆盖卡片日期
	earlier := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	if _, err := svc.ScheduleMaintenance(ctx, eq.ID, &dto.CreateMaintenanceRequest{ScheduledDate: earlier}); err != nil {
		t.Fatalf("第二个维护计划失败: %v", err)
	}
	got, _ = repos.equipment.GetByID(ctx, eq.ID)
	if got.NextMaintenanceDate.Format("2006-01-02") != earlier {
		t.Errorf("更早的维护计划应覆盖卡片日期, 实际 %v", got.NextMaintenanceDate)
	}

	done, err := svc.CompleteMaintenance(ctx, m.ID, &dto.CompleteMaintenanceRequest{
		CompletedDate: time.Now().Format("2006-01-02"),
	})
	if err != nil {
		t.Fatalf("完成维护失败: %v", err)
	}
	if done.Status != "completed" || done.CompletedDate == nil {
		t.Errorf("完成后状态应为 completed: %+v", done)
	}
}

func TestEquipmentAnalytics(t *testing.T) {
	svc, repos := setupTestEquipmentService()
	ctx := context.Background()

	drill := seedEquipment(t, repos, "钻机 A")
	drill.Status = model.EquipmentStatusInUse
	splicer := &model.Equipment{Name: "熔接机", Type: "splicer", Status: model.EquipmentStatusInUse, RentalCostPerDayEUR: 120}
	if err := repos.equipment.Create(ctx, splicer); err != nil {
		t.Fatalf("创建设备失败: %v", err)
	}
	seedEquipment(t, repos, "钻机 B")

	project := &model.Project{Name: "汉堡南段", Status: model.ProjectStatusActive}
	if err := repos.project.Create(ctx, project); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	now := time.Now()
	// 进行中的指派：计入项目分布
	if err := repos.equipment.CreateAssignment(ctx, &model.EquipmentAssignment{
		EquipmentID: drill.ID,
		ProjectID:   &project.ID,
		FromTs:      now.Add(-48 * time.Hour),
	}); err != nil {
		t.Fatalf("创建指派失败: %v", err)
	}
	// 已结束的指派：只累计使用时长
	endTs := now.Add(-5 * 24 * time.Hour)
	if err := repos.equipment.CreateAssignment(ctx, &model.EquipmentAssignment{
		EquipmentID: splicer.ID,
		ProjectID:   &project.ID,
		FromTs:      now.Add(-10 * 24 * time.Hour),
		ToTs:        &endTs,
	}); err != nil {
		t.Fatalf("创建指派失败: %v", err)
	}

	resp, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("分析统计失败: %v", err)
	}

	if resp.TotalCount != 3 {
		t.Errorf("设备总数应为 3, 实际 %d", resp.TotalCount)
	}
	if !almostEqual(resp.UtilizationRate, 200.0/3) {
		t.Errorf("利用率应为 66.67, 实际 %.2f", resp.UtilizationRate)
	}
	if resp.StatusDistribution[model.EquipmentStatusInUse] != 2 || resp.StatusDistribution[model.EquipmentStatusAvailable] != 1 {
		t.Errorf("状态分布不符: %v", resp.StatusDistribution)
	}
	if resp.TypeDistribution["drill"] != 2 || resp.TypeDistribution["splicer"] != 1 {
		t.Errorf("类型分布不符: %v", resp.TypeDistribution)
	}
	if !almostEqual(resp.RentalCostTotalPerDay, 280) || !almostEqual(resp.RentalCostAvgPerDay, 280.0/3) {
		t.Errorf("租金统计不符: total=%.2f avg=%.2f", resp.RentalCostTotalPerDay, resp.RentalCostAvgPerDay)
	}

	if len(resp.TopUsed) != 2 {
		t.Fatalf("使用排行应有 2 条, 实际 %d", len(resp.TopUsed))
	}
	if resp.TopUsed[0].EquipmentID != splicer.ID || !almostEqual(resp.TopUsed[0].TotalDays, 5) {
		t.Errorf("排行首位应为熔接机 5 天, 实际 %+v", resp.TopUsed[0])
	}
	if resp.TopUsed[1].EquipmentID != drill.ID || resp.TopUsed[1].TotalDays < 2 {
		t.Errorf("排行次位应为钻机 A 约 2 天, 实际 %+v", resp.TopUsed[1])
	}

	// 只有未结束的指派计入项目分布
	if len(resp.ProjectDistribution) != 1 || resp.ProjectDistribution[0].ProjectID != project.ID || resp.ProjectDistribution[0].Count != 1 {
		t.Errorf("项目分布不符: %+v", resp.ProjectDistribution)
	}

	if len(resp.MonthlyTrends) != analyticsTrendMonths {
		t.Fatalf("月度趋势应有 %d 条, 实际 %d", analyticsTrendMonths, len(resp.MonthlyTrends))
	}
	var sum int
	for _, mt := range resp.MonthlyTrends {
		sum += mt.Assignments
	}
	if sum != 2 {
		t.Errorf("趋势内指派总数应为 2, 实际 %d", sum)
	}
}

// 并发插入触发唯一索引冲突时映射为资源冲突而非内部错误
func TestEquipmentAssign_DuplicateKeyMapsToConflict(t *testing.T) {
	svc, repos := setupTestEquipmentService()
	ctx := context.Background()
	eq := seedEquipment(t, repos, "顶管机")

	crew := &model.Crew{Name: "白班班组", Status: "active"}
	if err := repos.crew.Create(ctx, crew); err != nil {
		t.Fatalf("创建班组失败: %v", err)
	}

	repos.equipment.createAssignmentErr = gorm.ErrDuplicatedKey
	_, err := svc.Assign(ctx, eq.ID, &dto.CreateAssignmentRequest{
		CrewID: &crew.ID,
		FromTs: time.Now().Format(time.RFC3339),
	})
	if !errors.Is(err, apperrors.ErrResourceConflict) {
		t.Fatalf("期望 ErrResourceConflict, 实际 %v", err)
	}
}
