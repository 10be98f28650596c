package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	apperrors "cometa/backend/pkg/errors"
)

func setupTestVehicleService() (VehicleService, *testRepos) {
	repos := newTestRepos()
	return NewVehicleService(repos.toRepository(), zap.NewNop()), repos
}

func TestVehicleCreate_PlateUnique(t *testing.T) {
	svc, _ := setupTestVehicleService()
	ctx := context.Background()

	v, err := svc.Create(ctx, &dto.CreateVehicleRequest{PlateNumber: "HH-CM 42", Type: "van"})
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}
	if v.Status != "available" {
		t.Errorf("新车辆状态应为 available, 实际 %s", v.Status)
	}

	if _, err := svc.Create(ctx, &dto.CreateVehicleRequest{PlateNumber: "HH-CM 42", Type: "truck"}); !errors.Is(err, ErrPlateExists) {
		t.Fatalf("期望 ErrPlateExists, 实际 %v", err)
	}

	// 删除后车牌可重新使用
	if err := svc.Delete(ctx, v.ID); err != nil {
		t.Fatalf("删除车辆失败: %v", err)
	}
	if _, err := svc.Create(ctx, &dto.CreateVehicleRequest{PlateNumber: "HH-CM 42", Type: "truck"}); err != nil {
		t.Fatalf("删除后重建失败: %v", err)
	}
}

func TestVehicleDelete_ActiveAssignmentGuard(t *testing.T) {
	svc, repos := setupTestVehicleService()
	ctx := context.Background()

	v, err := svc.Create(ctx, &dto.CreateVehicleRequest{PlateNumber: "M-CM 7", Type: "truck"})
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}
	project := &model.Project{Name: "纽伦堡管道", Status: model.ProjectStatusActive}
	if err := repos.project.Create(ctx, project); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	a, err := svc.Assign(ctx, v.ID, &dto.CreateAssignmentRequest{
		ProjectID: &project.ID,
		FromTs:    time.Now().Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("指派失败: %v", err)
	}

	if err := svc.Delete(ctx, v.ID); !errors.Is(err, apperrors.ErrActiveAssignment) {
		t.Fatalf("有效指派存在时删除应被拒绝, 实际 %v", err)
	}

	if err := svc.EndAssignment(ctx, a.ID, &dto.EndAssignmentRequest{
		ToTs: time.Now().Format(time.RFC3339),
	}); err != nil {
		t.Fatalf("结束指派失败: %v", err)
	}
	if err := svc.Delete(ctx, v.ID); err != nil {
		t.Fatalf("结束指派后删除应成功: %v", err)
	}
}
