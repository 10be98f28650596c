package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"cometa/backend/internal/model"
)

// ProjectRepository 项目数据访问接口
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	List(ctx context.Context, status, keyword string, offset, limit int) ([]model.Project, int64, error)
	ListActive(ctx context.Context) ([]model.Project, error)
	// ListStartingOn / ListEndingOn 供提醒扫描：只返回设有 PM 的项目
	ListStartingOn(ctx context.Context, dates []time.Time) ([]model.Project, error)
	ListEndingOn(ctx context.Context, dates []time.Time) ([]model.Project, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	Count(ctx context.Context) (int64, error)
	SumBudgets(ctx context.Context) (float64, error)
	SoftDelete(ctx context.Context, id string) error

	CreatePlan(ctx context.Context, plan *model.ProjectPlan) error
	GetPlanByID(ctx context.Context, id string) (*model.ProjectPlan, error)
	ListPlans(ctx context.Context, projectID string) ([]model.ProjectPlan, error)
	DeletePlan(ctx context.Context, id string) error
}

// projectRepo ProjectRepository 的 GORM 实现
type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo 创建 ProjectRepository 实例
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("PMUser").
		Where("id = ? AND is_active", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepo) List(ctx context.Context, status, keyword string, offset, limit int) ([]model.Project, int64, error) {
	var projects []model.Project
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Project{}).Where("is_active")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("name ILIKE ? OR customer ILIKE ? OR city ILIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("PMUser").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepo) ListActive(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_active", model.ProjectStatusActive).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) ListStartingOn(ctx context.Context, dates []time.Time) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("start_date IN ? AND status IN ? AND pm_user_id IS NOT NULL AND is_active", dates,
			[]string{model.ProjectStatusDraft, model.ProjectStatusPlanning, model.ProjectStatusActive}).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) ListEndingOn(ctx context.Context, dates []time.Time) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("end_date_plan IN ? AND status = ? AND pm_user_id IS NOT NULL AND is_active", dates, model.ProjectStatusActive).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("status = ? AND is_active", status).
		Count(&count).Error
	return count, err
}

func (r *projectRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("is_active").
		Count(&count).Error
	return count, err
}

func (r *projectRepo) SumBudgets(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("is_active").
		Select("COALESCE(SUM(budget), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *projectRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// ── 项目图纸 ──

func (r *projectRepo) CreatePlan(ctx context.Context, plan *model.ProjectPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *projectRepo) GetPlanByID(ctx context.Context, id string) (*model.ProjectPlan, error) {
	var plan model.ProjectPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *projectRepo) ListPlans(ctx context.Context, projectID string) ([]model.ProjectPlan, error) {
	var plans []model.ProjectPlan
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *projectRepo) DeletePlan(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.ProjectPlan{}, "id = ?", id).Error
}
