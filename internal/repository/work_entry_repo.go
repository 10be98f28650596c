package repository

import (
	"context"

	"gorm.io/gorm"

	"cometa/backend/internal/model"
)

// WorkEntryRepository 施工日志数据访问接口
type WorkEntryRepository interface {
	Create(ctx context.Context, e *model.WorkEntry) error
	GetByID(ctx context.Context, id string) (*model.WorkEntry, error)
	Update(ctx context.Context, e *model.WorkEntry) error
	List(ctx context.Context, projectID, crewID string, offset, limit int) ([]model.WorkEntry, int64, error)
	SumMetersByProject(ctx context.Context, projectID string) (float64, error)
	SumLaborCostByProject(ctx context.Context, projectID string) (float64, error)
}

// workEntryRepo WorkEntryRepository 的 GORM 实现
type workEntryRepo struct {
	db *gorm.DB
}

// NewWorkEntryRepo 创建 WorkEntryRepository 实例
func NewWorkEntryRepo(db *gorm.DB) WorkEntryRepository {
	return &workEntryRepo{db: db}
}

func (r *workEntryRepo) Create(ctx context.Context, e *model.WorkEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *workEntryRepo) GetByID(ctx context.Context, id string) (*model.WorkEntry, error) {
	var e model.WorkEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *workEntryRepo) Update(ctx context.Context, e *model.WorkEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *workEntryRepo) List(ctx context.Context, projectID, crewID string, offset, limit int) ([]model.WorkEntry, int64, error) {
	var entries []model.WorkEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&model.WorkEntry{})
	if projectID != "" {
		db = db.Where("project_id = ?", projectID)
	}
	if crewID != "" {
		db = db.Where("crew_id = ?", crewID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *workEntryRepo) SumMetersByProject(ctx context.Context, projectID string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&model.WorkEntry{}).
		Where("project_id = ? AND approved", projectID).
		Select("COALESCE(SUM(meters_done_m), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *workEntryRepo) SumLaborCostByProject(ctx context.Context, projectID string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&model.WorkEntry{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(SUM(labor_cost_eur), 0)").
		Scan(&sum).Error
	return sum, err
}
