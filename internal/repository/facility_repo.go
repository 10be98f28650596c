package repository

import (
	"context"

	"gorm.io/gorm"

	"cometa/backend/internal/model"
)

// FacilityRepository 临建设施与住宿数据访问接口
type FacilityRepository interface {
	CreateFacility(ctx context.Context, f *model.Facility) error
	GetFacilityByID(ctx context.Context, id string) (*model.Facility, error)
	UpdateFacility(ctx context.Context, f *model.Facility) error
	ListFacilities(ctx context.Context, projectID string) ([]model.Facility, error)
	DeleteFacility(ctx context.Context, id string) error

	CreateHousing(ctx context.Context, h *model.HousingUnit) error
	GetHousingByID(ctx context.Context, id string) (*model.HousingUnit, error)
	UpdateHousing(ctx context.Context, h *model.HousingUnit) error
	ListHousing(ctx context.Context, projectID string) ([]model.HousingUnit, error)
	DeleteHousing(ctx context.Context, id string) error
}

// facilityRepo FacilityRepository 的 GORM 实现
type facilityRepo struct {
	db *gorm.DB
}

// NewFacilityRepo 创建 FacilityRepository 实例
func NewFacilityRepo(db *gorm.DB) FacilityRepository {
	return &facilityRepo{db: db}
}

func (r *facilityRepo) CreateFacility(ctx context.Context, f *model.Facility) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *facilityRepo) GetFacilityByID(ctx context.Context, id string) (*model.Facility, error) {
	var f model.Facility
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *facilityRepo) UpdateFacility(ctx context.Context, f *model.Facility) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *facilityRepo) ListFacilities(ctx context.Context, projectID string) ([]model.Facility, error) {
	var items []model.Facility
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *facilityRepo) DeleteFacility(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Facility{}, "id = ?", id).Error
}

// ── 住宿 ──

func (r *facilityRepo) CreateHousing(ctx context.Context, h *model.HousingUnit) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *facilityRepo) GetHousingByID(ctx context.Context, id string) (*model.HousingUnit, error) {
	var h model.HousingUnit
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *facilityRepo) UpdateHousing(ctx context.Context, h *model.HousingUnit) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *facilityRepo) ListHousing(ctx context.Context, projectID string) ([]model.HousingUnit, error) {
	var items []model.HousingUnit
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *facilityRepo) DeleteHousing(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.HousingUnit{}, "id = ?", id).Error
}
