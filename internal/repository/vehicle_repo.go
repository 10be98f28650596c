package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cometa/backend/internal/model"
)

// VehicleRepository 车辆数据访问接口
type VehicleRepository interface {
	Create(ctx context.Context, v *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	Update(ctx context.Context, v *model.Vehicle) error
	List(ctx context.Context, typ, status, keyword string, offset, limit int) ([]model.Vehicle, int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	Count(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id string) error

	// GetOpenAssignmentForUpdate 带行锁查询有效指派，须在事务内调用
	GetOpenAssignmentForUpdate(ctx context.Context, vehicleID string) (*model.VehicleAssignment, error)
	HasOpenAssignment(ctx context.Context, vehicleID string) (bool, error)
	CreateAssignment(ctx context.Context, a *model.VehicleAssignment) error
	GetAssignmentByID(ctx context.Context, id string) (*model.VehicleAssignment, error)
	ListAssignments(ctx context.Context, vehicleID string, offset, limit int) ([]model.VehicleAssignment, int64, error)
	ListAssignmentsByProject(ctx context.Context, projectID string) ([]model.VehicleAssignment, error)
	EndAssignment(ctx context.Context, id string, toTs time.Time) error

	CreateDocument(ctx context.Context, doc *model.VehicleDocument) error
	ListDocuments(ctx context.Context, vehicleID string) ([]model.VehicleDocument, error)
	ListDocumentsExpiringOn(ctx context.Context, dates []time.Time) ([]model.VehicleDocument, error)
	SoftDeleteDocument(ctx context.Context, id string) error
}

// vehicleRepo VehicleRepository 的 GORM 实现
type vehicleRepo struct {
	db *gorm.DB
}

// NewVehicleRepo 创建 VehicleRepository 实例
func NewVehicleRepo(db *gorm.DB) VehicleRepository {
	return &vehicleRepo{db: db}
}

func (r *vehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vehicleRepo) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepo) GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).
		Where("plate_number = ? AND is_active", plate).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vehicleRepo) List(ctx context.Context, typ, status, keyword string, offset, limit int) ([]model.Vehicle, int64, error) {
	var items []model.Vehicle
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Vehicle{}).Where("is_active")
	if typ != "" {
		db = db.Where("type = ?", typ)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("plate_number ILIKE ? OR brand ILIKE ? OR model ILIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *vehicleRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Where("status = ? AND is_active", status).
		Count(&count).Error
	return count, err
}

func (r *vehicleRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Where("is_active").
		Count(&count).Error
	return count, err
}

func (r *vehicleRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// ── 指派 ──

func (r *vehicleRepo) GetOpenAssignmentForUpdate(ctx context.Context, vehicleID string) (*model.VehicleAssignment, error) {
	var a model.VehicleAssignment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("vehicle_id = ? AND to_ts IS NULL", vehicleID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *vehicleRepo) HasOpenAssignment(ctx context.Context, vehicleID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VehicleAssignment{}).
		Where("vehicle_id = ? AND to_ts IS NULL", vehicleID).
		Count(&count).Error
	return count > 0, err
}

func (r *vehicleRepo) CreateAssignment(ctx context.Context, a *model.VehicleAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *vehicleRepo) GetAssignmentByID(ctx context.Context, id string) (*model.VehicleAssignment, error) {
	var a model.VehicleAssignment
	err := r.db.WithContext(ctx).
		Preload("Crew").Preload("Project").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *vehicleRepo) ListAssignments(ctx context.Context, vehicleID string, offset, limit int) ([]model.VehicleAssignment, int64, error) {
	var items []model.VehicleAssignment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.VehicleAssignment{}).
		Where("vehicle_id = ?", vehicleID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Crew").Preload("Project").
		Offset(offset).Limit(limit).
		Order("from_ts DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *vehicleRepo) ListAssignmentsByProject(ctx context.Context, projectID string) ([]model.VehicleAssignment, error) {
	var items []model.VehicleAssignment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&items).Error
	return items, err
}

func (r *vehicleRepo) EndAssignment(ctx context.Context, id string, toTs time.Time) error {
	return r.db.WithContext(ctx).Model(&model.VehicleAssignment{}).
		Where("id = ? AND to_ts IS NULL", id).
		Update("to_ts", toTs).Error
}

// ── 证件 ──

func (r *vehicleRepo) CreateDocument(ctx context.Context, doc *model.VehicleDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *vehicleRepo) ListDocuments(ctx context.Context, vehicleID string) ([]model.VehicleDocument, error) {
	var docs []model.VehicleDocument
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND is_active", vehicleID).
		Order("expiry_date ASC NULLS LAST").
		Find(&docs).Error
	return docs, err
}

func (r *vehicleRepo) ListDocumentsExpiringOn(ctx context.Context, dates []time.Time) ([]model.VehicleDocument, error) {
	var docs []model.VehicleDocument
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("expiry_date IN ? AND is_active", dates).
		Find(&docs).Error
	return docs, err
}

func (r *vehicleRepo) SoftDeleteDocument(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.VehicleDocument{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
