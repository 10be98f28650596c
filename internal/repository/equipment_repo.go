package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cometa/backend/internal/model"
)

// EquipmentRepository 设备数据访问接口
type EquipmentRepository interface {
	Create(ctx context.Context, eq *model.Equipment) error
	GetByID(ctx context.Context, id string) (*model.Equipment, error)
	Update(ctx context.Context, eq *model.Equipment) error
	List(ctx context.Context, typ, status, keyword string, offset, limit int) ([]model.Equipment, int64, error)
	ListAll(ctx context.Context) ([]model.Equipment, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	Count(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id string) error

	// GetOpenAssignmentForUpdate 带行锁查询有效指派，须在事务内调用
	GetOpenAssignmentForUpdate(ctx context.Context, equipmentID string) (*model.EquipmentAssignment, error)
	HasOpenAssignment(ctx context.Context, equipmentID string) (bool, error)
	CreateAssignment(ctx context.Context, a *model.EquipmentAssignment) error
	GetAssignmentByID(ctx context.Context, id string) (*model.EquipmentAssignment, error)
	ListAssignments(ctx context.Context, equipmentID string, offset, limit int) ([]model.EquipmentAssignment, int64, error)
	ListAssignmentsByProject(ctx context.Context, projectID string) ([]model.EquipmentAssignment, error)
	// ListAssignmentsSince 返回 since 之后开始或仍然有效的指派，供设备分析聚合
	ListAssignmentsSince(ctx context.Context, since time.Time) ([]model.EquipmentAssignment, error)
	EndAssignment(ctx context.Context, id string, toTs time.Time) error

	CreateDocument(ctx context.Context, doc *model.EquipmentDocument) error
	ListDocuments(ctx context.Context, equipmentID string) ([]model.EquipmentDocument, error)
	ListDocumentsExpiringOn(ctx context.Context, dates []time.Time) ([]model.EquipmentDocument, error)
	SoftDeleteDocument(ctx context.Context, id string) error

	CreateMaintenance(ctx context.Context, m *model.EquipmentMaintenance) error
	GetMaintenanceByID(ctx context.Context, id string) (*model.EquipmentMaintenance, error)
	UpdateMaintenance(ctx context.Context, m *model.EquipmentMaintenance) error
	ListMaintenance(ctx context.Context, equipmentID string) ([]model.EquipmentMaintenance, error)
	ListMaintenanceScheduledOn(ctx context.Context, dates []time.Time) ([]model.EquipmentMaintenance, error)
}

// equipmentRepo EquipmentRepository 的 GORM 实现
type equipmentRepo struct {
	db *gorm.DB
}

// NewEquipmentRepo 创建 EquipmentRepository 实例
func NewEquipmentRepo(db *gorm.DB) EquipmentRepository {
	return &equipmentRepo{db: db}
}

func (r *equipmentRepo) Create(ctx context.Context, eq *model.Equipment) error {
	return r.db.WithContext(ctx).Create(eq).Error
}

func (r *equipmentRepo) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	var eq model.Equipment
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active", id).
		First(&eq).Error
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

func (r *equipmentRepo) Update(ctx context.Context, eq *model.Equipment) error {
	return r.db.WithContext(ctx).Save(eq).Error
}

func (r *equipmentRepo) List(ctx context.Context, typ, status, keyword string, offset, limit int) ([]model.Equipment, int64, error) {
	var items []model.Equipment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Equipment{}).Where("is_active")
	if typ != "" {
		db = db.Where("type = ?", typ)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("name ILIKE ? OR inventory_no ILIKE ?", like, like)
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

func (r *equipmentRepo) ListAll(ctx context.Context) ([]model.Equipment, error) {
	var items []model.Equipment
	err := r.db.WithContext(ctx).
		Where("is_active").
		Order("name").
		Find(&items).Error
	return items, err
}

func (r *equipmentRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Equipment{}).
		Where("status = ? AND is_active", status).
		Count(&count).Error
	return count, err
}

func (r *equipmentRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Equipment{}).
		Where("is_active").
		Count(&count).Error
	return count, err
}

func (r *equipmentRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Equipment{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// ── 指派 ──

func (r *equipmentRepo) GetOpenAssignmentForUpdate(ctx context.Context, equipmentID string) (*model.EquipmentAssignment, error) {
	var a model.EquipmentAssignment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("equipment_id = ? AND to_ts IS NULL", equipmentID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *equipmentRepo) HasOpenAssignment(ctx context.Context, equipmentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EquipmentAssignment{}).
		Where("equipment_id = ? AND to_ts IS NULL", equipmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *equipmentRepo) CreateAssignment(ctx context.Context, a *model.EquipmentAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *equipmentRepo) GetAssignmentByID(ctx context.Context, id string) (*model.EquipmentAssignment, error) {
	var a model.EquipmentAssignment
	err := r.db.WithContext(ctx).
		Preload("Crew").Preload("Project").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *equipmentRepo) ListAssignments(ctx context.Context, equipmentID string, offset, limit int) ([]model.EquipmentAssignment, int64, error) {
	var items []model.EquipmentAssignment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.EquipmentAssignment{}).
		Where("equipment_id = ?", equipmentID)
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

func (r *equipmentRepo) ListAssignmentsByProject(ctx context.Context, projectID string) ([]model.EquipmentAssignment, error) {
	var items []model.EquipmentAssignment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&items).Error
	return items, err
}

func (r *equipmentRepo) ListAssignmentsSince(ctx context.Context, since time.Time) ([]model.EquipmentAssignment, error) {
	var items []model.EquipmentAssignment
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("from_ts >= ? OR to_ts IS NULL", since).
		Order("from_ts").
		Find(&items).Error
	return items, err
}

func (r *equipmentRepo) EndAssignment(ctx context.Context, id string, toTs time.Time) error {
	return r.db.WithContext(ctx).Model(&model.EquipmentAssignment{}).
		Where("id = ? AND to_ts IS NULL", id).
		Update("to_ts", toTs).Error
}

// ── 证件 ──

func (r *equipmentRepo) CreateDocument(ctx context.Context, doc *model.EquipmentDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *equipmentRepo) ListDocuments(ctx context.Context, equipmentID string) ([]model.EquipmentDocument, error) {
	var docs []model.EquipmentDocument
	err := r.db.WithContext(ctx).
		Where("equipment_id = ? AND is_active", equipmentID).
		Order("expiry_date ASC NULLS LAST").
		Find(&docs).Error
	return docs, err
}

func (r *equipmentRepo) ListDocumentsExpiringOn(ctx context.Context, dates []time.Time) ([]model.EquipmentDocument, error) {
	var docs []model.EquipmentDocument
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("expiry_date IN ? AND is_active", dates).
		Find(&docs).Error
	return docs, err
}

func (r *equipmentRepo) SoftDeleteDocument(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.EquipmentDocument{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// ── 维护 ──

func (r *equipmentRepo) CreateMaintenance(ctx context.Context, m *model.EquipmentMaintenance) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *equipmentRepo) GetMaintenanceByID(ctx context.Context, id string) (*model.EquipmentMaintenance, error) {
	var m model.EquipmentMaintenance
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *equipmentRepo) UpdateMaintenance(ctx context.Context, m *model.EquipmentMaintenance) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *equipmentRepo) ListMaintenance(ctx context.Context, equipmentID string) ([]model.EquipmentMaintenance, error) {
	var items []model.EquipmentMaintenance
	err := r.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("scheduled_date DESC").
		Find(&items).Error
	return items, err
}

func (r *equipmentRepo) ListMaintenanceScheduledOn(ctx context.Context, dates []time.Time) ([]model.EquipmentMaintenance, error) {
	var items []model.EquipmentMaintenance
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("scheduled_date IN ? AND status = ?", dates, "scheduled").
		Find(&items).Error
	return items, err
}
