package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"cometa/backend/internal/model"
)

// MaterialRepository 物料数据访问接口
type MaterialRepository interface {
	Create(ctx context.Context, m *model.Material) error
	GetByID(ctx context.Context, id string) (*model.Material, error)
	Update(ctx context.Context, m *model.Material) error
	List(ctx context.Context, keyword string, lowStock bool, offset, limit int) ([]model.Material, int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	// AdjustStock 原子调整库存量，扣减不得导致负库存
	AdjustStock(ctx context.Context, id string, delta float64) error
	SoftDelete(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, o *model.MaterialOrder) error
	GetOrderByID(ctx context.Context, id string) (*model.MaterialOrder, error)
	UpdateOrder(ctx context.Context, o *model.MaterialOrder) error
	ListOrders(ctx context.Context, status, projectID string, offset, limit int) ([]model.MaterialOrder, int64, error)
	CountOrdersByStatus(ctx context.Context, status string) (int64, error)
	ListOrdersDeliveringOn(ctx context.Context, dates []time.Time) ([]model.MaterialOrder, error)

	CreateAllocation(ctx context.Context, a *model.MaterialAllocation) error
	GetAllocationByID(ctx context.Context, id string) (*model.MaterialAllocation, error)
	UpdateAllocation(ctx context.Context, a *model.MaterialAllocation) error
	ListAllocations(ctx context.Context, materialID, projectID string, offset, limit int) ([]model.MaterialAllocation, int64, error)
	SumAllocationCostByProject(ctx context.Context, projectID string) (float64, error)
}

// materialRepo MaterialRepository 的 GORM 实现
type materialRepo struct {
	db *gorm.DB
}

// NewMaterialRepo 创建 MaterialRepository 实例
func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db: db}
}

func (r *materialRepo) Create(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materialRepo) GetByID(ctx context.Context, id string) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) Update(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *materialRepo) List(ctx context.Context, keyword string, lowStock bool, offset, limit int) ([]model.Material, int64, error) {
	var items []model.Material
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Material{}).Where("is_active")
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}
	if lowStock {
		db = db.Where("current_stock_qty - reserved_qty <= min_stock_level")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *materialRepo) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Material{}).
		Where("is_active AND current_stock_qty - reserved_qty <= min_stock_level").
		Count(&count).Error
	return count, err
}

func (r *materialRepo) AdjustStock(ctx context.Context, id string, delta float64) error {
	res := r.db.WithContext(ctx).Model(&model.Material{}).
		Where("id = ? AND is_active AND current_stock_qty + ? >= 0", id, delta).
		Update("current_stock_qty", gorm.Expr("current_stock_qty + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *materialRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Material{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// ── 采购订单 ──

func (r *materialRepo) CreateOrder(ctx context.Context, o *model.MaterialOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *materialRepo) GetOrderByID(ctx context.Context, id string) (*model.MaterialOrder, error) {
	var o model.MaterialOrder
	err := r.db.WithContext(ctx).
		Preload("Material").Preload("Project").
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *materialRepo) UpdateOrder(ctx context.Context, o *model.MaterialOrder) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *materialRepo) ListOrders(ctx context.Context, status, projectID string, offset, limit int) ([]model.MaterialOrder, int64, error) {
	var items []model.MaterialOrder
	var total int64

	db := r.db.WithContext(ctx).Model(&model.MaterialOrder{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if projectID != "" {
		db = db.Where("project_id = ?", projectID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Material").Preload("Project").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *materialRepo) CountOrdersByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.MaterialOrder{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *materialRepo) ListOrdersDeliveringOn(ctx context.Context, dates []time.Time) ([]model.MaterialOrder, error) {
	var items []model.MaterialOrder
	err := r.db.WithContext(ctx).
		Preload("Material").Preload("Project").
		Where("expected_delivery_date IN ? AND status IN ?", dates,
			[]string{model.OrderStatusPending, model.OrderStatusOrdered}).
		Find(&items).Error
	return items, err
}

// ── 物料分配 ──

func (r *materialRepo) CreateAllocation(ctx context.Context, a *model.MaterialAllocation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *materialRepo) GetAllocationByID(ctx context.Context, id string) (*model.MaterialAllocation, error) {
	var a model.MaterialAllocation
	err := r.db.WithContext(ctx).
		Preload("Material").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *materialRepo) UpdateAllocation(ctx context.Context, a *model.MaterialAllocation) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *materialRepo) ListAllocations(ctx context.Context, materialID, projectID string, offset, limit int) ([]model.MaterialAllocation, int64, error) {
	var items []model.MaterialAllocation
	var total int64

	db := r.db.WithContext(ctx).Model(&model.MaterialAllocation{})
	if materialID != "" {
		db = db.Where("material_id = ?", materialID)
	}
	if projectID != "" {
		db = db.Where("project_id = ?", projectID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Material").
		Offset(offset).Limit(limit).
		Order("allocation_date DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *materialRepo) SumAllocationCostByProject(ctx context.Context, projectID string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&model.MaterialAllocation{}).
		Select("COALESCE(SUM(material_allocations.allocated_qty * materials.default_price_eur), 0)").
		Joins("JOIN materials ON materials.id = material_allocations.material_id").
		Where("material_allocations.project_id = ?", projectID).
		Scan(&sum).Error
	return sum, err
}
