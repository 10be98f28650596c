package model

import "time"

// 物料订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusOrdered   = "ordered"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Material 物料库存
type Material struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Unit         string  `gorm:"type:varchar(20);not null" json:"unit"`
	SKU          *string `gorm:"column:sku;type:varchar(100)" json:"sku,omitempty"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	DefaultPriceEUR float64 `gorm:"column:default_price_eur;type:numeric(12,2);not null;default:0" json:"default_price_eur"`
	CurrentStockQty float64 `gorm:"type:numeric(12,3);not null;default:0" json:"current_stock_qty"`
	ReservedQty  float64 `gorm:"type:numeric(12,3);not null;default:0" json:"reserved_qty"`
	MinStockLevel float64 `gorm:"type:numeric(12,3);not null;default:0" json:"min_stock_level"`
	SoftDeleteModel
}

// TableName 指定表名
func (Material) TableName() string { return "materials" }

// AvailableQty 可用库存 = 当前库存 - 已预留
func (m *Material) AvailableQty() float64 { return m.CurrentStockQty - m.ReservedQty }

// MaterialOrder 物料采购订单，expected_delivery_date 由交付提醒扫描
type MaterialOrder struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MaterialID   string     `gorm:"type:uuid;not null;index" json:"material_id"`
	ProjectID    *string    `gorm:"type:uuid;index" json:"project_id,omitempty"`
	SupplierName *string    `gorm:"type:varchar(255)" json:"supplier_name,omitempty"`
	Quantity     float64    `gorm:"type:numeric(12,3);not null" json:"quantity"`
	UnitPriceEUR float64    `gorm:"column:unit_price_eur;type:numeric(12,2);not null;default:0" json:"unit_price_eur"`
	Status       string     `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	OrderDate    *time.Time `gorm:"type:date" json:"order_date,omitempty"`
	ExpectedDeliveryDate *time.Time `gorm:"type:date;index" json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time `gorm:"type:date" json:"actual_delivery_date,omitempty"`
	Notes        *string    `gorm:"type:text" json:"notes,omitempty"`

	Material *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	Project  *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BaseModel
}

// TableName 指定表名
func (MaterialOrder) TableName() string { return "material_orders" }

// TotalCostEUR 订单总价
func (o *MaterialOrder) TotalCostEUR() float64 { return o.Quantity * o.UnitPriceEUR }

// MaterialAllocation 物料向项目/班组的分配记录
type MaterialAllocation struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MaterialID  string     `gorm:"type:uuid;not null;index" json:"material_id"`
	ProjectID   *string    `gorm:"type:uuid;index" json:"project_id,omitempty"`
	CrewID      *string    `gorm:"type:uuid;index" json:"crew_id,omitempty"`
	AllocatedQty float64   `gorm:"type:numeric(12,3);not null" json:"allocated_qty"`
	UsedQty     float64    `gorm:"type:numeric(12,3);not null;default:0" json:"used_qty"`
	AllocationDate time.Time `gorm:"type:date;not null" json:"allocation_date"`
	ReturnDate  *time.Time `gorm:"type:date" json:"return_date,omitempty"`
	Status      string     `gorm:"type:varchar(30);not null;default:'allocated'" json:"status"`
	Notes       *string    `gorm:"type:text" json:"notes,omitempty"`

	Material *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	Project  *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BaseModel
}

// TableName 指定表名
func (MaterialAllocation) TableName() string { return "material_allocations" }
