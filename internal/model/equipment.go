package model

import "time"

// 设备状态常量
const (
	EquipmentStatusAvailable   = "available"
	EquipmentStatusInUse       = "in_use"
	EquipmentStatusMaintenance = "maintenance"
	EquipmentStatusBroken      = "broken"
)

// Equipment 施工设备
type Equipment struct {
	ID              string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Type            string     `gorm:"type:varchar(100);not null" json:"type"`
	InventoryNo     *string    `gorm:"type:varchar(100);uniqueIndex" json:"inventory_no,omitempty"`
	Status          string     `gorm:"type:varchar(30);not null;default:'available'" json:"status"`
	PurchasePriceEUR float64   `gorm:"column:purchase_price_eur;type:numeric(12,2);not null;default:0" json:"purchase_price_eur"`
	RentalCostPerDayEUR float64 `gorm:"column:rental_cost_per_day_eur;type:numeric(12,2);not null;default:0" json:"rental_cost_per_day_eur"`
	CurrentLocation *string    `gorm:"type:varchar(255)" json:"current_location,omitempty"`
	Owned           bool       `gorm:"not null;default:true" json:"owned"`
	NextMaintenanceDate *time.Time `gorm:"type:date" json:"next_maintenance_date,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Equipment) TableName() string { return "equipment" }

// EquipmentAssignment 设备指派记录，to_ts 为空表示指派仍然有效
// 同一设备同一时刻至多存在一条有效指派
type EquipmentAssignment struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EquipmentID string     `gorm:"type:uuid;not null;index" json:"equipment_id"`
	CrewID      *string    `gorm:"type:uuid;index" json:"crew_id,omitempty"`
	ProjectID   *string    `gorm:"type:uuid;index" json:"project_id,omitempty"`
	FromTs      time.Time  `gorm:"column:from_ts;not null" json:"from_ts"`
	ToTs        *time.Time `gorm:"column:to_ts" json:"to_ts,omitempty"`
	RentalCostPerDay float64 `gorm:"type:numeric(12,2);not null;default:0" json:"rental_cost_per_day"`
	Notes       *string    `gorm:"type:text" json:"notes,omitempty"`

	Equipment *Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	Crew      *Crew      `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	Project   *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BaseModel
}

// TableName 指定表名
func (EquipmentAssignment) TableName() string { return "equipment_assignments" }

// IsOpen 指派是否仍然有效
func (a *EquipmentAssignment) IsOpen() bool { return a.ToTs == nil }

// EquipmentDocument 设备证件（TÜV、保险等），到期前由提醒任务扫描
type EquipmentDocument struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EquipmentID  string     `gorm:"type:uuid;not null;index" json:"equipment_id"`
	DocumentType string     `gorm:"type:varchar(50);not null" json:"document_type"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	FilePath     *string    `gorm:"type:text" json:"file_path,omitempty"`
	ExpiryDate   *time.Time `gorm:"type:date;index" json:"expiry_date,omitempty"`

	Equipment *Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (EquipmentDocument) TableName() string { return "equipment_documents" }

// EquipmentMaintenance 设备维护计划
type EquipmentMaintenance struct {
	ID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EquipmentID   string     `gorm:"type:uuid;not null;index" json:"equipment_id"`
	MaintenanceType string   `gorm:"type:varchar(50);not null;default:'scheduled'" json:"maintenance_type"`
	ScheduledDate time.Time  `gorm:"type:date;not null;index" json:"scheduled_date"`
	CompletedDate *time.Time `gorm:"type:date" json:"completed_date,omitempty"`
	Status        string     `gorm:"type:varchar(30);not null;default:'scheduled'" json:"status"`
	CostEUR       float64    `gorm:"column:cost_eur;type:numeric(12,2);not null;default:0" json:"cost_eur"`
	Description   *string    `gorm:"type:text" json:"description,omitempty"`

	Equipment *Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	BaseModel
}

// TableName 指定表名
func (EquipmentMaintenance) TableName() string { return "equipment_maintenance" }
