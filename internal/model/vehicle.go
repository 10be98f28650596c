package model

import "time"

// Vehicle 车辆
type Vehicle struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PlateNumber  string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"plate_number"`
	Type         string  `gorm:"type:varchar(50);not null" json:"type"`
	Brand        *string `gorm:"type:varchar(100)" json:"brand,omitempty"`
	Model        *string `gorm:"type:varchar(100)" json:"model,omitempty"`
	Status       string  `gorm:"type:varchar(30);not null;default:'available'" json:"status"`
	RentalCostPerDayEUR float64 `gorm:"column:rental_cost_per_day_eur;type:numeric(12,2);not null;default:0" json:"rental_cost_per_day_eur"`
	FuelType     *string `gorm:"type:varchar(30)" json:"fuel_type,omitempty"`
	Owned        bool    `gorm:"not null;default:true" json:"owned"`
	CurrentLocation *string `gorm:"type:varchar(255)" json:"current_location,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Vehicle) TableName() string { return "vehicles" }

// VehicleAssignment 车辆指派记录，约束与设备指派相同
type VehicleAssignment struct {
	ID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	VehicleID string     `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	CrewID    *string    `gorm:"type:uuid;index" json:"crew_id,omitempty"`
	ProjectID *string    `gorm:"type:uuid;index" json:"project_id,omitempty"`
	FromTs    time.Time  `gorm:"column:from_ts;not null" json:"from_ts"`
	ToTs      *time.Time `gorm:"column:to_ts" json:"to_ts,omitempty"`
	RentalCostPerDay float64 `gorm:"type:numeric(12,2);not null;default:0" json:"rental_cost_per_day"`
	Notes     *string    `gorm:"type:text" json:"notes,omitempty"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Crew    *Crew    `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BaseModel
}

// TableName 指定表名
func (VehicleAssignment) TableName() string { return "vehicle_assignments" }

// IsOpen 指派是否仍然有效
func (a *VehicleAssignment) IsOpen() bool { return a.ToTs == nil }

// VehicleDocument 车辆证件（行驶证、保险、TÜV 等）
type VehicleDocument struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	VehicleID    string     `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	DocumentType string     `gorm:"type:varchar(50);not null" json:"document_type"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	FilePath     *string    `gorm:"type:text" json:"file_path,omitempty"`
	ExpiryDate   *time.Time `gorm:"type:date;index" json:"expiry_date,omitempty"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (VehicleDocument) TableName() string { return "vehicle_documents" }
