package model

import "time"

// WorkEntry 施工日志条目，记录完成米数与人工成本
type WorkEntry struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID    string    `gorm:"type:uuid;not null;index" json:"project_id"`
	CrewID       *string   `gorm:"type:uuid;index" json:"crew_id,omitempty"`
	UserID       *string   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Date         time.Time `gorm:"type:date;not null;index" json:"date"`
	StageCode    *string   `gorm:"type:varchar(30)" json:"stage_code,omitempty"`
	MetersDoneM  float64   `gorm:"column:meters_done_m;type:numeric(12,2);not null;default:0" json:"meters_done_m"`
	LaborCostEUR float64   `gorm:"column:labor_cost_eur;type:numeric(12,2);not null;default:0" json:"labor_cost_eur"`
	Notes        *string   `gorm:"type:text" json:"notes,omitempty"`
	Approved     bool      `gorm:"not null;default:false" json:"approved"`
	ApprovedBy   *string   `gorm:"type:uuid" json:"approved_by,omitempty"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Crew    *Crew    `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	BaseModel
}

// TableName 指定表名
func (WorkEntry) TableName() string { return "work_entries" }
