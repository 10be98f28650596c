package model

import "time"

// 项目状态常量
const (
	ProjectStatusDraft          = "draft"
	ProjectStatusPlanning       = "planning"
	ProjectStatusActive         = "active"
	ProjectStatusWaitingInvoice = "waiting_invoice"
	ProjectStatusClosed         = "closed"
	ProjectStatusCancelled      = "cancelled"
)

// Project 施工项目
type Project struct {
	ID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Customer      *string    `gorm:"type:varchar(255)" json:"customer,omitempty"`
	City          *string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	Address       *string    `gorm:"type:text" json:"address,omitempty"`
	Contact24h    *string    `gorm:"column:contact_24h;type:varchar(100)" json:"contact_24h,omitempty"`
	StartDate     *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDatePlan   *time.Time `gorm:"type:date" json:"end_date_plan,omitempty"`
	Status        string     `gorm:"type:varchar(30);not null;default:'draft'" json:"status"`
	TotalLengthM  float64    `gorm:"type:numeric(12,2);not null;default:0" json:"total_length_m"`
	BaseRatePerM  float64    `gorm:"type:numeric(12,2);not null;default:0" json:"base_rate_per_m"`
	Budget        float64    `gorm:"type:numeric(14,2);not null;default:0" json:"budget"`
	PMUserID      *string    `gorm:"column:pm_user_id;type:uuid" json:"pm_user_id,omitempty"`
	LanguageDefault string   `gorm:"type:varchar(10);not null;default:'de'" json:"language_default"`

	PMUser *User `gorm:"foreignKey:PMUserID" json:"pm_user,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

// ProjectPlan 项目图纸/平面图
type ProjectPlan struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID   string  `gorm:"type:uuid;not null;index" json:"project_id"`
	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	PlanType    string  `gorm:"type:varchar(50);not null;default:'site_plan'" json:"plan_type"`
	FilePath    string  `gorm:"type:text;not null" json:"file_path"`
	FileURL     string  `gorm:"type:text;not null" json:"file_url"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	UploadedBy  *string `gorm:"type:uuid" json:"uploaded_by,omitempty"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ProjectPlan) TableName() string { return "project_plans" }
