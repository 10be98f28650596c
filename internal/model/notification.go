package model

import "time"

// 通知类型与优先级常量
const (
	NotificationTypeReminder = "reminder"
	NotificationTypeSystem   = "system"
	NotificationTypeProject  = "project"

	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
	NotificationPriorityUrgent = "urgent"
)

// 提醒类别常量，对应定时任务扫描的六类到期事件
const (
	ReminderProjectStart      = "project_start"
	ReminderProjectEnd        = "project_end"
	ReminderMaterialDelivery  = "material_delivery"
	ReminderVehicleDocuments  = "vehicle_documents"
	ReminderEquipmentDocuments = "equipment_documents"
	ReminderMaintenance       = "maintenance"
)

// Notification 站内通知
type Notification struct {
	ID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string     `gorm:"type:varchar(30);not null;default:'system'" json:"type"`
	Category  *string    `gorm:"type:varchar(50);index" json:"category,omitempty"`
	Priority  string     `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Data      JSONMap    `gorm:"type:jsonb" json:"data,omitempty"`
	ActionURL *string    `gorm:"type:text" json:"action_url,omitempty"`
	IsRead    bool       `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
