package model

import "time"

// Document 通用文档（项目文档、房屋文档等）
type Document struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID    *string    `gorm:"type:uuid;index" json:"project_id,omitempty"`
	HouseID      *string    `gorm:"type:uuid;index" json:"house_id,omitempty"`
	Category     string     `gorm:"type:varchar(50);not null;default:'general'" json:"category"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	FileName     string     `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath     string     `gorm:"type:text;not null" json:"file_path"`
	FileURL      string     `gorm:"type:text;not null" json:"file_url"`
	MimeType     string     `gorm:"type:varchar(100);not null" json:"mime_type"`
	FileSize     int64      `gorm:"not null;default:0" json:"file_size"`
	ExpiryDate   *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`
	UploadedBy   *string    `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	Description  *string    `gorm:"type:text" json:"description,omitempty"`

	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Uploader *User    `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Document) TableName() string { return "documents" }
