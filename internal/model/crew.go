package model

import "time"

// Crew 施工班组
type Crew struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	ProjectID   *string `gorm:"type:uuid;index" json:"project_id,omitempty"`
	ForemanUserID *string `gorm:"type:uuid" json:"foreman_user_id,omitempty"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Status      string  `gorm:"type:varchar(30);not null;default:'active'" json:"status"`

	Project *Project     `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Foreman *User        `gorm:"foreignKey:ForemanUserID" json:"foreman,omitempty"`
	Members []CrewMember `gorm:"foreignKey:CrewID" json:"members,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Crew) TableName() string { return "crews" }

// CrewMember 班组成员，active_to 为空表示在组
type CrewMember struct {
	ID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CrewID     string     `gorm:"type:uuid;not null;index" json:"crew_id"`
	UserID     string     `gorm:"type:uuid;not null;index" json:"user_id"`
	RoleInCrew string     `gorm:"type:varchar(30);not null;default:'worker'" json:"role_in_crew"`
	ActiveFrom time.Time  `gorm:"type:date;not null" json:"active_from"`
	ActiveTo   *time.Time `gorm:"type:date" json:"active_to,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BaseModel
}

// TableName 指定表名
func (CrewMember) TableName() string { return "crew_members" }
