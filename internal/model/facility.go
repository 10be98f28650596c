package model

import "time"

// Facility 项目临建设施（围挡、厕所、办公集装箱等），按日计租
type Facility struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID    string     `gorm:"type:uuid;not null;index" json:"project_id"`
	Type         string     `gorm:"type:varchar(50);not null" json:"type"`
	Supplier     *string    `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	RentDailyEUR float64    `gorm:"column:rent_daily_eur;type:numeric(12,2);not null;default:0" json:"rent_daily_eur"`
	ServiceFreq  *string    `gorm:"type:varchar(50)" json:"service_freq,omitempty"`
	Status       string     `gorm:"type:varchar(30);not null;default:'planned'" json:"status"`
	StartDate    *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date,omitempty"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Facility) TableName() string { return "facilities" }

// RentalDays 租期天数，开放区间按 30 天计
func (f *Facility) RentalDays() int {
	if f.StartDate == nil {
		return 0
	}
	if f.EndDate == nil {
		return 30
	}
	d := int(f.EndDate.Sub(*f.StartDate).Hours()/24) + 1
	if d < 0 {
		return 0
	}
	return d
}

// HousingUnit 工人住宿单元
type HousingUnit struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID    string     `gorm:"type:uuid;not null;index" json:"project_id"`
	Address      string     `gorm:"type:text;not null" json:"address"`
	RoomsTotal   int        `gorm:"not null;default:0" json:"rooms_total"`
	Beds         int        `gorm:"not null;default:0" json:"beds"`
	RentDailyEUR float64    `gorm:"column:rent_daily_eur;type:numeric(12,2);not null;default:0" json:"rent_daily_eur"`
	Status       string     `gorm:"type:varchar(30);not null;default:'available'" json:"status"`
	CheckInDate  *time.Time `gorm:"type:date" json:"check_in_date,omitempty"`
	CheckOutDate *time.Time `gorm:"type:date" json:"check_out_date,omitempty"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BaseModel
}

// TableName 指定表名
func (HousingUnit) TableName() string { return "housing_units" }

// RentalDays 住宿天数，开放区间按 30 天计
func (h *HousingUnit) RentalDays() int {
	if h.CheckInDate == nil {
		return 0
	}
	if h.CheckOutDate == nil {
		return 30
	}
	d := int(h.CheckOutDate.Sub(*h.CheckInDate).Hours()/24) + 1
	if d < 0 {
		return 0
	}
	return d
}
