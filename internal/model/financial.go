package model

import "time"

// 成本类型常量
const (
	CostTypeMaterial  = "material"
	CostTypeEquipment = "equipment"
	CostTypeTransport = "transport"
	CostTypeFacility  = "facility"
	CostTypeHousing   = "housing"
	CostTypeLabor     = "labor"
	CostTypeOther     = "other"
)

// 交易类型常量
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Cost 项目成本记录
type Cost struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID   string    `gorm:"type:uuid;not null;index" json:"project_id"`
	CostType    string    `gorm:"type:varchar(30);not null;index" json:"cost_type"`
	AmountEUR   float64   `gorm:"column:amount_eur;type:numeric(14,2);not null" json:"amount_eur"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	ReferenceID *string   `gorm:"type:uuid" json:"reference_id,omitempty"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Cost) TableName() string { return "costs" }

// Transaction 资金流水
type Transaction struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID   *string   `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Type        string    `gorm:"type:varchar(20);not null;index" json:"type"`
	Category    *string   `gorm:"type:varchar(50)" json:"category,omitempty"`
	AmountEUR   float64   `gorm:"column:amount_eur;type:numeric(14,2);not null" json:"amount_eur"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Transaction) TableName() string { return "transactions" }
