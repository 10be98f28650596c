package dto

// ── 财务模块 DTO ──

// FinancialSummaryRequest 财务汇总查询参数
type FinancialSummaryRequest struct {
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	Year      int    `form:"year"       binding:"omitempty,min=2000,max=2100"`
	Month     int    `form:"month"      binding:"omitempty,min=1,max=12"`
}

// CreateCostRequest 录入成本请求
type CreateCostRequest struct {
	ProjectID   string  `json:"project_id" binding:"required,uuid"`
	CostType    string  `json:"cost_type"  binding:"required,oneof=material equipment transport facility housing labor other"`
	AmountEUR   float64 `json:"amount_eur" binding:"required,gt=0"`
	Date        string  `json:"date"       binding:"required,datetime=2006-01-02"`
	Description *string `json:"description"`
	ReferenceID *string `json:"reference_id" binding:"omitempty,uuid"`
}

// CreateTransactionRequest 录入交易请求
type CreateTransactionRequest struct {
	ProjectID   *string `json:"project_id" binding:"omitempty,uuid"`
	Type        string  `json:"type"       binding:"required,oneof=income expense"`
	Category    *string `json:"category"   binding:"omitempty,max=50"`
	AmountEUR   float64 `json:"amount_eur" binding:"required,gt=0"`
	Date        string  `json:"date"       binding:"required,datetime=2006-01-02"`
	Description *string `json:"description"`
}

// FinancialSummaryResponse 财务汇总响应
type FinancialSummaryResponse struct {
	TotalCosts       float64                   `json:"total_costs"`
	TotalIncome      float64                   `json:"total_income"`
	TotalExpenses    float64                   `json:"total_expenses"`
	NetBalance       float64                   `json:"net_balance"`
	CostsByType      map[string]float64        `json:"costs_by_type"`
	MonthlyBreakdown []MonthlyBreakdownItem    `json:"monthly_breakdown"`
	ProjectSummaries []ProjectFinancialSummary `json:"project_summaries,omitempty"`
}

// MonthlyBreakdownItem 月度收支明细
type MonthlyBreakdownItem struct {
	Month    string  `json:"month"` // YYYY-MM
	Costs    float64 `json:"costs"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// ProjectFinancialSummary 单项目财务概要
type ProjectFinancialSummary struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Budget      float64 `json:"budget"`
	TotalCosts  float64 `json:"total_costs"`
	Remaining   float64 `json:"remaining"`
	UsedPercent float64 `json:"used_percent"`
}

// PreparationCostResponse 开工准备成本核算响应
type PreparationCostResponse struct {
	ProjectID     string  `json:"project_id"`
	FacilityCost  float64 `json:"facility_cost"`
	HousingCost   float64 `json:"housing_cost"`
	EquipmentCost float64 `json:"equipment_cost"`
	MaterialCost  float64 `json:"material_cost"`
	LaborCost     float64 `json:"labor_cost"`
	TotalCost     float64 `json:"total_cost"`
	Budget        float64 `json:"budget"`
	BudgetPercent float64 `json:"budget_percent"`
}
