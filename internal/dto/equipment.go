package dto

// ── 设备模块 DTO ──

// EquipmentListRequest 设备列表查询参数
type EquipmentListRequest struct {
	PaginationRequest
	Type    string `form:"type"    binding:"omitempty,max=100"`
	Status  string `form:"status"  binding:"omitempty,oneof=available in_use maintenance broken"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// CreateEquipmentRequest 创建设备请求
type CreateEquipmentRequest struct {
	Name             string  `json:"name"                binding:"required,max=255"`
	Type             string  `json:"type"                binding:"required,max=100"`
	InventoryNo      *string `json:"inventory_no"        binding:"omitempty,max=100"`
	PurchasePriceEUR float64 `json:"purchase_price_eur"  binding:"omitempty,min=0"`
	RentalCostPerDayEUR float64 `json:"rental_cost_per_day_eur" binding:"omitempty,min=0"`
	CurrentLocation  *string `json:"current_location"    binding:"omitempty,max=255"`
	Owned            *bool   `json:"owned"`
}

// UpdateEquipmentRequest 更新设备请求
type UpdateEquipmentRequest struct {
	Name             *string  `json:"name"               binding:"omitempty,max=255"`
	Type             *string  `json:"type"               binding:"omitempty,max=100"`
	Status           *string  `json:"status"             binding:"omitempty,oneof=available in_use maintenance broken"`
	PurchasePriceEUR *float64 `json:"purchase_price_eur" binding:"omitempty,min=0"`
	RentalCostPerDayEUR *float64 `json:"rental_cost_per_day_eur" binding:"omitempty,min=0"`
	CurrentLocation  *string  `json:"current_location"   binding:"omitempty,max=255"`
	NextMaintenanceDate *string `json:"next_maintenance_date" binding:"omitempty,datetime=2006-01-02"`
}

// CreateAssignmentRequest 创建指派请求（设备与车辆共用）
type CreateAssignmentRequest struct {
	CrewID    *string `json:"crew_id"    binding:"omitempty,uuid"`
	ProjectID *string `json:"project_id" binding:"omitempty,uuid"`
	FromTs    string  `json:"from_ts"    binding:"required"`
	RentalCostPerDay float64 `json:"rental_cost_per_day" binding:"omitempty,min=0"`
	Notes     *string `json:"notes"`
}

// EndAssignmentRequest 结束指派请求
type EndAssignmentRequest struct {
	ToTs string `json:"to_ts" binding:"required"`
}

// CreateResourceDocumentRequest 创建设备/车辆证件请求
type CreateResourceDocumentRequest struct {
	DocumentType string  `json:"document_type" binding:"required,max=50"`
	Title        string  `json:"title"         binding:"required,max=255"`
	FilePath     *string `json:"file_path"`
	ExpiryDate   *string `json:"expiry_date"   binding:"omitempty,datetime=2006-01-02"`
}

// CreateMaintenanceRequest 创建维护计划请求
type CreateMaintenanceRequest struct {
	MaintenanceType string  `json:"maintenance_type" binding:"omitempty,oneof=scheduled repair inspection"`
	ScheduledDate   string  `json:"scheduled_date"   binding:"required,datetime=2006-01-02"`
	CostEUR         float64 `json:"cost_eur"         binding:"omitempty,min=0"`
	Description     *string `json:"description"`
}

// CompleteMaintenanceRequest 完成维护请求
type CompleteMaintenanceRequest struct {
	CompletedDate string   `json:"completed_date" binding:"required,datetime=2006-01-02"`
	CostEUR       *float64 `json:"cost_eur"       binding:"omitempty,min=0"`
}

// ── 设备分析 ──

// EquipmentProjectCount 按项目统计的有效指派数
type EquipmentProjectCount struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name,omitempty"`
	Count       int    `json:"count"`
}

// EquipmentUsageItem 设备使用排行条目
type EquipmentUsageItem struct {
	EquipmentID     string  `json:"equipment_id"`
	Name            string  `json:"name"`
	AssignmentCount int     `json:"assignment_count"`
	TotalDays       float64 `json:"total_days"`
}

// MonthlyAssignmentCount 月度新增指派数
type MonthlyAssignmentCount struct {
	Month       string `json:"month"` // YYYY-MM
	Assignments int    `json:"assignments"`
}

// EquipmentAnalyticsResponse 设备分析响应
type EquipmentAnalyticsResponse struct {
	TotalCount          int                      `json:"total_count"`
	UtilizationRate     float64                  `json:"utilization_rate"` // in_use / total * 100
	StatusDistribution  map[string]int           `json:"status_distribution"`
	TypeDistribution    map[string]int           `json:"type_distribution"`
	RentalCostTotalPerDay float64                `json:"rental_cost_total_per_day"`
	RentalCostAvgPerDay float64                  `json:"rental_cost_avg_per_day"`
	ProjectDistribution []EquipmentProjectCount  `json:"project_distribution"`
	TopUsed             []EquipmentUsageItem     `json:"top_used"`
	MonthlyTrends       []MonthlyAssignmentCount `json:"monthly_trends"`
}
