package dto

// ── 车辆模块 DTO ──

// VehicleListRequest 车辆列表查询参数
type VehicleListRequest struct {
	PaginationRequest
	Type    string `form:"type"    binding:"omitempty,max=50"`
	Status  string `form:"status"  binding:"omitempty,oneof=available in_use maintenance broken"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// CreateVehicleRequest 创建车辆请求
type CreateVehicleRequest struct {
	PlateNumber string  `json:"plate_number" binding:"required,max=20"`
	Type        string  `json:"type"         binding:"required,max=50"`
	Brand       *string `json:"brand"        binding:"omitempty,max=100"`
	Model       *string `json:"model"        binding:"omitempty,max=100"`
	FuelType    *string `json:"fuel_type"    binding:"omitempty,max=30"`
	RentalCostPerDayEUR float64 `json:"rental_cost_per_day_eur" binding:"omitempty,min=0"`
	Owned       *bool   `json:"owned"`
}

// UpdateVehicleRequest 更新车辆请求
type UpdateVehicleRequest struct {
	Type        *string  `json:"type"         binding:"omitempty,max=50"`
	Brand       *string  `json:"brand"        binding:"omitempty,max=100"`
	Model       *string  `json:"model"        binding:"omitempty,max=100"`
	Status      *string  `json:"status"       binding:"omitempty,oneof=available in_use maintenance broken"`
	FuelType    *string  `json:"fuel_type"    binding:"omitempty,max=30"`
	RentalCostPerDayEUR *float64 `json:"rental_cost_per_day_eur" binding:"omitempty,min=0"`
	CurrentLocation *string `json:"current_location" binding:"omitempty,max=255"`
}
