package dto

// ── 临建设施 / 住宿 / 施工日志 DTO ──

// CreateFacilityRequest 创建临建设施请求
type CreateFacilityRequest struct {
	Type         string  `json:"type"           binding:"required,max=50"`
	Supplier     *string `json:"supplier"       binding:"omitempty,max=255"`
	RentDailyEUR float64 `json:"rent_daily_eur" binding:"omitempty,min=0"`
	ServiceFreq  *string `json:"service_freq"   binding:"omitempty,max=50"`
	StartDate    *string `json:"start_date"     binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date"       binding:"omitempty,datetime=2006-01-02"`
}

// UpdateFacilityRequest 更新临建设施请求
type UpdateFacilityRequest struct {
	Supplier     *string  `json:"supplier"       binding:"omitempty,max=255"`
	RentDailyEUR *float64 `json:"rent_daily_eur" binding:"omitempty,min=0"`
	ServiceFreq  *string  `json:"service_freq"   binding:"omitempty,max=50"`
	Status       *string  `json:"status"         binding:"omitempty,oneof=planned active removed"`
	StartDate    *string  `json:"start_date"     binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string  `json:"end_date"       binding:"omitempty,datetime=2006-01-02"`
}

// CreateHousingRequest 创建住宿单元请求
type CreateHousingRequest struct {
	Address      string  `json:"address"        binding:"required"`
	RoomsTotal   int     `json:"rooms_total"    binding:"omitempty,min=0"`
	Beds         int     `json:"beds"           binding:"omitempty,min=0"`
	RentDailyEUR float64 `json:"rent_daily_eur" binding:"omitempty,min=0"`
	CheckInDate  *string `json:"check_in_date"  binding:"omitempty,datetime=2006-01-02"`
	CheckOutDate *string `json:"check_out_date" binding:"omitempty,datetime=2006-01-02"`
}

// CreateWorkEntryRequest 创建施工日志请求
type CreateWorkEntryRequest struct {
	CrewID       *string `json:"crew_id"        binding:"omitempty,uuid"`
	Date         string  `json:"date"           binding:"required,datetime=2006-01-02"`
	StageCode    *string `json:"stage_code"     binding:"omitempty,max=30"`
	MetersDoneM  float64 `json:"meters_done_m"  binding:"omitempty,min=0"`
	LaborCostEUR float64 `json:"labor_cost_eur" binding:"omitempty,min=0"`
	Notes        *string `json:"notes"`
}

// WorkEntryListRequest 施工日志查询参数
type WorkEntryListRequest struct {
	PaginationRequest
	CrewID string `form:"crew_id" binding:"omitempty,uuid"`
}
