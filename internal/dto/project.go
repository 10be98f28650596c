package dto

// ── 项目模块 DTO ──

// ProjectListRequest 项目列表查询参数
type ProjectListRequest struct {
	PaginationRequest
	Status  string `form:"status"  binding:"omitempty,oneof=draft planning active waiting_invoice closed cancelled"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name         string  `json:"name"           binding:"required,max=255"`
	Customer     *string `json:"customer"       binding:"omitempty,max=255"`
	City         *string `json:"city"           binding:"omitempty,max=100"`
	Address      *string `json:"address"`
	Contact24h   *string `json:"contact_24h"    binding:"omitempty,max=100"`
	StartDate    *string `json:"start_date"     binding:"omitempty,datetime=2006-01-02"`
	EndDatePlan  *string `json:"end_date_plan"  binding:"omitempty,datetime=2006-01-02"`
	TotalLengthM float64 `json:"total_length_m" binding:"omitempty,min=0"`
	BaseRatePerM float64 `json:"base_rate_per_m" binding:"omitempty,min=0"`
	Budget       float64 `json:"budget"         binding:"omitempty,min=0"`
	PMUserID     *string `json:"pm_user_id"     binding:"omitempty,uuid"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name         *string  `json:"name"           binding:"omitempty,max=255"`
	Customer     *string  `json:"customer"       binding:"omitempty,max=255"`
	City         *string  `json:"city"           binding:"omitempty,max=100"`
	Address      *string  `json:"address"`
	Contact24h   *string  `json:"contact_24h"    binding:"omitempty,max=100"`
	StartDate    *string  `json:"start_date"     binding:"omitempty,datetime=2006-01-02"`
	EndDatePlan  *string  `json:"end_date_plan"  binding:"omitempty,datetime=2006-01-02"`
	Status       *string  `json:"status"         binding:"omitempty,oneof=draft planning active waiting_invoice closed cancelled"`
	TotalLengthM *float64 `json:"total_length_m" binding:"omitempty,min=0"`
	BaseRatePerM *float64 `json:"base_rate_per_m" binding:"omitempty,min=0"`
	Budget       *float64 `json:"budget"         binding:"omitempty,min=0"`
	PMUserID     *string  `json:"pm_user_id"     binding:"omitempty,uuid"`
}

// ProjectProgressResponse 项目进度响应
type ProjectProgressResponse struct {
	ProjectID       string  `json:"project_id"`
	TotalLengthM    float64 `json:"total_length_m"`
	CompletedM      float64 `json:"completed_m"`
	ProgressPercent float64 `json:"progress_percent"`
}

// CreateProjectPlanRequest 上传项目图纸元数据请求
type CreateProjectPlanRequest struct {
	Title       string  `json:"title"       binding:"required,max=255"`
	PlanType    string  `json:"plan_type"   binding:"omitempty,oneof=site_plan cable_route technical other"`
	FilePath    string  `json:"file_path"   binding:"required"`
	FileURL     string  `json:"file_url"    binding:"required"`
	Description *string `json:"description"`
}

// ProjectDocumentItem 项目文件合并视图条目（普通文档与图纸统一呈现）
type ProjectDocumentItem struct {
	ID        string `json:"id"`
	Source    string `json:"source"` // document | plan
	Category  string `json:"category"`
	Title     string `json:"title"`
	FileName  string `json:"file_name,omitempty"`
	FileURL   string `json:"file_url"`
	CreatedAt string `json:"created_at"`
}

// ── 项目资源视图 ──

// ProjectEquipmentItem 项目下的设备指派条目
type ProjectEquipmentItem struct {
	AssignmentID  string  `json:"assignment_id"`
	EquipmentID   string  `json:"equipment_id"`
	EquipmentName string  `json:"equipment_name,omitempty"`
	FromTs        string  `json:"from_ts"`
	ToTs          *string `json:"to_ts,omitempty"`
	RentalCostPerDay float64 `json:"rental_cost_per_day"`
}

// ProjectVehicleItem 项目下的车辆指派条目
type ProjectVehicleItem struct {
	AssignmentID string  `json:"assignment_id"`
	VehicleID    string  `json:"vehicle_id"`
	PlateNumber  string  `json:"plate_number,omitempty"`
	FromTs       string  `json:"from_ts"`
	ToTs         *string `json:"to_ts,omitempty"`
}

// ProjectMaterialItem 项目下的物料分配条目
type ProjectMaterialItem struct {
	AllocationID string  `json:"allocation_id"`
	MaterialID   string  `json:"material_id"`
	MaterialName string  `json:"material_name,omitempty"`
	AllocatedQty float64 `json:"allocated_qty"`
	UsedQty      float64 `json:"used_qty"`
	Status       string  `json:"status"`
}

// ProjectResourcesResponse 项目资源总览响应
type ProjectResourcesResponse struct {
	ProjectID string                 `json:"project_id"`
	Equipment []ProjectEquipmentItem `json:"equipment"`
	Vehicles  []ProjectVehicleItem   `json:"vehicles"`
	Materials []ProjectMaterialItem  `json:"materials"`
}

// AssignResourceRequest 按类型向项目指派资源请求
// type 决定其余字段的含义：equipment/vehicle 走指派，material 走分配
type AssignResourceRequest struct {
	Type         string  `json:"type"          binding:"required,oneof=equipment vehicle material"`
	ResourceID   string  `json:"resource_id"   binding:"required,uuid"`
	CrewID       *string `json:"crew_id"       binding:"omitempty,uuid"`
	FromTs       string  `json:"from_ts"       binding:"omitempty"`
	RentalCostPerDay float64 `json:"rental_cost_per_day" binding:"omitempty,min=0"`
	AllocatedQty float64 `json:"allocated_qty" binding:"omitempty,gt=0"`
	Date         string  `json:"date"          binding:"omitempty,datetime=2006-01-02"`
	Notes        *string `json:"notes"`
}
