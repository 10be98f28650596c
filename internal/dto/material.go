package dto

// ── 物料模块 DTO ──

// MaterialListRequest 物料列表查询参数
type MaterialListRequest struct {
	PaginationRequest
	Keyword  string `form:"keyword"   binding:"omitempty,max=100"`
	LowStock bool   `form:"low_stock"`
}

// CreateMaterialRequest 创建物料请求
type CreateMaterialRequest struct {
	Name            string  `json:"name"              binding:"required,max=255"`
	Unit            string  `json:"unit"              binding:"required,max=20"`
	SKU             *string `json:"sku"               binding:"omitempty,max=100"`
	Description     *string `json:"description"`
	DefaultPriceEUR float64 `json:"default_price_eur" binding:"omitempty,min=0"`
	CurrentStockQty float64 `json:"current_stock_qty" binding:"omitempty,min=0"`
	MinStockLevel   float64 `json:"min_stock_level"   binding:"omitempty,min=0"`
}

// UpdateMaterialRequest 更新物料请求
type UpdateMaterialRequest struct {
	Name            *string  `json:"name"              binding:"omitempty,max=255"`
	Unit            *string  `json:"unit"              binding:"omitempty,max=20"`
	Description     *string  `json:"description"`
	DefaultPriceEUR *float64 `json:"default_price_eur" binding:"omitempty,min=0"`
	MinStockLevel   *float64 `json:"min_stock_level"   binding:"omitempty,min=0"`
}

// AdjustStockRequest 库存调整请求，delta 可为负
type AdjustStockRequest struct {
	Delta  float64 `json:"delta"  binding:"required"`
	Reason string  `json:"reason" binding:"omitempty,max=255"`
}

// CreateOrderRequest 创建采购订单请求
type CreateOrderRequest struct {
	MaterialID   string  `json:"material_id"    binding:"required,uuid"`
	ProjectID    *string `json:"project_id"     binding:"omitempty,uuid"`
	SupplierName *string `json:"supplier_name"  binding:"omitempty,max=255"`
	Quantity     float64 `json:"quantity"       binding:"required,gt=0"`
	UnitPriceEUR float64 `json:"unit_price_eur" binding:"omitempty,min=0"`
	OrderDate    *string `json:"order_date"     binding:"omitempty,datetime=2006-01-02"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date" binding:"omitempty,datetime=2006-01-02"`
	Notes        *string `json:"notes"`
}

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status             string  `json:"status"               binding:"required,oneof=pending ordered delivered cancelled"`
	ActualDeliveryDate *string `json:"actual_delivery_date" binding:"omitempty,datetime=2006-01-02"`
}

// OrderListRequest 订单列表查询参数
type OrderListRequest struct {
	PaginationRequest
	Status    string `form:"status"     binding:"omitempty,oneof=pending ordered delivered cancelled"`
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
}

// CreateAllocationRequest 创建物料分配请求
type CreateAllocationRequest struct {
	MaterialID     string  `json:"material_id"     binding:"required,uuid"`
	ProjectID      *string `json:"project_id"      binding:"omitempty,uuid"`
	CrewID         *string `json:"crew_id"         binding:"omitempty,uuid"`
	AllocatedQty   float64 `json:"allocated_qty"   binding:"required,gt=0"`
	AllocationDate string  `json:"allocation_date" binding:"required,datetime=2006-01-02"`
	Notes          *string `json:"notes"`
}

// RecordUsageRequest 记录物料用量请求
type RecordUsageRequest struct {
	UsedQty float64 `json:"used_qty" binding:"required,gt=0"`
}
