package dto

// ── 仪表盘 DTO ──

// DashboardStatsResponse 仪表盘统计响应
type DashboardStatsResponse struct {
	ActiveProjects     int64   `json:"active_projects"`
	TotalProjects      int64   `json:"total_projects"`
	EquipmentInUse     int64   `json:"equipment_in_use"`
	EquipmentTotal     int64   `json:"equipment_total"`
	VehiclesInUse      int64   `json:"vehicles_in_use"`
	VehiclesTotal      int64   `json:"vehicles_total"`
	ActiveCrews        int64   `json:"active_crews"`
	LowStockMaterials  int64   `json:"low_stock_materials"`
	PendingOrders      int64   `json:"pending_orders"`
	UnreadNotifications int64  `json:"unread_notifications"`
	TotalBudget        float64 `json:"total_budget"`
	TotalCosts         float64 `json:"total_costs"`
}
