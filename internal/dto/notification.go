package dto

// ── 通知模块 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	PaginationRequest
	UnreadOnly   bool   `form:"unread_only"`
	Type         string `form:"type"          binding:"omitempty,oneof=reminder system project"`
	Category     string `form:"category"      binding:"omitempty,max=50"`
	Priority     string `form:"priority"      binding:"omitempty,oneof=low normal high urgent"`
	CreatedAfter string `form:"created_after" binding:"omitempty"`
}

// CreateNotificationRequest 创建通知请求（管理端手动发送）
type CreateNotificationRequest struct {
	UserID   string                 `json:"user_id"  binding:"required,uuid"`
	Type     string                 `json:"type"     binding:"omitempty,oneof=reminder system project"`
	Category *string                `json:"category" binding:"omitempty,max=50"`
	Priority string                 `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Title     string                 `json:"title"      binding:"required,max=255"`
	Message   string                 `json:"message"    binding:"required"`
	ActionURL *string                `json:"action_url" binding:"omitempty,max=500"`
	Data      map[string]interface{} `json:"data"`
}

// NotificationSummary 列表附带的汇总计数
type NotificationSummary struct {
	Total        int64 `json:"total"`
	Unread       int64 `json:"unread"`
	UrgentUnread int64 `json:"urgent_unread"`
}

// UnreadCountResponse 未读数量响应
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// ── 提醒任务 DTO ──

// ReminderStatsResponse 提醒任务单类别执行统计
type ReminderStatsResponse struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ReminderRunResponse 提醒任务整体执行结果
type ReminderRunResponse struct {
	Stats           map[string]ReminderStatsResponse `json:"stats"`
	Errors          []string                         `json:"errors,omitempty"`
	ExecutionTimeMs int64                            `json:"execution_time_ms"`
	RanAt           string                           `json:"ran_at"`
}
