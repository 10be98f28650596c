package handler

import (
	"github.com/gin-gonic/gin"

	"cometa/backend/internal/service"
	"cometa/backend/pkg/response"
)

// CronHandler 定时任务触发端点，由外部调度器或内置 scheduler 调用。
// 鉴权走 CronAuth 中间件（共享密钥），不走用户 JWT
type CronHandler struct {
	reminderSvc service.ReminderService
}

// NewCronHandler 创建 CronHandler
func NewCronHandler(reminderSvc service.ReminderService) *CronHandler {
	return &CronHandler{reminderSvc: reminderSvc}
}

// RunNotifications 执行提醒生成任务。
// 单类别失败不中断整体，错误汇总在响应 errors 字段
// POST /api/v1/cron/notifications
func (h *CronHandler) RunNotifications(c *gin.Context) {
	result := h.reminderSvc.Run(c.Request.Context())
	response.OK(c, result)
}
