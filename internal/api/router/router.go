package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cometa/backend/config"
	"cometa/backend/internal/api/handler"
	"cometa/backend/internal/api/middleware"
	"cometa/backend/internal/model"
	"cometa/backend/pkg/jwt"
	"cometa/backend/pkg/redis"
)

const (
	// maxBodyBytes 请求体上限，需容纳一批上传文件
	maxBodyBytes = 64 << 20
	// 单 IP 每分钟请求上限
	rateLimitPerWindow = 300
	rateLimitWindow    = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.RateLimit(rdb, rateLimitPerWindow, rateLimitWindow))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 定时任务（共享密钥鉴权，供外部调度器与进程内 scheduler 调用）
		cron := v1.Group("/cron")
		cron.Use(middleware.CronAuth(cfg.Cron.Secret))
		{
			// GET 兼容仅支持 GET 的外部调度器
			cron.GET("/notifications", h.Cron.RunNotifications)
			cron.POST("/notifications", h.Cron.RunNotifications)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			adminOnly := middleware.RoleAuth(model.RoleAdmin)
			adminPM := middleware.RoleAuth(model.AdminRoles...)

			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", adminPM, h.User.List)
				users.GET("/:id", adminPM, h.User.Get)
				users.POST("", adminOnly, h.User.Create)
				users.PUT("/:id", adminOnly, h.User.Update)
				users.DELETE("/:id", adminOnly, h.User.Delete)
			}

			// 项目模块
			projects := authorized.Group("/projects")
			{
				projects.GET("", h.Project.List)
				projects.GET("/:id", h.Project.Get)
				projects.POST("", adminPM, h.Project.Create)
				projects.PUT("/:id", adminPM, h.Project.Update)
				projects.DELETE("/:id", adminOnly, h.Project.Delete)
				projects.GET("/:id/progress", h.Project.Progress)

				// 合并文件视图与资源总览
				projects.GET("/:id/documents", h.Project.Documents)
				projects.POST("/:id/documents", h.Project.CreateDocument)
				projects.GET("/:id/resources", h.Project.Resources)
				projects.POST("/:id/resources", adminPM, h.Project.AssignResource)

				// 图纸
				projects.GET("/:id/plans", h.Project.ListPlans)
				projects.POST("/:id/plans", adminPM, h.Project.CreatePlan)
				projects.DELETE("/plans/:planId", adminPM, h.Project.DeletePlan)

				// 临建设施
				projects.GET("/:id/facilities", h.Project.ListFacilities)
				projects.POST("/:id/facilities", adminPM, h.Project.CreateFacility)
				projects.PUT("/facilities/:facilityId", adminPM, h.Project.UpdateFacility)
				projects.DELETE("/facilities/:facilityId", adminPM, h.Project.DeleteFacility)

				// 住宿
				projects.GET("/:id/housing", h.Project.ListHousing)
				projects.POST("/:id/housing", adminPM, h.Project.CreateHousing)
				projects.DELETE("/housing/:housingId", adminPM, h.Project.DeleteHousing)

				// 施工日志
				projects.GET("/:id/work-entries", h.Project.ListWorkEntries)
				projects.POST("/:id/work-entries", h.Project.CreateWorkEntry)
				projects.POST("/work-entries/:entryId/approve", adminPM, h.Project.ApproveWorkEntry)
			}

			// 设备模块。analytics 是集合路由，须先于 /:id 注册
			equipment := authorized.Group("/equipment")
			{
				equipment.GET("/analytics", adminPM, h.Equipment.Analytics)
				equipment.GET("", h.Equipment.List)
				equipment.GET("/:id", h.Equipment.Get)
				equipment.POST("", adminPM, h.Equipment.Create)
				equipment.PUT("/:id", adminPM, h.Equipment.Update)
				equipment.DELETE("/:id", adminOnly, h.Equipment.Delete)

				equipment.GET("/:id/assignments", h.Equipment.ListAssignments)
				equipment.POST("/:id/assignments", adminPM, h.Equipment.Assign)
				equipment.POST("/assignments/:assignmentId/end", adminPM, h.Equipment.EndAssignment)

				equipment.GET("/:id/documents", h.Equipment.ListDocuments)
				equipment.POST("/:id/documents", adminPM, h.Equipment.AddDocument)
				equipment.DELETE("/documents/:docId", adminPM, h.Equipment.DeleteDocument)

				equipment.GET("/:id/maintenance", h.Equipment.ListMaintenance)
				equipment.POST("/:id/maintenance", adminPM, h.Equipment.ScheduleMaintenance)
				equipment.POST("/maintenance/:maintenanceId/complete", adminPM, h.Equipment.CompleteMaintenance)
			}

			// 车辆模块
			vehicles := authorized.Group("/vehicles")
			{
				vehicles.GET("", h.Vehicle.List)
				vehicles.GET("/:id", h.Vehicle.Get)
				vehicles.POST("", adminPM, h.Vehicle.Create)
				vehicles.PUT("/:id", adminPM, h.Vehicle.Update)
				vehicles.DELETE("/:id", adminOnly, h.Vehicle.Delete)

				vehicles.GET("/:id/assignments", h.Vehicle.ListAssignments)
				vehicles.POST("/:id/assignments", adminPM, h.Vehicle.Assign)
				vehicles.POST("/assignments/:assignmentId/end", adminPM, h.Vehicle.EndAssignment)

				vehicles.GET("/:id/documents", h.Vehicle.ListDocuments)
				vehicles.POST("/:id/documents", adminPM, h.Vehicle.AddDocument)
				vehicles.DELETE("/documents/:docId", adminPM, h.Vehicle.DeleteDocument)
			}

			// 物料模块。orders/allocations 是集合路由，须先于 /:id 注册
			materials := authorized.Group("/materials")
			{
				materials.GET("/orders", h.Material.ListOrders)
				materials.POST("/orders", adminPM, h.Material.CreateOrder)
				materials.GET("/orders/:orderId", h.Material.GetOrder)
				materials.PUT("/orders/:orderId/status", adminPM, h.Material.UpdateOrderStatus)

				materials.GET("/allocations", h.Material.ListAllocations)
				materials.POST("/allocations", adminPM, h.Material.Allocate)
				materials.POST("/allocations/:allocationId/usage", h.Material.RecordUsage)

				materials.GET("", h.Material.List)
				materials.GET("/:id", h.Material.Get)
				materials.POST("", adminPM, h.Material.Create)
				materials.PUT("/:id", adminPM, h.Material.Update)
				materials.POST("/:id/adjust-stock", adminPM, h.Material.AdjustStock)
				materials.DELETE("/:id", adminOnly, h.Material.Delete)
			}

			// 班组模块
			crews := authorized.Group("/crews")
			{
				crews.GET("", h.Crew.List)
				crews.GET("/:id", h.Crew.Get)
				crews.POST("", adminPM, h.Crew.Create)
				crews.PUT("/:id", adminPM, h.Crew.Update)
				crews.DELETE("/:id", adminOnly, h.Crew.Delete)

				crews.GET("/:id/members", h.Crew.ListMembers)
				crews.POST("/:id/members", adminPM, h.Crew.AddMember)
				crews.DELETE("/members/:memberId", adminPM, h.Crew.RemoveMember)
			}

			// 文档模块
			documents := authorized.Group("/documents")
			{
				documents.GET("", h.Document.List)
				documents.GET("/:id", h.Document.Get)
				documents.POST("", h.Document.Create)
				documents.PUT("/:id", h.Document.Update)
				documents.DELETE("/:id", adminPM, h.Document.Delete)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.POST("", adminPM, h.Notification.Create)
				notifications.POST("/:id/read", h.Notification.MarkRead)
				notifications.POST("/read-all", h.Notification.MarkAllRead)
				notifications.DELETE("/:id", h.Notification.Delete)
			}

			// 财务模块
			financial := authorized.Group("/financial")
			financial.Use(adminPM)
			{
				financial.GET("/summary", h.Financial.Summary)
				financial.GET("/preparation-cost/:projectId", h.Financial.PreparationCost)
				financial.GET("/costs", h.Financial.ListCosts)
				financial.POST("/costs", h.Financial.CreateCost)
				financial.GET("/transactions", h.Financial.ListTransactions)
				financial.POST("/transactions", h.Financial.CreateTransaction)
			}

			// 文件上传模块
			upload := authorized.Group("/upload")
			{
				upload.POST("/:bucket", h.Upload.Upload)
				upload.GET("/:bucket", h.Upload.List)
				upload.DELETE("/:bucket", adminPM, h.Upload.Delete)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/financial", adminPM, h.Export.ExportFinancial)
				export.GET("/projects/:id/calendar", h.Export.ExportProjectCalendar)
			}

			// 仪表盘
			authorized.GET("/dashboard/stats", h.Dashboard.Stats)
		}
	}

	return r
}
