package handler

import (
	"cometa/backend/internal/service"
)

// Handler 所有 HTTP 处理器的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Project      *ProjectHandler
	Equipment    *EquipmentHandler
	Vehicle      *VehicleHandler
	Material     *MaterialHandler
	Crew         *CrewHandler
	Document     *DocumentHandler
	Notification *NotificationHandler
	Financial    *FinancialHandler
	Upload       *UploadHandler
	Export       *ExportHandler
	Dashboard    *DashboardHandler
	Cron         *CronHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Project:      NewProjectHandler(svc.Project, svc.Document, svc.Equipment, svc.Vehicle, svc.Material),
		Equipment:    NewEquipmentHandler(svc.Equipment),
		Vehicle:      NewVehicleHandler(svc.Vehicle),
		Material:     NewMaterialHandler(svc.Material),
		Crew:         NewCrewHandler(svc.Crew),
		Document:     NewDocumentHandler(svc.Document),
		Notification: NewNotificationHandler(svc.Notification),
		Financial:    NewFinancialHandler(svc.Financial),
		Upload:       NewUploadHandler(svc.Upload),
		Export:       NewExportHandler(svc.Export, svc.Financial),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
		Cron:         NewCronHandler(svc.Reminder),
	}
}
