package service

import (
	"time"

	"go.uber.org/zap"

	"cometa/backend/config"
	"cometa/backend/internal/repository"
	"cometa/backend/pkg/jwt"
	"cometa/backend/pkg/redis"
	"cometa/backend/pkg/storage"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Project      ProjectService
	Equipment    EquipmentService
	Vehicle      VehicleService
	Material     MaterialService
	Crew         CrewService
	Document     DocumentService
	Notification NotificationService
	Reminder     ReminderService
	Financial    FinancialService
	Upload       UploadService
	Export       ExportService
	Dashboard    DashboardService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	store *storage.Client,
	logger *zap.Logger,
) *Service {
	notification := NewNotificationService(repo, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Project:      NewProjectService(repo, logger),
		Equipment:    NewEquipmentService(repo, logger),
		Vehicle:      NewVehicleService(repo, logger),
		Material:     NewMaterialService(repo, logger),
		Crew:         NewCrewService(repo, logger),
		Document:     NewDocumentService(repo, logger),
		Notification: notification,
		Reminder:     NewReminderService(repo, notification, logger),
		Financial:    NewFinancialService(repo, logger),
		Upload:       NewUploadService(store, logger),
		Export:       NewExportService(repo, logger),
		Dashboard:    NewDashboardService(repo, logger),
	}
}

// parseDate 解析 YYYY-MM-DD 日期串，DTO 绑定已校验格式
func parseDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// parseDatePtr 解析可空日期串
func parseDatePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseDate(*s)
	return &t
}
