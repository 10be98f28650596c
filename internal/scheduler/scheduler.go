package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"cometa/backend/config"
	"cometa/backend/internal/service"
)

// runTimeout 单次提醒任务执行上限
const runTimeout = 5 * time.Minute

// Scheduler 进程内定时调度器，周期触发提醒生成任务。
// 部署在外部调度器（如 K8s CronJob 调 /cron/notifications）之外的场景下使用
type Scheduler struct {
	cron        *cron.Cron
	cfg         *config.CronConfig
	reminderSvc service.ReminderService
	logger      *zap.Logger
}

// New 创建 Scheduler。时区解析失败时回退到本地时区
func New(cfg *config.CronConfig, reminderSvc service.ReminderService, logger *zap.Logger) *Scheduler {
	location := time.Local
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			logger.Warn("时区解析失败，使用本地时区", zap.String("timezone", cfg.Timezone), zap.Error(err))
		} else {
			location = loc
		}
	}

	return &Scheduler{
		cron:        cron.New(cron.WithLocation(location)),
		cfg:         cfg,
		reminderSvc: reminderSvc,
		logger:      logger,
	}
}

// Start 注册任务并启动调度。cron 自带独立 goroutine，Start 立即返回
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.runReminders); err != nil {
		return fmt.Errorf("注册提醒任务失败: %w", err)
	}

	s.cron.Start()
	s.logger.Info("调度器已启动", zap.String("schedule", s.cfg.Schedule), zap.String("timezone", s.cfg.Timezone))
	return nil
}

// Stop 停止调度并等待在途任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("调度器已停止")
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	result := s.reminderSvc.Run(ctx)
	s.logger.Info("提醒任务执行完成",
		zap.Int64("execution_time_ms", result.ExecutionTimeMs),
		zap.Int("error_count", len(result.Errors)),
	)
}
