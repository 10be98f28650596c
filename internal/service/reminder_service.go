package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
)

// 各类别的提前提醒偏移（天）。负数表示逾期后仍提醒
var reminderOffsets = map[string][]int{
	model.ReminderProjectStart:       {7, 3, 1, 0},
	model.ReminderProjectEnd:         {30, 14, 7, 3, 1, 0},
	model.ReminderMaterialDelivery:   {7, 3, 1, 0, -1},
	model.ReminderVehicleDocuments:   {90, 30, 14, 7, 3, 1, 0},
	model.ReminderEquipmentDocuments: {90, 30, 14, 7, 3, 1, 0},
	model.ReminderMaintenance:        {30, 14, 7, 3, 1, 0},
}

// ReminderService 到期提醒扫描接口，由定时任务与 cron 端点触发
type ReminderService interface {
	Run(ctx context.Context) *dto.ReminderRunResponse
}

type reminderService struct {
	repo         *repository.Repository
	notification NotificationService
	logger       *zap.Logger
}

// NewReminderService 创建 ReminderService 实例
func NewReminderService(repo *repository.Repository, notification NotificationService, logger *zap.Logger) ReminderService {
	return &reminderService{repo: repo, notification: notification, logger: logger}
}

// dateOnly 截断到当天零点
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysUntil 目标日距今天数，按日历日计算。
// 四舍五入吸收夏令时切换造成的 23/25 小时日
func daysUntil(target, now time.Time) int {
	return int(math.Round(dateOnly(target).Sub(dateOnly(now)).Hours() / 24))
}

// offsetDates 今天加各偏移得到的目标日期集合
func offsetDates(now time.Time, offsets []int) []time.Time {
	dates := make([]time.Time, 0, len(offsets))
	for _, off := range offsets {
		dates = append(dates, dateOnly(now).AddDate(0, 0, off))
	}
	return dates
}

// severity 按类别与剩余天数决定优先级
func severity(category string, days int) string {
	switch category {
	case model.ReminderProjectStart:
		if days <= 1 {
			return model.NotificationPriorityUrgent
		}
		if days <= 3 {
			return model.NotificationPriorityHigh
		}
	case model.ReminderProjectEnd:
		if days <= 3 {
			return model.NotificationPriorityUrgent
		}
		if days <= 7 {
			return model.NotificationPriorityHigh
		}
	case model.ReminderMaterialDelivery:
		if days < 0 {
			return model.NotificationPriorityUrgent
		}
		if days <= 1 {
			return model.NotificationPriorityHigh
		}
	case model.ReminderVehicleDocuments, model.ReminderEquipmentDocuments:
		if days < 0 {
			return model.NotificationPriorityUrgent
		}
		if days <= 7 {
			return model.NotificationPriorityHigh
		}
	case model.ReminderMaintenance:
		if days < 0 {
			return model.NotificationPriorityUrgent
		}
		if days <= 3 {
			return model.NotificationPriorityHigh
		}
	}
	return model.NotificationPriorityNormal
}

// inTagen 德语天数表述
func inTagen(days int) string {
	switch {
	case days == 0:
		return "heute"
	case days == 1:
		return "morgen"
	case days < 0:
		n := -days
		if n == 1 {
			return "seit 1 Tag überfällig"
		}
		return fmt.Sprintf("seit %d Tagen überfällig", n)
	default:
		return fmt.Sprintf("in %d Tagen", days)
	}
}

// Run 扫描全部六类到期事件并生成通知。
// 每个类别独立容错：单类失败不影响其余类别，错误汇总在响应里
func (s *reminderService) Run(ctx context.Context) *dto.ReminderRunResponse {
	start := time.Now()
	resp := &dto.ReminderRunResponse{
		Stats: make(map[string]dto.ReminderStatsResponse),
		RanAt: start.Format(time.RFC3339),
	}

	type category struct {
		name string
		run  func(ctx context.Context, now time.Time) (dto.ReminderStatsResponse, error)
	}
	categories := []category{
		{model.ReminderProjectStart, s.runProjectStart},
		{model.ReminderProjectEnd, s.runProjectEnd},
		{model.ReminderMaterialDelivery, s.runMaterialDelivery},
		{model.ReminderVehicleDocuments, s.runVehicleDocuments},
		{model.ReminderEquipmentDocuments, s.runEquipmentDocuments},
		{model.ReminderMaintenance, s.runMaintenance},
	}

	now := time.Now()
	for _, c := range categories {
		stats, err := c.run(ctx, now)
		resp.Stats[c.name] = stats
		if err != nil {
			s.logger.Error("提醒类别执行失败",
				zap.String("category", c.name), zap.Error(err))
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", c.name, err))
		}
	}

	resp.ExecutionTimeMs = time.Since(start).Milliseconds()
	s.logger.Info("提醒扫描完成",
		zap.Int64("execution_time_ms", resp.ExecutionTimeMs),
		zap.Int("error_count", len(resp.Errors)))
	return resp
}

// pmRecipient 项目提醒收件人：仅项目 PM。
// 无 PM 或 PM 已停用时不发送任何提醒
func (s *reminderService) pmRecipient(ctx context.Context, project *model.Project) ([]model.User, error) {
	if project == nil || project.PMUserID == nil {
		return nil, nil
	}
	user, err := s.repo.User.GetByID(ctx, *project.PMUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []model.User{*user}, nil
}

// dispatch 给收件人集合发送去重通知并累计统计
func (s *reminderService) dispatch(ctx context.Context, stats *dto.ReminderStatsResponse, recipients []model.User, template model.Notification) {
	for _, user := range recipients {
		stats.Total++
		n := template
		n.UserID = user.ID
		created, err := s.notification.CreateDeduplicated(ctx, &n)
		switch {
		case err != nil:
			stats.Failed++
			s.logger.Warn("创建提醒通知失败",
				zap.String("user_id", user.ID), zap.String("title", n.Title), zap.Error(err))
		case created:
			stats.Created++
		default:
			stats.Skipped++
		}
	}
}

func (s *reminderService) runProjectStart(ctx context.Context, now time.Time) (dto.ReminderStatsResponse, error) {
	var stats dto.ReminderStatsResponse
	projects, err := s.repo.Project.ListStartingOn(ctx, offsetDates(now, reminderOffsets[model.ReminderProjectStart]))
	if err != nil {
		return stats, err
	}

	category := model.ReminderProjectStart
	for i := range projects {
		p := projects[i]
		days := daysUntil(*p.StartDate, now)
		recipients, err := s.pmRecipient(ctx, &p)
		if err != nil {
			return stats, err
		}
		actionURL := "/dashboard/projects/" + p.ID
		s.dispatch(ctx, &stats, recipients, model.Notification{
			Type:     model.NotificationTypeReminder,
			Category: &category,
			Priority: severity(category, days),
			// 标题带天数，保证不同偏移日的提醒不会互相去重
			Title:     fmt.Sprintf("Projektstart %s: %s", inTagen(days), p.Name),
			Message:   fmt.Sprintf("Projekt %q beginnt %s (%s).", p.Name, inTagen(days), p.StartDate.Format("02.01.2006")),
			ActionURL: &actionURL,
			Data: model.JSONMap{
				"project_id": p.ID,
				"days_until": days,
			},
		})
	}
	return stats, nil
}

func (s *reminderService) runProjectEnd(ctx context.Context, now time.Time) (dto.ReminderStatsResponse, error) {
	var stats dto.ReminderStatsResponse
	projects, err := s.repo.Project.ListEndingOn(ctx, offsetDates(now, reminderOffsets[model.ReminderProjectEnd]))
	if err != nil {
		return stats, err
	}

	category := model.ReminderProjectEnd
	for i := range projects {
		p := projects[i]
		days := daysUntil(*p.EndDatePlan, now)
		recipients, err := s.pmRecipient(ctx, &p)
		if err != nil {
			return stats, err
		}
		actionURL := "/dashboard/projects/" + p.ID
		s.dispatch(ctx, &stats, recipients, model.Notification{
			Type:      model.NotificationTypeReminder,
			Category:  &category,
			Priority:  severity(category, days),
			Title:     fmt.Sprintf("Projektende %s: %s", inTagen(days), p.Name),
			Message:   fmt.Sprintf("Projekt %q endet %s (%s).", p.Name, inTagen(days), p.EndDatePlan.Format("02.01.2006")),
			ActionURL: &actionURL,
			Data: model.JSONMap{
				"project_id": p.ID,
				"days_until": days,
			},
		})
	}
	return stats, nil
}

func (s *reminderService) runMaterialDelivery(ctx context.Context, now time.Time) (dto.ReminderStatsResponse, error) {
	var stats dto.ReminderStatsResponse
	orders, err := s.repo.Material.ListOrdersDeliveringOn(ctx, offsetDates(now, reminderOffsets[model.ReminderMaterialDelivery]))
	if err != nil {
		return stats, err
	}

	category := model.ReminderMaterialDelivery
	actionURL := "/dashboard/materials/orders"
	for i := range orders {
		o := orders[i]
		// 订单未挂项目或项目无 PM 时不发送
		if o.ProjectID == nil {
			continue
		}
		project, err := s.repo.Project.GetByID(ctx, *o.ProjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return stats, err
		}
		recipients, err := s.pmRecipient(ctx, project)
		if err != nil {
			return stats, err
		}
		if len(recipients) == 0 {
			continue
		}

		days := daysUntil(*o.ExpectedDeliveryDate, now)
		name := "Material"
		if o.Material != nil {
			name = o.Material.Name
		}
		s.dispatch(ctx, &stats, recipients, model.Notification{
			Type:      model.NotificationTypeReminder,
			Category:  &category,
			Priority:  severity(category, days),
			Title:     fmt.Sprintf("Materiallieferung %s: %s", inTagen(days), name),
			Message:   fmt.Sprintf("Lieferung für %q wird %s erwartet (%s).", name, inTagen(days), o.ExpectedDeliveryDate.Format("02.01.2006")),
			ActionURL: &actionURL,
			Data: model.JSONMap{
				"order_id":    o.ID,
				"material_id": o.MaterialID,
				"days_until":  days,
			},
		})
	}
	return stats, nil
}

func (s *reminderService) runVehicleDocuments(ctx context.Context, now time.Time) (dto.ReminderStatsResponse, error) {
	var stats dto.ReminderStatsResponse
	docs, err := s.repo.Vehicle.ListDocumentsExpiringOn(ctx, offsetDates(now, reminderOffsets[model.ReminderVehicleDocuments]))
	if err != nil {
		return stats, err
	}

	category := model.ReminderVehicleDocuments
	actionURL := "/dashboard/vehicles"
	// 车队类提醒只广播给 admin 角色
	recipients, err := s.repo.User.ListByRoles(ctx, []string{model.RoleAdmin})
	if err != nil {
		return stats, err
	}
	for i := range docs {
		d := docs[i]
		days := daysUntil(*d.ExpiryDate, now)
		plate := "?"
		if d.Vehicle != nil {
			plate = d.Vehicle.PlateNumber
		}
		s.dispatch(ctx, &stats, recipients, model.Notification{
			Type:      model.NotificationTypeReminder,
			Category:  &category,
			Priority:  severity(category, days),
			Title:     fmt.Sprintf("Fahrzeugdokument läuft %s ab: %s", inTagen(days), plate),
			Message:   fmt.Sprintf("Dokument %q für Fahrzeug %s läuft %s ab (%s).", d.Title, plate, inTagen(days), d.ExpiryDate.Format("02.01.2006")),
			ActionURL: &actionURL,
			Data: model.JSONMap{
				"vehicle_id":  d.VehicleID,
				"document_id": d.ID,
				"days_until":  days,
			},
		})
	}
	return stats, nil
}

func (s *reminderService) runEquipmentDocuments(ctx context.Context, now time.Time) (dto.ReminderStatsResponse, error) {
	var stats dto.ReminderStatsResponse
	docs, err := s.repo.Equipment.ListDocumentsExpiringOn(ctx, offsetDates(now, reminderOffsets[model.ReminderEquipmentDocuments]))
	if err != nil {
		return stats, err
	}

	category := model.ReminderEquipmentDocuments
	actionURL := "/dashboard/equipment"
	recipients, err := s.repo.User.ListByRoles(ctx, []string{model.RoleAdmin})
	if err != nil {
		return stats, err
	}
	for i := range docs {
		d := docs[i]
		days := daysUntil(*d.ExpiryDate, now)
		name := "?"
		if d.Equipment != nil {
			name = d.Equipment.Name
		}
		s.dispatch(ctx, &stats, recipients, model.Notification{
			Type:      model.NotificationTypeReminder,
			Category:  &category,
			Priority:  severity(category, days),
			Title:     fmt.Sprintf("Gerätedokument läuft %s ab: %s", inTagen(days), name),
			Message:   fmt.Sprintf("Dokument %q für Gerät %s läuft %s ab (%s).", d.Title, name, inTagen(days), d.ExpiryDate.Format("02.01.2006")),
			ActionURL: &actionURL,
			Data: model.JSONMap{
				"equipment_id": d.EquipmentID,
				"document_id":  d.ID,
				"days_until":   days,
			},
		})
	}
	return stats, nil
}

func (s *reminderService) runMaintenance(ctx context.Context, now time.Time) (dto.ReminderStatsResponse, error) {
	var stats dto.ReminderStatsResponse
	items, err := s.repo.Equipment.ListMaintenanceScheduledOn(ctx, offsetDates(now, reminderOffsets[model.ReminderMaintenance]))
	if err != nil {
		return stats, err
	}

	category := model.ReminderMaintenance
	actionURL := "/dashboard/equipment"
	recipients, err := s.repo.User.ListByRoles(ctx, []string{model.RoleAdmin})
	if err != nil {
		return stats, err
	}
	for i := range items {
		m := items[i]
		days := daysUntil(m.ScheduledDate, now)
		name := "?"
		if m.Equipment != nil {
			name = m.Equipment.Name
		}
		s.dispatch(ctx, &stats, recipients, model.Notification{
			Type:      model.NotificationTypeReminder,
			Category:  &category,
			Priority:  severity(category, days),
			Title:     fmt.Sprintf("Wartung %s fällig: %s", inTagen(days), name),
			Message:   fmt.Sprintf("Wartung für Gerät %s ist %s fällig (%s).", name, inTagen(days), m.ScheduledDate.Format("02.01.2006")),
			ActionURL: &actionURL,
			Data: model.JSONMap{
				"equipment_id":   m.EquipmentID,
				"maintenance_id": m.ID,
				"days_until":     days,
			},
		})
	}
	return stats, nil
}
