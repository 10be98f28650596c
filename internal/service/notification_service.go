package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
)

var ErrNotificationNotFound = errors.New("通知不存在")

// dedupWindow 去重窗口：同一用户同一标题 24 小时内不重复发送
const dedupWindow = 24 * time.Hour

// NotificationService 通知业务接口
type NotificationService interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) (*model.Notification, error)
	// CreateDeduplicated 幂等创建：去重窗口内命中时返回 created=false 且不落库
	CreateDeduplicated(ctx context.Context, n *model.Notification) (created bool, err error)
	List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]model.Notification, int64, error)
	// Summary 列表附带的汇总计数：总量、未读、未读紧急
	Summary(ctx context.Context, userID string) (*dto.NotificationSummary, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*model.Notification, error) {
	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	typ := req.Type
	if typ == "" {
		typ = model.NotificationTypeSystem
	}
	priority := req.Priority
	if priority == "" {
		priority = model.NotificationPriorityNormal
	}
	n := &model.Notification{
		UserID:    req.UserID,
		Type:      typ,
		Category:  req.Category,
		Priority:  priority,
		Title:     req.Title,
		Message:   req.Message,
		ActionURL: req.ActionURL,
		Data:      req.Data,
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationService) CreateDeduplicated(ctx context.Context, n *model.Notification) (bool, error) {
	exists, err := s.repo.Notification.HasRecent(ctx, n.UserID, n.Title, time.Now().Add(-dedupWindow))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}

func (s *notificationService) List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]model.Notification, int64, error) {
	f := repository.NotificationFilter{
		UnreadOnly: req.UnreadOnly,
		Type:       req.Type,
		Category:   req.Category,
		Priority:   req.Priority,
	}
	if req.CreatedAfter != "" {
		t, err := time.Parse(time.RFC3339, req.CreatedAfter)
		if err != nil {
			t = parseDate(req.CreatedAfter)
		}
		if !t.IsZero() {
			f.CreatedAfter = &t
		}
	}
	return s.repo.Notification.List(ctx, userID, f, req.GetOffset(), req.GetPageSize())
}

func (s *notificationService) Summary(ctx context.Context, userID string) (*dto.NotificationSummary, error) {
	total, err := s.repo.Notification.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.Notification.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	urgent, err := s.repo.Notification.CountUrgentUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationSummary{Total: total, Unread: unread, UrgentUnread: urgent}, nil
}

func (s *notificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.Notification.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.Notification.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Notification.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
