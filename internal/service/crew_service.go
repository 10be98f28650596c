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

var (
	ErrCrewNotFound       = errors.New("班组不存在")
	ErrMemberNotFound     = errors.New("成员记录不存在")
	ErrAlreadyInCrew      = errors.New("该用户已在其他班组")
	ErrMembershipClosed   = errors.New("成员关系已结束")
)

// CrewService 班组业务接口
type CrewService interface {
	Create(ctx context.Context, req *dto.CreateCrewRequest) (*model.Crew, error)
	GetByID(ctx context.Context, id string) (*model.Crew, error)
	List(ctx context.Context, req *dto.CrewListRequest) ([]model.Crew, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCrewRequest) (*model.Crew, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, crewID string, req *dto.AddCrewMemberRequest) (*model.CrewMember, error)
	RemoveMember(ctx context.Context, memberID string) error
	ListMembers(ctx context.Context, crewID string) ([]model.CrewMember, error)
}

type crewService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCrewService 创建 CrewService 实例
func NewCrewService(repo *repository.Repository, logger *zap.Logger) CrewService {
	return &crewService{repo: repo, logger: logger}
}

func (s *crewService) Create(ctx context.Context, req *dto.CreateCrewRequest) (*model.Crew, error) {
	if req.ProjectID != nil {
		if _, err := s.repo.Project.GetByID(ctx, *req.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, err
		}
	}
	if req.ForemanUserID != nil {
		if _, err := s.repo.User.GetByID(ctx, *req.ForemanUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	crew := &model.Crew{
		Name:          req.Name,
		ProjectID:     req.ProjectID,
		ForemanUserID: req.ForemanUserID,
		Description:   req.Description,
		Status:        "active",
	}
	if err := s.repo.Crew.Create(ctx, crew); err != nil {
		s.logger.Error("创建班组失败", zap.Error(err))
		return nil, err
	}
	return crew, nil
}

func (s *crewService) GetByID(ctx context.Context, id string) (*model.Crew, error) {
	crew, err := s.repo.Crew.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		return nil, err
	}
	return crew, nil
}

func (s *crewService) List(ctx context.Context, req *dto.CrewListRequest) ([]model.Crew, int64, error) {
	return s.repo.Crew.List(ctx, req.ProjectID, req.Status, req.GetOffset(), req.GetPageSize())
}

func (s *crewService) Update(ctx context.Context, id string, req *dto.UpdateCrewRequest) (*model.Crew, error) {
	crew, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		crew.Name = *req.Name
	}
	if req.ProjectID != nil {
		crew.ProjectID = req.ProjectID
	}
	if req.ForemanUserID != nil {
		crew.ForemanUserID = req.ForemanUserID
	}
	if req.Description != nil {
		crew.Description = req.Description
	}
	if req.Status != nil {
		crew.Status = *req.Status
	}

	if err := s.repo.Crew.Update(ctx, crew); err != nil {
		return nil, err
	}
	return crew, nil
}

func (s *crewService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Crew.SoftDelete(ctx, id)
}

// ── 成员 ──

// AddMember 添加成员。一个用户同一时刻只能在一个班组
func (s *crewService) AddMember(ctx context.Context, crewID string, req *dto.AddCrewMemberRequest) (*model.CrewMember, error) {
	if _, err := s.GetByID(ctx, crewID); err != nil {
		return nil, err
	}
	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.repo.Crew.GetActiveMembership(ctx, req.UserID); err == nil {
		return nil, ErrAlreadyInCrew
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := req.RoleInCrew
	if role == "" {
		role = "worker"
	}
	member := &model.CrewMember{
		CrewID:     crewID,
		UserID:     req.UserID,
		RoleInCrew: role,
		ActiveFrom: parseDate(req.ActiveFrom),
	}
	if err := s.repo.Crew.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember 结束成员关系（记录保留，active_to 置为当天）
func (s *crewService) RemoveMember(ctx context.Context, memberID string) error {
	member, err := s.repo.Crew.GetMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if member.ActiveTo != nil {
		return ErrMembershipClosed
	}
	return s.repo.Crew.EndMembership(ctx, memberID, time.Now())
}

func (s *crewService) ListMembers(ctx context.Context, crewID string) ([]model.CrewMember, error) {
	if _, err := s.GetByID(ctx, crewID); err != nil {
		return nil, err
	}
	return s.repo.Crew.ListMembers(ctx, crewID)
}
