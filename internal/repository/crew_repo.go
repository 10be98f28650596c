package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"cometa/backend/internal/model"
)

// CrewRepository 班组数据访问接口
type CrewRepository interface {
	Create(ctx context.Context, c *model.Crew) error
	GetByID(ctx context.Context, id string) (*model.Crew, error)
	Update(ctx context.Context, c *model.Crew) error
	List(ctx context.Context, projectID, status string, offset, limit int) ([]model.Crew, int64, error)
	CountActive(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id string) error

	AddMember(ctx context.Context, m *model.CrewMember) error
	GetMemberByID(ctx context.Context, id string) (*model.CrewMember, error)
	// GetActiveMembership 查询用户当前有效的班组成员记录
	GetActiveMembership(ctx context.Context, userID string) (*model.CrewMember, error)
	ListMembers(ctx context.Context, crewID string) ([]model.CrewMember, error)
	EndMembership(ctx context.Context, id string, activeTo time.Time) error
}

// crewRepo CrewRepository 的 GORM 实现
type crewRepo struct {
	db *gorm.DB
}

// NewCrewRepo 创建 CrewRepository 实例
func NewCrewRepo(db *gorm.DB) CrewRepository {
	return &crewRepo{db: db}
}

func (r *crewRepo) Create(ctx context.Context, c *model.Crew) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *crewRepo) GetByID(ctx context.Context, id string) (*model.Crew, error) {
	var c model.Crew
	err := r.db.WithContext(ctx).
		Preload("Foreman").
		Preload("Members", "active_to IS NULL").
		Preload("Members.User").
		Where("id = ? AND is_active", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *crewRepo) Update(ctx context.Context, c *model.Crew) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *crewRepo) List(ctx context.Context, projectID, status string, offset, limit int) ([]model.Crew, int64, error) {
	var crews []model.Crew
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Crew{}).Where("is_active")
	if projectID != "" {
		db = db.Where("project_id = ?", projectID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Foreman").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&crews).Error; err != nil {
		return nil, 0, err
	}
	return crews, total, nil
}

func (r *crewRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Crew{}).
		Where("status = ? AND is_active", "active").
		Count(&count).Error
	return count, err
}

func (r *crewRepo) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Crew{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// ── 成员 ──

func (r *crewRepo) AddMember(ctx context.Context, m *model.CrewMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *crewRepo) GetMemberByID(ctx context.Context, id string) (*model.CrewMember, error) {
	var m model.CrewMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *crewRepo) GetActiveMembership(ctx context.Context, userID string) (*model.CrewMember, error) {
	var m model.CrewMember
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active_to IS NULL", userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *crewRepo) ListMembers(ctx context.Context, crewID string) ([]model.CrewMember, error) {
	var members []model.CrewMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("crew_id = ?", crewID).
		Order("active_from DESC").
		Find(&members).Error
	return members, err
}

func (r *crewRepo) EndMembership(ctx context.Context, id string, activeTo time.Time) error {
	return r.db.WithContext(ctx).Model(&model.CrewMember{}).
		Where("id = ? AND active_to IS NULL", id).
		Update("active_to", activeTo).Error
}
