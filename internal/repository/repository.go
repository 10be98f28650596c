package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Project      ProjectRepository
	Equipment    EquipmentRepository
	Vehicle      VehicleRepository
	Material     MaterialRepository
	Crew         CrewRepository
	Document     DocumentRepository
	Notification NotificationRepository
	Financial    FinancialRepository
	Facility     FacilityRepository
	WorkEntry    WorkEntryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Project:      NewProjectRepo(db),
		Equipment:    NewEquipmentRepo(db),
		Vehicle:      NewVehicleRepo(db),
		Material:     NewMaterialRepo(db),
		Crew:         NewCrewRepo(db),
		Document:     NewDocumentRepo(db),
		Notification: NewNotificationRepo(db),
		Financial:    NewFinancialRepo(db),
		Facility:     NewFacilityRepo(db),
		WorkEntry:    NewWorkEntryRepo(db),
	}
}

// Transaction 在一个数据库事务内执行 fn，fn 收到绑定事务的 Repository
// 指派的占用检查与写入必须在同一事务内完成
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	// 无底层连接（mock 聚合）时直接执行
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
