package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"cometa/backend/internal/model"
)

// FinancialFilter 财务查询筛选条件，零值字段忽略
type FinancialFilter struct {
	ProjectID string
	StartDate *time.Time
	EndDate   *time.Time
}

// TypeAmount 按类型聚合结果
type TypeAmount struct {
	Type   string  `gorm:"column:type"`
	Amount float64 `gorm:"column:amount"`
}

// MonthAmount 按月聚合结果
type MonthAmount struct {
	Month  string  `gorm:"column:month"`
	Amount float64 `gorm:"column:amount"`
}

// ProjectAmount 按项目聚合结果
type ProjectAmount struct {
	ProjectID   string  `gorm:"column:project_id"`
	ProjectName string  `gorm:"column:project_name"`
	Budget      float64 `gorm:"column:budget"`
	Amount      float64 `gorm:"column:amount"`
}

// FinancialRepository 财务数据访问接口
type FinancialRepository interface {
	CreateCost(ctx context.Context, c *model.Cost) error
	ListCosts(ctx context.Context, f FinancialFilter, offset, limit int) ([]model.Cost, int64, error)
	SumCostsByType(ctx context.Context, f FinancialFilter) ([]TypeAmount, error)
	SumCostsByMonth(ctx context.Context, f FinancialFilter) ([]MonthAmount, error)
	SumCostsByProject(ctx context.Context, f FinancialFilter) ([]ProjectAmount, error)
	SumCosts(ctx context.Context, f FinancialFilter) (float64, error)

	CreateTransaction(ctx context.Context, t *model.Transaction) error
	ListTransactions(ctx context.Context, f FinancialFilter, offset, limit int) ([]model.Transaction, int64, error)
	SumTransactionsByType(ctx context.Context, f FinancialFilter) ([]TypeAmount, error)
	SumTransactionsByMonth(ctx context.Context, f FinancialFilter, txType string) ([]MonthAmount, error)
}

// financialRepo FinancialRepository 的 GORM 实现
type financialRepo struct {
	db *gorm.DB
}

// NewFinancialRepo 创建 FinancialRepository 实例
func NewFinancialRepo(db *gorm.DB) FinancialRepository {
	return &financialRepo{db: db}
}

func applyCostFilter(db *gorm.DB, f FinancialFilter) *gorm.DB {
	if f.ProjectID != "" {
		db = db.Where("project_id = ?", f.ProjectID)
	}
	if f.StartDate != nil {
		db = db.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		db = db.Where("date <= ?", *f.EndDate)
	}
	return db
}

func (r *financialRepo) CreateCost(ctx context.Context, c *model.Cost) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *financialRepo) ListCosts(ctx context.Context, f FinancialFilter, offset, limit int) ([]model.Cost, int64, error) {
	var costs []model.Cost
	var total int64

	db := applyCostFilter(r.db.WithContext(ctx).Model(&model.Cost{}), f)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("date DESC").
		Find(&costs).Error; err != nil {
		return nil, 0, err
	}
	return costs, total, nil
}

func (r *financialRepo) SumCostsByType(ctx context.Context, f FinancialFilter) ([]TypeAmount, error) {
	var rows []TypeAmount
	db := applyCostFilter(r.db.WithContext(ctx).Model(&model.Cost{}), f)
	err := db.Select("cost_type AS type, COALESCE(SUM(amount_eur), 0) AS amount").
		Group("cost_type").
		Scan(&rows).Error
	return rows, err
}

func (r *financialRepo) SumCostsByMonth(ctx context.Context, f FinancialFilter) ([]MonthAmount, error) {
	var rows []MonthAmount
	db := applyCostFilter(r.db.WithContext(ctx).Model(&model.Cost{}), f)
	err := db.Select("to_char(date, 'YYYY-MM') AS month, COALESCE(SUM(amount_eur), 0) AS amount").
		Group("to_char(date, 'YYYY-MM')").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *financialRepo) SumCostsByProject(ctx context.Context, f FinancialFilter) ([]ProjectAmount, error) {
	var rows []ProjectAmount
	db := r.db.WithContext(ctx).Model(&model.Cost{}).
		Joins("JOIN projects ON projects.id = costs.project_id")
	if f.StartDate != nil {
		db = db.Where("costs.date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		db = db.Where("costs.date <= ?", *f.EndDate)
	}
	err := db.Select("costs.project_id, projects.name AS project_name, projects.budget, COALESCE(SUM(costs.amount_eur), 0) AS amount").
		Group("costs.project_id, projects.name, projects.budget").
		Order("amount DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *financialRepo) SumCosts(ctx context.Context, f FinancialFilter) (float64, error) {
	var sum float64
	db := applyCostFilter(r.db.WithContext(ctx).Model(&model.Cost{}), f)
	err := db.Select("COALESCE(SUM(amount_eur), 0)").Scan(&sum).Error
	return sum, err
}

// ── 交易 ──

func (r *financialRepo) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *financialRepo) ListTransactions(ctx context.Context, f FinancialFilter, offset, limit int) ([]model.Transaction, int64, error) {
	var txs []model.Transaction
	var total int64

	db := applyCostFilter(r.db.WithContext(ctx).Model(&model.Transaction{}), f)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("date DESC").
		Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (r *financialRepo) SumTransactionsByType(ctx context.Context, f FinancialFilter) ([]TypeAmount, error) {
	var rows []TypeAmount
	db := applyCostFilter(r.db.WithContext(ctx).Model(&model.Transaction{}), f)
	err := db.Select("type, COALESCE(SUM(amount_eur), 0) AS amount").
		Group("type").
		Scan(&rows).Error
	return rows, err
}

func (r *financialRepo) SumTransactionsByMonth(ctx context.Context, f FinancialFilter, txType string) ([]MonthAmount, error) {
	var rows []MonthAmount
	db := applyCostFilter(r.db.WithContext(ctx).Model(&model.Transaction{}), f).
		Where("type = ?", txType)
	err := db.Select("to_char(date, 'YYYY-MM') AS month, COALESCE(SUM(amount_eur), 0) AS amount").
		Group("to_char(date, 'YYYY-MM')").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}
