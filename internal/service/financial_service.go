package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
)

// openAssignmentDays 未结束租用按 30 天估算
const openAssignmentDays = 30

// FinancialService 财务业务接口
type FinancialService interface {
	CreateCost(ctx context.Context, req *dto.CreateCostRequest) (*model.Cost, error)
	ListCosts(ctx context.Context, req *dto.FinancialSummaryRequest, page *dto.PaginationRequest) ([]model.Cost, int64, error)
	CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*model.Transaction, error)
	ListTransactions(ctx context.Context, req *dto.FinancialSummaryRequest, page *dto.PaginationRequest) ([]model.Transaction, int64, error)
	Summary(ctx context.Context, req *dto.FinancialSummaryRequest) (*dto.FinancialSummaryResponse, error)
	PreparationCost(ctx context.Context, projectID string) (*dto.PreparationCostResponse, error)
}

type financialService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFinancialService 创建 FinancialService 实例
func NewFinancialService(repo *repository.Repository, logger *zap.Logger) FinancialService {
	return &financialService{repo: repo, logger: logger}
}

// buildFilter 把查询参数归一为日期过滤。year/month 与显式区间同时给出时区间优先
func buildFilter(req *dto.FinancialSummaryRequest) repository.FinancialFilter {
	f := repository.FinancialFilter{ProjectID: req.ProjectID}
	if req.StartDate != "" {
		t := parseDate(req.StartDate)
		f.StartDate = &t
	}
	if req.EndDate != "" {
		t := parseDate(req.EndDate)
		f.EndDate = &t
	}
	if f.StartDate == nil && f.EndDate == nil && req.Year != 0 {
		var start, end time.Time
		if req.Month != 0 {
			start = time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
			end = start.AddDate(0, 1, -1)
		} else {
			start = time.Date(req.Year, 1, 1, 0, 0, 0, 0, time.UTC)
			end = time.Date(req.Year, 12, 31, 0, 0, 0, 0, time.UTC)
		}
		f.StartDate = &start
		f.EndDate = &end
	}
	return f
}

func (s *financialService) CreateCost(ctx context.Context, req *dto.CreateCostRequest) (*model.Cost, error) {
	if _, err := s.repo.Project.GetByID(ctx, req.ProjectID); err != nil {
		return nil, ErrProjectNotFound
	}
	cost := &model.Cost{
		ProjectID:   req.ProjectID,
		CostType:    req.CostType,
		AmountEUR:   req.AmountEUR,
		Date:        parseDate(req.Date),
		Description: req.Description,
		ReferenceID: req.ReferenceID,
	}
	if err := s.repo.Financial.CreateCost(ctx, cost); err != nil {
		return nil, err
	}
	return cost, nil
}

func (s *financialService) ListCosts(ctx context.Context, req *dto.FinancialSummaryRequest, page *dto.PaginationRequest) ([]model.Cost, int64, error) {
	return s.repo.Financial.ListCosts(ctx, buildFilter(req), page.GetOffset(), page.GetPageSize())
}

func (s *financialService) CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*model.Transaction, error) {
	tx := &model.Transaction{
		ProjectID:   req.ProjectID,
		Type:        req.Type,
		Category:    req.Category,
		AmountEUR:   req.AmountEUR,
		Date:        parseDate(req.Date),
		Description: req.Description,
	}
	if err := s.repo.Financial.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *financialService) ListTransactions(ctx context.Context, req *dto.FinancialSummaryRequest, page *dto.PaginationRequest) ([]model.Transaction, int64, error) {
	return s.repo.Financial.ListTransactions(ctx, buildFilter(req), page.GetOffset(), page.GetPageSize())
}

// Summary 聚合成本与交易：按类型、按月，附各项目预算使用率
func (s *financialService) Summary(ctx context.Context, req *dto.FinancialSummaryRequest) (*dto.FinancialSummaryResponse, error) {
	f := buildFilter(req)

	costsByType, err := s.repo.Financial.SumCostsByType(ctx, f)
	if err != nil {
		return nil, err
	}
	txByType, err := s.repo.Financial.SumTransactionsByType(ctx, f)
	if err != nil {
		return nil, err
	}
	costsByMonth, err := s.repo.Financial.SumCostsByMonth(ctx, f)
	if err != nil {
		return nil, err
	}
	incomeByMonth, err := s.repo.Financial.SumTransactionsByMonth(ctx, f, model.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expenseByMonth, err := s.repo.Financial.SumTransactionsByMonth(ctx, f, model.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	resp := &dto.FinancialSummaryResponse{
		CostsByType: make(map[string]float64, len(costsByType)),
	}
	for _, row := range costsByType {
		resp.CostsByType[row.Type] = row.Amount
		resp.TotalCosts += row.Amount
	}
	for _, row := range txByType {
		switch row.Type {
		case model.TransactionTypeIncome:
			resp.TotalIncome = row.Amount
		case model.TransactionTypeExpense:
			resp.TotalExpenses = row.Amount
		}
	}
	resp.NetBalance = resp.TotalIncome - resp.TotalExpenses - resp.TotalCosts

	// 合并三个月度序列
	months := make(map[string]*dto.MonthlyBreakdownItem)
	order := make([]string, 0)
	get := func(m string) *dto.MonthlyBreakdownItem {
		if item, ok := months[m]; ok {
			return item
		}
		item := &dto.MonthlyBreakdownItem{Month: m}
		months[m] = item
		order = append(order, m)
		return item
	}
	for _, row := range costsByMonth {
		get(row.Month).Costs = row.Amount
	}
	for _, row := range incomeByMonth {
		get(row.Month).Income = row.Amount
	}
	for _, row := range expenseByMonth {
		get(row.Month).Expenses = row.Amount
	}
	sort.Strings(order)
	for _, m := range order {
		resp.MonthlyBreakdown = append(resp.MonthlyBreakdown, *months[m])
	}

	// 未按单项目过滤时附各项目概要
	if req.ProjectID == "" {
		byProject, err := s.repo.Financial.SumCostsByProject(ctx, f)
		if err != nil {
			return nil, err
		}
		for _, row := range byProject {
			item := dto.ProjectFinancialSummary{
				ProjectID:   row.ProjectID,
				ProjectName: row.ProjectName,
				Budget:      row.Budget,
				TotalCosts:  row.Amount,
				Remaining:   row.Budget - row.Amount,
			}
			if row.Budget > 0 {
				item.UsedPercent = row.Amount / row.Budget * 100
			}
			resp.ProjectSummaries = append(resp.ProjectSummaries, item)
		}
	}
	return resp, nil
}

// assignmentDays 指派租期天数，开放区间按 30 天估算
func assignmentDays(from time.Time, to *time.Time) float64 {
	if to == nil {
		return openAssignmentDays
	}
	days := to.Sub(from).Hours() / 24
	if days < 1 {
		return 1
	}
	return days
}

// PreparationCost 开工准备成本：临建 + 住宿 + 设备/车辆租用 + 物料 + 人工，对照预算
func (s *financialService) PreparationCost(ctx context.Context, projectID string) (*dto.PreparationCostResponse, error) {
	project, err := s.repo.Project.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	resp := &dto.PreparationCostResponse{
		ProjectID: projectID,
		Budget:    project.Budget,
	}

	facilities, err := s.repo.Facility.ListFacilities(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range facilities {
		resp.FacilityCost += facilities[i].RentDailyEUR * float64(facilities[i].RentalDays())
	}

	housing, err := s.repo.Facility.ListHousing(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range housing {
		resp.HousingCost += housing[i].RentDailyEUR * float64(housing[i].RentalDays())
	}

	eqAssignments, err := s.repo.Equipment.ListAssignmentsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range eqAssignments {
		a := eqAssignments[i]
		resp.EquipmentCost += a.RentalCostPerDay * assignmentDays(a.FromTs, a.ToTs)
	}
	vAssignments, err := s.repo.Vehicle.ListAssignmentsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range vAssignments {
		a := vAssignments[i]
		resp.EquipmentCost += a.RentalCostPerDay * assignmentDays(a.FromTs, a.ToTs)
	}

	resp.MaterialCost, err = s.repo.Material.SumAllocationCostByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	resp.LaborCost, err = s.repo.WorkEntry.SumLaborCostByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	resp.TotalCost = resp.FacilityCost + resp.HousingCost + resp.EquipmentCost + resp.MaterialCost + resp.LaborCost
	if project.Budget > 0 {
		resp.BudgetPercent = resp.TotalCost / project.Budget * 100
	}
	return resp, nil
}
