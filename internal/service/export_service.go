package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/internal/repository"
)

var ErrExportGenerateFail = errors.New("生成导出文件失败")

// 成本类型的德语显示名（报表面向客户）
var costTypeLabels = map[string]string{
	"material":  "Material",
	"equipment": "Geräte",
	"transport": "Transport",
	"facility":  "Baustelleneinrichtung",
	"housing":   "Unterkunft",
	"labor":     "Lohn",
	"other":     "Sonstiges",
}

// ExportService 导出业务接口
//
// 设计说明：
//   - 财务报表导出为 Excel (.xlsx)，以 bytes.Buffer 返回，由 Handler 层
//     设置 Content-Disposition 后写入 Response
//   - 项目日程导出为 iCalendar (.ics)：项目起止、维护计划、物料交付
type ExportService interface {
	// ExportFinancial 导出财务汇总为 Excel
	ExportFinancial(ctx context.Context, summary *dto.FinancialSummaryResponse) (*bytes.Buffer, string, error)
	// ExportProjectCalendar 导出单项目日程为 ICS
	ExportProjectCalendar(ctx context.Context, projectID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func (s *exportService) ExportFinancial(ctx context.Context, summary *dto.FinancialSummaryResponse) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Finanzübersicht"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "E", 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})

	// 汇总区
	row := 1
	f.SetCellValue(sheetName, cell("A", row), "Finanzübersicht")
	f.MergeCell(sheetName, cell("A", row), cell("B", row))
	f.SetCellStyle(sheetName, cell("A", row), cell("A", row), headerStyle)
	row += 2

	lines := []struct {
		label string
		value float64
	}{
		{"Gesamtkosten", summary.TotalCosts},
		{"Einnahmen", summary.TotalIncome},
		{"Ausgaben", summary.TotalExpenses},
		{"Saldo", summary.NetBalance},
	}
	for _, l := range lines {
		f.SetCellValue(sheetName, cell("A", row), l.label)
		f.SetCellValue(sheetName, cell("B", row), l.value)
		f.SetCellStyle(sheetName, cell("B", row), cell("B", row), moneyStyle)
		row++
	}
	row++

	// 按类型
	f.SetCellValue(sheetName, cell("A", row), "Kosten nach Typ")
	f.SetCellStyle(sheetName, cell("A", row), cell("A", row), headerStyle)
	row++
	for costType, amount := range summary.CostsByType {
		label := costTypeLabels[costType]
		if label == "" {
			label = costType
		}
		f.SetCellValue(sheetName, cell("A", row), label)
		f.SetCellValue(sheetName, cell("B", row), amount)
		f.SetCellStyle(sheetName, cell("B", row), cell("B", row), moneyStyle)
		row++
	}
	row++

	// 月度明细
	f.SetCellValue(sheetName, cell("A", row), "Monat")
	f.SetCellValue(sheetName, cell("B", row), "Kosten")
	f.SetCellValue(sheetName, cell("C", row), "Einnahmen")
	f.SetCellValue(sheetName, cell("D", row), "Ausgaben")
	f.SetCellStyle(sheetName, cell("A", row), cell("D", row), headerStyle)
	row++
	for _, m := range summary.MonthlyBreakdown {
		f.SetCellValue(sheetName, cell("A", row), m.Month)
		f.SetCellValue(sheetName, cell("B", row), m.Costs)
		f.SetCellValue(sheetName, cell("C", row), m.Income)
		f.SetCellValue(sheetName, cell("D", row), m.Expenses)
		f.SetCellStyle(sheetName, cell("B", row), cell("D", row), moneyStyle)
		row++
	}

	// 项目概要
	if len(summary.ProjectSummaries) > 0 {
		row++
		f.SetCellValue(sheetName, cell("A", row), "Projekt")
		f.SetCellValue(sheetName, cell("B", row), "Budget")
		f.SetCellValue(sheetName, cell("C", row), "Kosten")
		f.SetCellValue(sheetName, cell("D", row), "Rest")
		f.SetCellValue(sheetName, cell("E", row), "Verbrauch %")
		f.SetCellStyle(sheetName, cell("A", row), cell("E", row), headerStyle)
		row++
		for _, p := range summary.ProjectSummaries {
			f.SetCellValue(sheetName, cell("A", row), p.ProjectName)
			f.SetCellValue(sheetName, cell("B", row), p.Budget)
			f.SetCellValue(sheetName, cell("C", row), p.TotalCosts)
			f.SetCellValue(sheetName, cell("D", row), p.Remaining)
			f.SetCellValue(sheetName, cell("E", row), p.UsedPercent)
			f.SetCellStyle(sheetName, cell("B", row), cell("D", row), moneyStyle)
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("finanzbericht_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}

func (s *exportService) ExportProjectCalendar(ctx context.Context, projectID string) (*bytes.Buffer, string, error) {
	project, err := s.repo.Project.GetByID(ctx, projectID)
	if err != nil {
		return nil, "", ErrProjectNotFound
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//COMETA//Bauprojekte//DE")
	now := time.Now()

	addAllDay := func(uid, summary, description string, date time.Time) {
		evt := cal.AddEvent(uid)
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetAllDayStartAt(date)
		evt.SetAllDayEndAt(date.AddDate(0, 0, 1))
		evt.SetSummary(summary)
		if description != "" {
			evt.SetDescription(description)
		}
	}

	if project.StartDate != nil {
		addAllDay(
			fmt.Sprintf("start-%s@cometa", project.ID),
			fmt.Sprintf("Projektstart: %s", project.Name),
			locationLine(project), *project.StartDate)
	}
	if project.EndDatePlan != nil {
		addAllDay(
			fmt.Sprintf("end-%s@cometa", project.ID),
			fmt.Sprintf("Projektende (geplant): %s", project.Name),
			locationLine(project), *project.EndDatePlan)
	}

	// 项目内设备的维护计划
	assignments, err := s.repo.Equipment.ListAssignmentsByProject(ctx, projectID)
	if err != nil {
		return nil, "", err
	}
	for i := range assignments {
		items, err := s.repo.Equipment.ListMaintenance(ctx, assignments[i].EquipmentID)
		if err != nil {
			continue
		}
		for j := range items {
			m := items[j]
			if m.Status != "scheduled" {
				continue
			}
			addAllDay(
				fmt.Sprintf("maint-%s@cometa", m.ID),
				"Wartung fällig",
				"", m.ScheduledDate)
		}
	}

	// 预期物料交付
	orders, _, err := s.repo.Material.ListOrders(ctx, "", projectID, 0, 500)
	if err != nil {
		return nil, "", err
	}
	for i := range orders {
		o := orders[i]
		if o.ExpectedDeliveryDate == nil || o.Status == "delivered" || o.Status == "cancelled" {
			continue
		}
		name := "Material"
		if o.Material != nil {
			name = o.Material.Name
		}
		addAllDay(
			fmt.Sprintf("delivery-%s@cometa", o.ID),
			fmt.Sprintf("Lieferung: %s", name),
			"", *o.ExpectedDeliveryDate)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("projekt_%s.ics", project.ID[:8])
	return buf, filename, nil
}

// locationLine 项目地点描述行
func locationLine(p *model.Project) string {
	var parts []string
	if p.City != nil && *p.City != "" {
		parts = append(parts, *p.City)
	}
	if p.Address != nil && *p.Address != "" {
		parts = append(parts, *p.Address)
	}
	return strings.Join(parts, ", ")
}
