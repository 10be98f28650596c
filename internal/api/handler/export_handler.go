package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"cometa/backend/internal/dto"
	"cometa/backend/internal/service"
	"cometa/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc    service.ExportService
	financialSvc service.FinancialService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, financialSvc service.FinancialService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, financialSvc: financialSvc}
}

// ExportFinancial 导出财务汇总为 Excel
// GET /api/v1/export/financial
func (h *ExportHandler) ExportFinancial(c *gin.Context) {
	var req dto.FinancialSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	summary, err := h.financialSvc.Summary(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	buf, filename, err := h.exportSvc.ExportFinancial(c.Request.Context(), summary)
	if err != nil {
		if errors.Is(err, service.ErrExportGenerateFail) {
			response.Error(c, http.StatusInternalServerError, 22001, "生成导出文件失败")
			return
		}
		response.InternalError(c)
		return
	}

	writeDownload(c, contentTypeXLSX, filename, buf.Bytes())
}

// ExportProjectCalendar 导出项目日程为 ICS 日历
// GET /api/v1/export/projects/:id/calendar
func (h *ExportHandler) ExportProjectCalendar(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportProjectCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			response.NotFound(c, 13001, "项目不存在")
		case errors.Is(err, service.ErrExportGenerateFail):
			response.Error(c, http.StatusInternalServerError, 22001, "生成导出文件失败")
		default:
			response.InternalError(c)
		}
		return
	}

	writeDownload(c, contentTypeICS, filename, buf.Bytes())
}

// writeDownload 写下载响应头并输出文件内容
func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}
