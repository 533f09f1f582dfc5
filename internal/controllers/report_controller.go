package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/services"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/utils"
)

const (
	defaultReportLimit = 50
	maxReportLimit     = 500
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetReport(ctx echo.Context) error {
	filter, err := parseReportFilter(ctx, true)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Debug("Запрос отчёта", zap.Any("filter", filter))

	res, err := c.reportService.GetReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Отчёт успешно сформирован", http.StatusOK)
}

func (c *ReportController) GetSummary(ctx echo.Context) error {
	filter, err := parseReportFilter(ctx, false)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.reportService.GetSummary(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Сводка сформирована", http.StatusOK)
}

// ExportReport отдаёт все строки отчёта по тем же фильтрам в виде xlsx.
func (c *ReportController) ExportReport(ctx echo.Context) error {
	filter, err := parseReportFilter(ctx, false)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.reportService.GetReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithXLSX(ctx, res.List)
}

// parseReportFilter понимает date_from/date_to в виде YYYY-MM-DD (date_to включительно) или RFC3339.
func parseReportFilter(ctx echo.Context, paged bool) (entities.ReportFilter, error) {
	q := ctx.QueryParams()
	var filter entities.ReportFilter

	if v := q.Get("date_from"); v != "" {
		t, _, err := parseReportDate(v)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Неверный формат date_from")
		}
		filter.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, dateOnly, err := parseReportDate(v)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Неверный формат date_to")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		filter.DateTo = &t
	}

	var err error
	if filter.ClientIDs, err = utils.ParseUint64Slice(utils.ListParam(q, "client_ids")); err != nil {
		return filter, apperrors.NewBadRequestError("Неверный список client_ids")
	}
	if filter.PartnerIDs, err = utils.ParseUint64Slice(utils.ListParam(q, "partner_ids")); err != nil {
		return filter, apperrors.NewBadRequestError("Неверный список partner_ids")
	}
	filter.Statuses = utils.ListParam(q, "status")

	if !paged {
		return filter, nil
	}

	filter.Page = 1
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return filter, apperrors.NewBadRequestError("Неверный номер страницы")
		}
		filter.Page = page
	}
	filter.PerPage = defaultReportLimit
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return filter, apperrors.NewBadRequestError("Неверный limit")
		}
		filter.PerPage = min(limit, maxReportLimit)
	}
	return filter, nil
}

func parseReportDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse(utils.DateLayout, v); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}

var reportHeaders = []string{
	"Número", "Cliente", "Parceiro", "Projeto", "Status", "Urgente",
	"Criada em", "Finalizada em", "Horas de produção", "Em produção agora",
}

func rowToSlice(row dto.ReportRowDTO) []interface{} {
	const dateFmt = "02/01/2006 15:04"
	created, finalized := row.CreatedAt, ""
	if t, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
		created = t.Format(dateFmt)
	}
	if row.FinalizedAt != nil {
		if t, err := time.Parse(time.RFC3339, *row.FinalizedAt); err == nil {
			finalized = t.Format(dateFmt)
		}
	}
	return []interface{}{
		row.Number, row.Client, utils.DerefString(row.Executor), row.Project, row.StatusLabel,
		yesNo(row.Urgent), created, finalized, row.ProductionHours, yesNo(row.Running),
	}
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, rows []dto.ReportRowDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Produção"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := f.SetSheetRow(sheet, "A1", &reportHeaders); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", "J1", style)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := rowToSlice(row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			c.logger.Error("не удалось записать строку отчёта", zap.String("number", row.Number), zap.Error(err))
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "D", 28)
	_ = f.SetColWidth(sheet, "E", "E", 24)
	_ = f.SetColWidth(sheet, "G", "I", 18)

	fileName := fmt.Sprintf("relatorio_%s.xlsx", time.Now().Format(utils.DateLayout))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
