package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/repositories"
)

type ReportServiceInterface interface {
	GetReport(ctx context.Context, filter entities.ReportFilter) (*dto.ReportPageDTO, error)
	GetSummary(ctx context.Context, filter entities.ReportFilter) (*entities.ReportSummary, error)
}

type reportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
	now        func() time.Time
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{reportRepo: reportRepo, logger: logger, now: time.Now}
}

// GetReport - строки отчёта по производству. PerPage == 0 отдаёт всё (для выгрузки в Excel).
func (s *reportService) GetReport(ctx context.Context, filter entities.ReportFilter) (*dto.ReportPageDTO, error) {
	items, total, err := s.reportRepo.GetReport(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка построения отчёта", zap.Any("filter", filter), zap.Error(err))
		return nil, err
	}

	now := s.now()
	rows := make([]dto.ReportRowDTO, 0, len(items))
	for _, item := range items {
		rows = append(rows, dto.NewReportRow(item, now))
	}
	return &dto.ReportPageDTO{List: rows, Total: total, Page: filter.Page, Limit: filter.PerPage}, nil
}

func (s *reportService) GetSummary(ctx context.Context, filter entities.ReportFilter) (*entities.ReportSummary, error) {
	return s.reportRepo.GetSummary(ctx, filter, s.now())
}
