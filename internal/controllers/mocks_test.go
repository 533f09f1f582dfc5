package controllers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/pkg/service"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, payload dto.LoginDTO) (service.Session, error) {
	args := m.Called(ctx, payload)
	s, _ := args.Get(0).(service.Session)
	return s, args.Error(1)
}

func (m *mockAuthService) Register(ctx context.Context, payload dto.RegisterPartnerDTO) (*dto.PartnerResponseDTO, error) {
	args := m.Called(ctx, payload)
	res, _ := args.Get(0).(*dto.PartnerResponseDTO)
	return res, args.Error(1)
}

func (m *mockAuthService) RefreshSession(ctx context.Context, session service.Session) (service.Session, error) {
	args := m.Called(ctx, session)
	s, _ := args.Get(0).(service.Session)
	return s, args.Error(1)
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) order(args mock.Arguments) (*dto.OrderResponseDTO, error) {
	res, _ := args.Get(0).(*dto.OrderResponseDTO)
	return res, args.Error(1)
}

func (m *mockOrderService) Create(ctx context.Context, data dto.CreateOrderDTO) (*dto.OrderResponseDTO, error) {
	return m.order(m.Called(ctx, data))
}

func (m *mockOrderService) Update(ctx context.Context, id uint64, data dto.UpdateOrderDTO) (*dto.OrderResponseDTO, error) {
	return m.order(m.Called(ctx, id, data))
}

func (m *mockOrderService) List(ctx context.Context, filter dto.OrderFilterDTO) ([]dto.OrderResponseDTO, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).([]dto.OrderResponseDTO)
	return res, args.Error(1)
}

func (m *mockOrderService) Get(ctx context.Context, id uint64) (*dto.OrderResponseDTO, error) {
	return m.order(m.Called(ctx, id))
}

func (m *mockOrderService) SetStatus(ctx context.Context, id uint64, status string) (*dto.OrderResponseDTO, error) {
	return m.order(m.Called(ctx, id, status))
}

func (m *mockOrderService) ToggleTimer(ctx context.Context, id uint64, action string) (*dto.OrderResponseDTO, error) {
	return m.order(m.Called(ctx, id, action))
}

func (m *mockOrderService) UpdateChecklist(ctx context.Context, id uint64, items []dto.ChecklistItemDTO) (*dto.OrderResponseDTO, error) {
	return m.order(m.Called(ctx, id, items))
}

func (m *mockOrderService) SetUrgent(ctx context.Context, id uint64, urgent bool) (*dto.OrderResponseDTO, error) {
	return m.order(m.Called(ctx, id, urgent))
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) GetReport(ctx context.Context, filter entities.ReportFilter) (*dto.ReportPageDTO, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*dto.ReportPageDTO)
	return res, args.Error(1)
}

func (m *mockReportService) GetSummary(ctx context.Context, filter entities.ReportFilter) (*entities.ReportSummary, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*entities.ReportSummary)
	return res, args.Error(1)
}

type mockWebhookService struct{ mock.Mock }

func (m *mockWebhookService) HandleInboundEmail(ctx context.Context, payload dto.InboundEmailDTO) (*dto.InboundEmailResultDTO, error) {
	args := m.Called(ctx, payload)
	res, _ := args.Get(0).(*dto.InboundEmailResultDTO)
	return res, args.Error(1)
}

type mockSweepService struct{ mock.Mock }

func (m *mockSweepService) Run(ctx context.Context) (*dto.SweepResultDTO, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*dto.SweepResultDTO)
	return res, args.Error(1)
}
