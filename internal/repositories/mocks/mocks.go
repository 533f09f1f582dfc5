// Package mocks содержит testify-моки репозиториев для тестов сервисов и слушателей.
package mocks

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
)

// TxManager просто вызывает fn без транзакции.
type TxManager struct {
	Calls int
}

func (m *TxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	m.Calls++
	return fn(nil)
}

type OrderRepository struct{ mock.Mock }

func (m *OrderRepository) List(ctx context.Context, filter dto.OrderFilterDTO) ([]entities.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]entities.Order)
	return orders, args.Error(1)
}

func (m *OrderRepository) FindByID(ctx context.Context, id uint64) (*entities.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*entities.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	args := m.Called(ctx, tx, id)
	order, _ := args.Get(0).(*entities.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	args := m.Called(ctx, tx, id)
	order, _ := args.Get(0).(*entities.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) NextNumberInTx(ctx context.Context, tx pgx.Tx) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *OrderRepository) CreateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (uint64, error) {
	args := m.Called(ctx, tx, order)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *OrderRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *OrderRepository) ListRunningIDs(ctx context.Context) ([]uint64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]uint64)
	return ids, args.Error(1)
}

type ClientRepository struct{ mock.Mock }

func (m *ClientRepository) List(ctx context.Context) ([]entities.Client, error) {
	args := m.Called(ctx)
	clients, _ := args.Get(0).([]entities.Client)
	return clients, args.Error(1)
}

func (m *ClientRepository) FindByID(ctx context.Context, id uint64) (*entities.Client, error) {
	args := m.Called(ctx, id)
	client, _ := args.Get(0).(*entities.Client)
	return client, args.Error(1)
}

func (m *ClientRepository) FindOrCreateInTx(ctx context.Context, tx pgx.Tx, name string, originatingPartnerID *uint64) (*entities.Client, error) {
	args := m.Called(ctx, tx, name, originatingPartnerID)
	client, _ := args.Get(0).(*entities.Client)
	return client, args.Error(1)
}

func (m *ClientRepository) Rename(ctx context.Context, id uint64, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

type PartnerRepository struct{ mock.Mock }

func (m *PartnerRepository) List(ctx context.Context) ([]entities.Partner, error) {
	args := m.Called(ctx)
	partners, _ := args.Get(0).([]entities.Partner)
	return partners, args.Error(1)
}

func (m *PartnerRepository) FindByID(ctx context.Context, id uint64) (*entities.Partner, error) {
	args := m.Called(ctx, id)
	partner, _ := args.Get(0).(*entities.Partner)
	return partner, args.Error(1)
}

func (m *PartnerRepository) FindByUsername(ctx context.Context, username string) (*entities.Partner, error) {
	args := m.Called(ctx, username)
	partner, _ := args.Get(0).(*entities.Partner)
	return partner, args.Error(1)
}

func (m *PartnerRepository) FindByEmail(ctx context.Context, email string) (*entities.Partner, error) {
	args := m.Called(ctx, email)
	partner, _ := args.Get(0).(*entities.Partner)
	return partner, args.Error(1)
}

func (m *PartnerRepository) FindOrCreateByNameInTx(ctx context.Context, tx pgx.Tx, name string) (*entities.Partner, error) {
	args := m.Called(ctx, tx, name)
	partner, _ := args.Get(0).(*entities.Partner)
	return partner, args.Error(1)
}

func (m *PartnerRepository) Create(ctx context.Context, partner *entities.Partner) (uint64, error) {
	args := m.Called(ctx, partner)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *PartnerRepository) SetApproved(ctx context.Context, id uint64, approved bool) error {
	return m.Called(ctx, id, approved).Error(0)
}

type NotificationRepository struct{ mock.Mock }

func (m *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *NotificationRepository) ListForRecipient(ctx context.Context, partnerID *uint64, limit uint64) ([]entities.Notification, error) {
	args := m.Called(ctx, partnerID, limit)
	list, _ := args.Get(0).([]entities.Notification)
	return list, args.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, id uint64, partnerID *uint64) error {
	return m.Called(ctx, id, partnerID).Error(0)
}

func (m *NotificationRepository) MarkAllRead(ctx context.Context, partnerID *uint64) (int64, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(int64), args.Error(1)
}

type ReportRepository struct{ mock.Mock }

func (m *ReportRepository) GetReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]entities.ReportItem)
	return items, args.Get(1).(uint64), args.Error(2)
}

func (m *ReportRepository) GetSummary(ctx context.Context, filter entities.ReportFilter, now time.Time) (*entities.ReportSummary, error) {
	args := m.Called(ctx, filter, now)
	summary, _ := args.Get(0).(*entities.ReportSummary)
	return summary, args.Error(1)
}

type HealthRepository struct{ mock.Mock }

func (m *HealthRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type CacheRepository struct{ mock.Mock }

func (m *CacheRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *CacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheRepository) Del(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *CacheRepository) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CacheRepository) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	args := m.Called(ctx, key, expiration)
	return args.Bool(0), args.Error(1)
}

func (m *CacheRepository) TTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}
