package services

import (
	"context"
	"time"

	"os-tracker/internal/dto"
	"os-tracker/internal/repositories"
	"os-tracker/pkg/service"
	"os-tracker/pkg/utils"
)

const notificationListLimit = 100

type NotificationServiceInterface interface {
	List(ctx context.Context) ([]dto.NotificationResponseDTO, error)
	MarkRead(ctx context.Context, id uint64) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type NotificationService struct {
	notificationRepo repositories.NotificationRepositoryInterface
}

func NewNotificationService(notificationRepo repositories.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// recipient: nil для администратора, id партнёра иначе.
func recipient(ctx context.Context) (*uint64, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if p, ok := service.AsPartner(session); ok {
		id := p.PartnerID
		return &id, nil
	}
	return nil, nil
}

func (s *NotificationService) List(ctx context.Context) ([]dto.NotificationResponseDTO, error) {
	to, err := recipient(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.notificationRepo.ListForRecipient(ctx, to, notificationListLimit)
	if err != nil {
		return nil, err
	}

	res := make([]dto.NotificationResponseDTO, 0, len(list))
	for _, n := range list {
		res = append(res, dto.NotificationResponseDTO{
			ID:          n.ID,
			OrderID:     n.OrderID,
			OrderNumber: n.OrderNumber,
			Kind:        n.Kind,
			Message:     n.Message,
			Read:        n.ReadAt != nil,
			CreatedAt:   n.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return res, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint64) error {
	to, err := recipient(ctx)
	if err != nil {
		return err
	}
	return s.notificationRepo.MarkRead(ctx, id, to)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	to, err := recipient(ctx)
	if err != nil {
		return 0, err
	}
	return s.notificationRepo.MarkAllRead(ctx, to)
}
