package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/repositories"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/utils"
)

const clientSubjectPrefix = "cliente:"

// OrderCreator - создание заявки от имени текущей сессии.
type OrderCreator interface {
	Create(ctx context.Context, data dto.CreateOrderDTO) (*dto.OrderResponseDTO, error)
}

type WebhookServiceInterface interface {
	HandleInboundEmail(ctx context.Context, payload dto.InboundEmailDTO) (*dto.InboundEmailResultDTO, error)
}

type WebhookService struct {
	partnerRepo repositories.PartnerRepositoryInterface
	orders      OrderCreator
	logger      *zap.Logger
}

func NewWebhookService(partnerRepo repositories.PartnerRepositoryInterface, orders OrderCreator, logger *zap.Logger) *WebhookService {
	return &WebhookService{partnerRepo: partnerRepo, orders: orders, logger: logger}
}

// HandleInboundEmail создаёт заявку партнёра из письма. Для неизвестного (или неодобренного)
// отправителя ответ тот же, что и при успехе: по webhook нельзя выяснить, кто зарегистрирован.
func (s *WebhookService) HandleInboundEmail(ctx context.Context, payload dto.InboundEmailDTO) (*dto.InboundEmailResultDTO, error) {
	address, err := mail.ParseAddress(strings.TrimSpace(payload.From))
	if err != nil {
		return nil, apperrors.NewBadRequestError("Некорректный адрес отправителя")
	}

	partner, err := s.partnerRepo.FindByEmail(ctx, address.Address)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Письмо от неизвестного отправителя проигнорировано", zap.String("from", address.Address))
			return &dto.InboundEmailResultDTO{Received: true}, nil
		}
		return nil, err
	}
	if !partner.Approved {
		s.logger.Warn("Письмо от неодобренного партнёра проигнорировано",
			zap.Uint64("partnerID", partner.ID), zap.String("from", address.Address))
		return &dto.InboundEmailResultDTO{Received: true}, nil
	}

	clientName, project := parseSubject(payload.Subject, partner)
	ctx = utils.WithSession(ctx, partnerSession(partner))
	order, err := s.orders.Create(ctx, dto.CreateOrderDTO{
		ClientName: clientName,
		Project:    project,
		Task:       strings.TrimSpace(payload.Body),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заявка создана из письма", zap.String("number", order.Number), zap.Uint64("partnerID", partner.ID))
	return &dto.InboundEmailResultDTO{Received: true, OrderNumber: &order.Number}, nil
}

// parseSubject: "Cliente: Acme - Site novo" даёт клиента "Acme" и проект "Site novo".
// Без префикса клиентом становится сам партнёр, проектом - вся тема.
func parseSubject(subject string, partner *entities.Partner) (client, project string) {
	subject = strings.TrimSpace(subject)
	if len(subject) >= len(clientSubjectPrefix) && strings.EqualFold(subject[:len(clientSubjectPrefix)], clientSubjectPrefix) {
		rest := strings.TrimSpace(subject[len(clientSubjectPrefix):])
		if name, title, ok := strings.Cut(rest, " - "); ok && strings.TrimSpace(name) != "" && strings.TrimSpace(title) != "" {
			return strings.TrimSpace(name), strings.TrimSpace(title)
		}
		if rest != "" {
			return rest, subject
		}
	}
	return partner.Name, subject
}
