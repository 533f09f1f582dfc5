package listeners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"os-tracker/internal/entities"
	"os-tracker/internal/events"
	"os-tracker/internal/repositories"
	"os-tracker/pkg/config"
	"os-tracker/pkg/constants"
	"os-tracker/pkg/eventbus"
	"os-tracker/pkg/mailer"
)

// NotificationListener превращает события заявок во внутренние уведомления и письма.
// Ошибки возвращаются шине, она их только логирует.
type NotificationListener struct {
	notificationRepo repositories.NotificationRepositoryInterface
	partnerRepo      repositories.PartnerRepositoryInterface
	mailer           mailer.Mailer
	mailCfg          config.MailConfig
	logger           *zap.Logger
}

func NewNotificationListener(
	notificationRepo repositories.NotificationRepositoryInterface,
	partnerRepo repositories.PartnerRepositoryInterface,
	m mailer.Mailer,
	mailCfg config.MailConfig,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		notificationRepo: notificationRepo,
		partnerRepo:      partnerRepo,
		mailer:           m,
		mailCfg:          mailCfg,
		logger:           logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrderStatusChanged, l.handleStatusChanged)
	bus.Subscribe(events.OrderApprovalDecided, l.handleApprovalDecided)
	bus.Subscribe(events.OrderSubmitted, l.handleSubmitted)
	l.logger.Info("NotificationListener подписан на события заявок")
}

func (l *NotificationListener) handleStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderStatusChangedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("Смена статуса заявки",
		zap.String("eventID", e.EventID.String()),
		zap.String("number", e.Order.Number),
		zap.String("from", e.OldStatus),
		zap.String("to", e.NewStatus),
	)

	message := fmt.Sprintf("OS %s (%s): status alterado de \"%s\" para \"%s\"",
		e.Order.Number, e.Order.Project, constants.StatusLabel(e.OldStatus), constants.StatusLabel(e.NewStatus))
	if e.ChangedBy != "" {
		message += " por " + e.ChangedBy
	}

	return l.deliver(ctx, e.Order.CreatorPartnerID, e.Order, constants.NotificationStatusChanged,
		fmt.Sprintf("[OS %s] Status: %s", e.Order.Number, constants.StatusLabel(e.NewStatus)), message)
}

func (l *NotificationListener) handleApprovalDecided(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderApprovalDecidedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("Решение по заявке партнёра",
		zap.String("eventID", e.EventID.String()),
		zap.String("number", e.Order.Number),
		zap.Bool("approved", e.Approved),
	)

	kind, verdict := constants.NotificationRefused, "recusada"
	if e.Approved {
		kind, verdict = constants.NotificationApproved, "aprovada"
	}
	message := fmt.Sprintf("Sua OS %s (%s) foi %s", e.Order.Number, e.Order.Project, verdict)
	if e.ApproverName != "" {
		message += " por " + e.ApproverName
	}

	return l.deliver(ctx, e.Order.CreatorPartnerID, e.Order, kind,
		fmt.Sprintf("[OS %s] Solicitação %s", e.Order.Number, verdict), message)
}

func (l *NotificationListener) handleSubmitted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderSubmittedEvent)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Nova OS %s de %s aguardando aprovação: %s (%s)",
		e.Order.Number, e.PartnerName, e.Order.Project, e.Order.ClientName)

	return l.deliver(ctx, nil, e.Order, constants.NotificationNewSubmission,
		fmt.Sprintf("[OS %s] Nova solicitação de %s", e.Order.Number, e.PartnerName), message)
}

// deliver пишет уведомление в базу и отправляет письмо. recipient == nil - администраторам.
// Письмо уходит даже если запись в базу не удалась, и наоборот.
func (l *NotificationListener) deliver(ctx context.Context, recipient *uint64, order events.OrderRef, kind, subject, message string) error {
	orderID := order.ID
	notification := &entities.Notification{
		PartnerID: recipient,
		OrderID:   &orderID,
		Kind:      kind,
		Message:   message,
	}

	var errs []error
	if err := l.notificationRepo.Create(ctx, notification); err != nil {
		errs = append(errs, err)
	}

	to, err := l.recipientEmails(ctx, recipient)
	if err != nil {
		errs = append(errs, err)
	}
	if len(to) > 0 {
		body := message
		if l.mailCfg.AppURL != "" {
			body += "\n\n" + strings.TrimRight(l.mailCfg.AppURL, "/") + fmt.Sprintf("/orders/%d", order.ID)
		}
		if err := l.mailer.Send(ctx, mailer.Message{To: to, Subject: subject, Body: body}); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (l *NotificationListener) recipientEmails(ctx context.Context, recipient *uint64) ([]string, error) {
	if recipient == nil {
		return l.mailCfg.AdminEmails, nil
	}
	partner, err := l.partnerRepo.FindByID(ctx, *recipient)
	if err != nil {
		return nil, fmt.Errorf("не удалось найти получателя %d: %w", *recipient, err)
	}
	if partner.Email == nil || *partner.Email == "" {
		return nil, nil
	}
	return []string{*partner.Email}, nil
}
