package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/events"
	"os-tracker/internal/repositories"
	"os-tracker/pkg/constants"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/eventbus"
	"os-tracker/pkg/service"
	"os-tracker/pkg/utils"
)

type OrderServiceInterface interface {
	Create(ctx context.Context, data dto.CreateOrderDTO) (*dto.OrderResponseDTO, error)
	Update(ctx context.Context, id uint64, data dto.UpdateOrderDTO) (*dto.OrderResponseDTO, error)
	List(ctx context.Context, filter dto.OrderFilterDTO) ([]dto.OrderResponseDTO, error)
	Get(ctx context.Context, id uint64) (*dto.OrderResponseDTO, error)
	SetStatus(ctx context.Context, id uint64, status string) (*dto.OrderResponseDTO, error)
	ToggleTimer(ctx context.Context, id uint64, action string) (*dto.OrderResponseDTO, error)
	UpdateChecklist(ctx context.Context, id uint64, items []dto.ChecklistItemDTO) (*dto.OrderResponseDTO, error)
	SetUrgent(ctx context.Context, id uint64, urgent bool) (*dto.OrderResponseDTO, error)
}

type OrderService struct {
	txManager   repositories.TxManagerInterface
	orderRepo   repositories.OrderRepositoryInterface
	clientRepo  repositories.ClientRepositoryInterface
	partnerRepo repositories.PartnerRepositoryInterface
	publisher   eventbus.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

func NewOrderService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	clientRepo repositories.ClientRepositoryInterface,
	partnerRepo repositories.PartnerRepositoryInterface,
	publisher eventbus.Publisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		txManager:   txManager,
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
		partnerRepo: partnerRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// canAccess: администратор видит всё, партнёр - заявки, где он автор или исполнитель.
func canAccess(session service.Session, order *entities.Order) bool {
	partner, ok := service.AsPartner(session)
	if !ok {
		return true
	}
	return (order.ExecutorID != nil && *order.ExecutorID == partner.PartnerID) ||
		(order.CreatorID != nil && *order.CreatorID == partner.PartnerID)
}

func requireAdmin(session service.Session) error {
	if !service.IsAdmin(session) {
		return apperrors.ErrForbidden
	}
	return nil
}

func orderRef(o *entities.Order) events.OrderRef {
	return events.OrderRef{
		ID:                o.ID,
		Number:            o.Number,
		ClientName:        o.ClientName,
		Project:           o.Project,
		CreatorPartnerID:  o.CreatorID,
		ExecutorPartnerID: o.ExecutorID,
	}
}

func (s *OrderService) Create(ctx context.Context, data dto.CreateOrderDTO) (*dto.OrderResponseDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	scheduled, err := utils.ParseDate(strings.TrimSpace(data.ScheduledDate.String))
	if err != nil {
		return nil, apperrors.NewInvalidInputError("Некорректная дата: %s", data.ScheduledDate.String)
	}

	initialStatus := data.Status
	if initialStatus == "" {
		initialStatus = constants.StatusQueued
	}
	if !constants.IsValidStatus(initialStatus) {
		return nil, apperrors.ErrInvalidStatus
	}

	var creatorID *uint64
	partnerSession, isPartner := service.AsPartner(session)
	if isPartner {
		id := partnerSession.PartnerID
		creatorID = &id
		initialStatus = constants.StatusAwaitingApproval
	}

	var created *entities.Order
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		client, err := s.clientRepo.FindOrCreateInTx(ctx, tx, data.ClientName, creatorID)
		if err != nil {
			return err
		}

		order := &entities.Order{
			ClientID:      client.ID,
			CreatorID:     creatorID,
			Project:       strings.TrimSpace(data.Project),
			Task:          strings.TrimSpace(data.Task),
			Notes:         data.Notes,
			Checklist:     dto.ChecklistFromDTO(data.Checklist),
			Urgent:        data.Urgent,
			ScheduledDate: scheduled,
			CreatedAt:     s.now(),
		}

		if name := strings.TrimSpace(utils.DerefString(data.ExecutorName)); name != "" {
			executor, err := s.partnerRepo.FindOrCreateByNameInTx(ctx, tx, name)
			if err != nil {
				return err
			}
			order.ExecutorID = &executor.ID
		}

		order.ChangeStatus(initialStatus, order.CreatedAt)

		if order.Number, err = s.orderRepo.NextNumberInTx(ctx, tx); err != nil {
			return err
		}
		id, err := s.orderRepo.CreateInTx(ctx, tx, order)
		if err != nil {
			return err
		}
		created, err = s.orderRepo.FindByIDInTx(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Error("Ошибка создания заявки", zap.String("client", data.ClientName), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Заявка создана",
		zap.String("number", created.Number),
		zap.String("status", created.Status),
		zap.String("by", session.Username()),
	)
	if isPartner {
		s.publisher.Publish(ctx, events.OrderSubmittedEvent{
			EventID:     uuid.New(),
			Order:       orderRef(created),
			PartnerName: partnerSession.Name,
		})
	}

	res := dto.NewOrderResponse(created)
	return &res, nil
}

// Update - редактирование администратором. Клиент и исполнитель ищутся (или создаются) по имени,
// смена статуса идёт через те же правила и уведомления, что и SetStatus.
func (s *OrderService) Update(ctx context.Context, id uint64, data dto.UpdateOrderDTO) (*dto.OrderResponseDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	var scheduled *time.Time
	if data.ScheduledDate != nil {
		if scheduled, err = utils.ParseDate(strings.TrimSpace(*data.ScheduledDate)); err != nil {
			return nil, apperrors.NewInvalidInputError("Некорректная дата: %s", *data.ScheduledDate)
		}
	}
	if data.Status != nil && !constants.IsValidStatus(*data.Status) {
		return nil, apperrors.ErrInvalidStatus
	}

	var (
		updated   *entities.Order
		oldStatus string
	)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		oldStatus = order.Status
		now := s.now()

		if data.ClientName != nil {
			client, err := s.clientRepo.FindOrCreateInTx(ctx, tx, *data.ClientName, nil)
			if err != nil {
				return err
			}
			order.ClientID = client.ID
		}
		if data.ExecutorName != nil {
			order.ExecutorID = nil
			if name := strings.TrimSpace(*data.ExecutorName); name != "" {
				executor, err := s.partnerRepo.FindOrCreateByNameInTx(ctx, tx, name)
				if err != nil {
					return err
				}
				order.ExecutorID = &executor.ID
			}
		}
		if data.Project != nil {
			order.Project = strings.TrimSpace(*data.Project)
		}
		if data.Task != nil {
			order.Task = strings.TrimSpace(*data.Task)
		}
		if data.Notes != nil {
			order.Notes = *data.Notes
		}
		if data.Checklist != nil {
			order.Checklist = dto.ChecklistFromDTO(*data.Checklist)
		}
		if data.Urgent != nil {
			order.Urgent = *data.Urgent
		}
		if data.ScheduledDate != nil {
			order.ScheduledDate = scheduled
		}
		if data.Status != nil {
			order.ChangeStatus(*data.Status, now)
		}

		if err := s.orderRepo.UpdateInTx(ctx, tx, order); err != nil {
			return err
		}
		updated, err = s.orderRepo.FindByIDInTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заявка обновлена", zap.String("number", updated.Number), zap.String("by", session.Username()))
	s.publishStatusChange(ctx, oldStatus, updated, session.Username())
	res := dto.NewOrderResponse(updated)
	return &res, nil
}

func (s *OrderService) List(ctx context.Context, filter dto.OrderFilterDTO) ([]dto.OrderResponseDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if partner, ok := service.AsPartner(session); ok {
		id := partner.PartnerID
		filter.PartnerID = &id
	}
	for _, status := range filter.Statuses {
		if !constants.IsValidStatus(status) {
			return nil, apperrors.ErrInvalidStatus
		}
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderListResponse(orders), nil
}

func (s *OrderService) Get(ctx context.Context, id uint64) (*dto.OrderResponseDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Чужая заявка для партнёра выглядит как несуществующая.
	if !canAccess(session, order) {
		return nil, apperrors.ErrNotFound
	}
	res := dto.NewOrderResponse(order)
	return &res, nil
}

// mutate - общий каркас для изменений одной заявки: блокировка строки, проверка доступа,
// apply, сохранение и повторное чтение. Если apply вернул false, в базу ничего не пишется.
func (s *OrderService) mutate(
	ctx context.Context,
	id uint64,
	apply func(session service.Session, order *entities.Order, now time.Time) (bool, error),
) (before entities.Order, after *entities.Order, changed bool, err error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return before, nil, false, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !canAccess(session, order) {
			return apperrors.ErrNotFound
		}
		before = *order

		changed, err = apply(session, order, s.now())
		if err != nil {
			return err
		}
		if !changed {
			after = order
			return nil
		}

		if err := s.orderRepo.UpdateInTx(ctx, tx, order); err != nil {
			return err
		}
		after, err = s.orderRepo.FindByIDInTx(ctx, tx, id)
		return err
	})
	return before, after, changed, err
}

func isApprovalDecision(from, to string) bool {
	return from == constants.StatusAwaitingApproval &&
		(to == constants.StatusQueued || to == constants.StatusRefused)
}

// publishStatusChange публикует ровно одно событие о смене статуса: решение по заявке партнёра
// или общее изменение. Без смены статуса ничего не публикуется.
func (s *OrderService) publishStatusChange(ctx context.Context, oldStatus string, after *entities.Order, by string) {
	if oldStatus == after.Status {
		return
	}

	s.logger.Info("Статус заявки изменён",
		zap.String("number", after.Number),
		zap.String("from", oldStatus),
		zap.String("to", after.Status),
		zap.String("by", by),
	)

	if isApprovalDecision(oldStatus, after.Status) {
		s.publisher.Publish(ctx, events.OrderApprovalDecidedEvent{
			EventID:      uuid.New(),
			Order:        orderRef(after),
			Approved:     after.Status == constants.StatusQueued,
			ApproverName: by,
		})
		return
	}
	s.publisher.Publish(ctx, events.OrderStatusChangedEvent{
		EventID:   uuid.New(),
		Order:     orderRef(after),
		OldStatus: oldStatus,
		NewStatus: after.Status,
		ChangedBy: by,
	})
}

// SetStatus меняет только статус. Решение по заявке партнёра (одобрить/отклонить)
// и любые переходы из/в ожидание одобрения доступны только администратору.
func (s *OrderService) SetStatus(ctx context.Context, id uint64, status string) (*dto.OrderResponseDTO, error) {
	if !constants.IsValidStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	var changedBy string
	before, after, changed, err := s.mutate(ctx, id, func(session service.Session, order *entities.Order, now time.Time) (bool, error) {
		if order.Status == status {
			return false, nil
		}
		if !service.IsAdmin(session) {
			switch {
			case order.Status == constants.StatusAwaitingApproval,
				order.Status == constants.StatusRefused,
				status == constants.StatusAwaitingApproval,
				status == constants.StatusRefused:
				return false, apperrors.ErrForbidden
			}
		}
		changedBy = session.Username()
		return order.ChangeStatus(status, now), nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		res := dto.NewOrderResponse(after)
		return &res, nil
	}

	s.publishStatusChange(ctx, before.Status, after, changedBy)

	res := dto.NewOrderResponse(after)
	return &res, nil
}

// ToggleTimer запускает или ставит на паузу таймер производства. Лишние действия
// (повторный старт, пауза остановленного, старт в закрытом статусе) молча игнорируются.
func (s *OrderService) ToggleTimer(ctx context.Context, id uint64, action string) (*dto.OrderResponseDTO, error) {
	after, _, err := s.toggle(ctx, id, action)
	if err != nil {
		return nil, err
	}
	res := dto.NewOrderResponse(after)
	return &res, nil
}

// PauseRunning ставит заявку на паузу от имени планировщика. Возвращает true, если таймер шёл.
func (s *OrderService) PauseRunning(ctx context.Context, id uint64) (bool, error) {
	ctx = utils.WithSession(ctx, service.AdminSession{Name: "cron"})
	_, changed, err := s.toggle(ctx, id, constants.TimerPause)
	if err != nil {
		return false, fmt.Errorf("пауза заявки %d: %w", id, err)
	}
	return changed, nil
}

func (s *OrderService) toggle(ctx context.Context, id uint64, action string) (*entities.Order, bool, error) {
	if action != constants.TimerStart && action != constants.TimerPause {
		return nil, false, apperrors.ErrInvalidTimerAction
	}

	_, after, changed, err := s.mutate(ctx, id, func(_ service.Session, order *entities.Order, now time.Time) (bool, error) {
		if action == constants.TimerStart {
			return order.StartTimer(now), nil
		}
		return order.PauseTimer(now), nil
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		s.logger.Info("Таймер заявки переключён",
			zap.String("number", after.Number),
			zap.String("action", action),
			zap.Int64("accumulated", after.AccumulatedSeconds),
		)
	} else {
		s.logger.Debug("Действие таймера проигнорировано", zap.Uint64("orderID", id), zap.String("action", action))
	}
	return after, changed, nil
}

func (s *OrderService) UpdateChecklist(ctx context.Context, id uint64, items []dto.ChecklistItemDTO) (*dto.OrderResponseDTO, error) {
	_, after, _, err := s.mutate(ctx, id, func(_ service.Session, order *entities.Order, _ time.Time) (bool, error) {
		order.Checklist = dto.ChecklistFromDTO(items)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	res := dto.NewOrderResponse(after)
	return &res, nil
}

func (s *OrderService) SetUrgent(ctx context.Context, id uint64, urgent bool) (*dto.OrderResponseDTO, error) {
	_, after, _, err := s.mutate(ctx, id, func(session service.Session, order *entities.Order, _ time.Time) (bool, error) {
		if err := requireAdmin(session); err != nil {
			return false, err
		}
		if order.Urgent == urgent {
			return false, nil
		}
		order.Urgent = urgent
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	res := dto.NewOrderResponse(after)
	return &res, nil
}
