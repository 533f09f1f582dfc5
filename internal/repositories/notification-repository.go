package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"os-tracker/internal/entities"
	apperrors "os-tracker/pkg/errors"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *entities.Notification) error
	ListForRecipient(ctx context.Context, partnerID *uint64, limit uint64) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id uint64, partnerID *uint64) error
	MarkAllRead(ctx context.Context, partnerID *uint64) (int64, error)
}

type NotificationRepository struct {
	storage *pgxpool.Pool
}

func NewNotificationRepository(storage *pgxpool.Pool) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage}
}

// partnerID == nil - уведомления администраторов.
func recipientCond(column string, partnerID *uint64) sq.Sqlizer {
	if partnerID == nil {
		return sq.Eq{column: nil}
	}
	return sq.Eq{column: *partnerID}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	query := `
		INSERT INTO notifications (partner_id, order_id, kind, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.storage.QueryRow(ctx, query, n.PartnerID, n.OrderID, n.Kind, n.Message).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения уведомления: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, partnerID *uint64, limit uint64) ([]entities.Notification, error) {
	query, args, err := psql.Select(
		"n.id", "n.partner_id", "n.order_id", "o.number", "n.kind", "n.message", "n.read_at", "n.created_at",
	).
		From("notifications n").
		LeftJoin("orders o ON o.id = n.order_id").
		Where(recipientCond("n.partner_id", partnerID)).
		OrderBy("(n.read_at IS NULL) DESC", "n.created_at DESC", "n.id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса уведомлений: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения уведомлений: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Notification, 0)
	for rows.Next() {
		var n entities.Notification
		if err := rows.Scan(&n.ID, &n.PartnerID, &n.OrderID, &n.OrderNumber, &n.Kind, &n.Message, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения уведомления: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uint64, partnerID *uint64) error {
	query, args, err := psql.Update("notifications").
		Set("read_at", sq.Expr("COALESCE(read_at, NOW())")).
		Where(sq.Eq{"id": id}).
		Where(recipientCond("partner_id", partnerID)).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка отметки уведомления %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, partnerID *uint64) (int64, error) {
	query, args, err := psql.Update("notifications").
		Set("read_at", sq.Expr("NOW()")).
		Where(sq.Eq{"read_at": nil}).
		Where(recipientCond("partner_id", partnerID)).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("ошибка отметки уведомлений: %w", err)
	}
	return tag.RowsAffected(), nil
}
