package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/pkg/constants"
	apperrors "os-tracker/pkg/errors"
)

// Ключ advisory-lock для выдачи номеров заявок.
const orderNumberLockKey int64 = 7300001

var orderColumns = []string{
	"o.id", "o.number", "o.client_id", "c.name",
	"o.executor_partner_id", "ep.name", "o.creator_partner_id", "cp.name",
	"o.project", "o.task", "o.notes", "o.checklist", "o.status", "o.urgent",
	"o.created_at", "o.updated_at", "o.scheduled_date", "o.finalized_at",
	"o.first_production_start", "o.accumulated_seconds", "o.current_session_start",
}

const orderJoins = `
	FROM orders o
	JOIN clients c ON c.id = o.client_id
	LEFT JOIN partners ep ON ep.id = o.executor_partner_id
	LEFT JOIN partners cp ON cp.id = o.creator_partner_id`

var orderSelectSQL = "SELECT " + strings.Join(orderColumns, ", ") + orderJoins

// Сначала срочные, потом ждущие одобрения, отклонённые, остальные; внутри групп новые выше.
var orderListOrdering = []string{
	"o.urgent DESC",
	fmt.Sprintf("CASE o.status WHEN '%s' THEN 0 WHEN '%s' THEN 1 ELSE 2 END",
		constants.StatusAwaitingApproval, constants.StatusRefused),
	"o.created_at DESC",
	"o.id DESC",
}

type OrderRepositoryInterface interface {
	List(ctx context.Context, filter dto.OrderFilterDTO) ([]entities.Order, error)
	FindByID(ctx context.Context, id uint64) (*entities.Order, error)
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error)
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error)
	NextNumberInTx(ctx context.Context, tx pgx.Tx) (string, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (uint64, error)
	UpdateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) error
	ListRunningIDs(ctx context.Context) ([]uint64, error)
}

type OrderRepository struct {
	storage *pgxpool.Pool
}

func NewOrderRepository(storage *pgxpool.Pool) OrderRepositoryInterface {
	return &OrderRepository{storage: storage}
}

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var (
		o         entities.Order
		checklist string
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.ClientID, &o.ClientName,
		&o.ExecutorID, &o.ExecutorName, &o.CreatorID, &o.CreatorName,
		&o.Project, &o.Task, &o.Notes, &checklist, &o.Status, &o.Urgent,
		&o.CreatedAt, &o.UpdatedAt, &o.ScheduledDate, &o.FinalizedAt,
		&o.FirstProductionStart, &o.AccumulatedSeconds, &o.CurrentSessionStart,
	)
	if err != nil {
		return nil, err
	}
	o.Checklist = decodeChecklist(checklist)
	return &o, nil
}

func (r *OrderRepository) List(ctx context.Context, filter dto.OrderFilterDTO) ([]entities.Order, error) {
	builder := psql.Select(orderColumns...).
		From("orders o").
		Join("clients c ON c.id = o.client_id").
		LeftJoin("partners ep ON ep.id = o.executor_partner_id").
		LeftJoin("partners cp ON cp.id = o.creator_partner_id")

	if len(filter.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"o.status": filter.Statuses})
	}
	if filter.ClientID != nil {
		builder = builder.Where(sq.Eq{"o.client_id": *filter.ClientID})
	}
	if filter.PartnerID != nil {
		builder = builder.Where(sq.Or{
			sq.Eq{"o.executor_partner_id": *filter.PartnerID},
			sq.Eq{"o.creator_partner_id": *filter.PartnerID},
		})
	}
	if filter.Urgent != nil {
		builder = builder.Where(sq.Eq{"o.urgent": *filter.Urgent})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"o.number": pattern},
			sq.ILike{"o.project": pattern},
			sq.ILike{"o.task": pattern},
			sq.ILike{"c.name": pattern},
		})
	}

	query, args, err := builder.OrderBy(orderListOrdering...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса списка заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения заявки: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по заявкам: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) findOne(ctx context.Context, db DBTX, query string, id uint64) (*entities.Order, error) {
	order, err := scanOrder(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения заявки %d: %w", id, err)
	}
	return order, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*entities.Order, error) {
	return r.findOne(ctx, r.storage, orderSelectSQL+" WHERE o.id = $1", id)
}

func (r *OrderRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	return r.findOne(ctx, tx, orderSelectSQL+" WHERE o.id = $1", id)
}

// FindForUpdateInTx блокирует строку заявки до конца транзакции.
func (r *OrderRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	return r.findOne(ctx, tx, orderSelectSQL+" WHERE o.id = $1 FOR UPDATE OF o", id)
}

// NextNumberInTx выдаёт следующий номер: max(числовой номер)+1 с нулями минимум до шести знаков.
// После 999999 номер просто становится длиннее.
// Advisory-lock держится до конца транзакции, поэтому параллельные создания идут по очереди.
func (r *OrderRepository) NextNumberInTx(ctx context.Context, tx pgx.Tx) (string, error) {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", orderNumberLockKey); err != nil {
		return "", fmt.Errorf("не удалось получить блокировку номера: %w", err)
	}

	var next int64
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(number::BIGINT), 0) + 1 FROM orders WHERE number ~ '^[0-9]+$'`,
	).Scan(&next)
	if err != nil {
		return "", fmt.Errorf("не удалось вычислить номер заявки: %w", err)
	}
	return fmt.Sprintf("%0*d", constants.OrderNumberWidth, next), nil
}

func (r *OrderRepository) CreateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (uint64, error) {
	checklist, err := encodeChecklist(order.Checklist)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO orders (
			number, client_id, executor_partner_id, creator_partner_id,
			project, task, notes, checklist, status, urgent, scheduled_date,
			finalized_at, first_production_start, accumulated_seconds, current_session_start,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING id`

	var id uint64
	err = tx.QueryRow(ctx, query,
		order.Number, order.ClientID, order.ExecutorID, order.CreatorID,
		order.Project, order.Task, order.Notes, checklist, order.Status, order.Urgent, order.ScheduledDate,
		order.FinalizedAt, order.FirstProductionStart, order.AccumulatedSeconds, order.CurrentSessionStart,
		order.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("номер заявки %s уже занят: %w", order.Number, apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}
	if id == 0 {
		return 0, errors.New("база не вернула id созданной заявки")
	}
	return id, nil
}

// UpdateInTx сохраняет все изменяемые поля. Номер и автор не меняются никогда.
func (r *OrderRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) error {
	checklist, err := encodeChecklist(order.Checklist)
	if err != nil {
		return err
	}

	query := `
		UPDATE orders SET
			client_id = $1, executor_partner_id = $2, project = $3, task = $4, notes = $5,
			checklist = $6, status = $7, urgent = $8, scheduled_date = $9, finalized_at = $10,
			first_production_start = $11, accumulated_seconds = $12, current_session_start = $13,
			updated_at = NOW()
		WHERE id = $14`

	tag, err := tx.Exec(ctx, query,
		order.ClientID, order.ExecutorID, order.Project, order.Task, order.Notes,
		checklist, order.Status, order.Urgent, order.ScheduledDate, order.FinalizedAt,
		order.FirstProductionStart, order.AccumulatedSeconds, order.CurrentSessionStart,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления заявки %d: %w", order.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) ListRunningIDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT id FROM orders WHERE status = $1 AND current_session_start IS NOT NULL ORDER BY id",
		constants.StatusInProduction,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска заявок в производстве: %w", err)
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
