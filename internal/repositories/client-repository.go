package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"os-tracker/internal/entities"
	apperrors "os-tracker/pkg/errors"
)

const clientSelectSQL = `
	SELECT c.id, c.name, c.originating_partner_id, p.name, c.created_at
	FROM clients c
	LEFT JOIN partners p ON p.id = c.originating_partner_id`

type ClientRepositoryInterface interface {
	List(ctx context.Context) ([]entities.Client, error)
	FindByID(ctx context.Context, id uint64) (*entities.Client, error)
	FindOrCreateInTx(ctx context.Context, tx pgx.Tx, name string, originatingPartnerID *uint64) (*entities.Client, error)
	Rename(ctx context.Context, id uint64, name string) error
}

type ClientRepository struct {
	storage *pgxpool.Pool
}

func NewClientRepository(storage *pgxpool.Pool) ClientRepositoryInterface {
	return &ClientRepository{storage: storage}
}

func scanClient(row pgx.Row) (*entities.Client, error) {
	var c entities.Client
	if err := row.Scan(&c.ID, &c.Name, &c.OriginatingPartnerID, &c.OriginatingPartnerName, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]entities.Client, error) {
	rows, err := r.storage.Query(ctx, clientSelectSQL+" ORDER BY c.name")
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка клиентов: %w", err)
	}
	defer rows.Close()

	clients := make([]entities.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения клиента: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) FindByID(ctx context.Context, id uint64) (*entities.Client, error) {
	c, err := scanClient(r.storage.QueryRow(ctx, clientSelectSQL+" WHERE c.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения клиента %d: %w", id, err)
	}
	return c, nil
}

// FindOrCreateInTx ищет клиента по точному имени и создаёт, если его нет.
// ON CONFLICT DO NOTHING дожидается параллельной вставки того же имени, после чего строка читается заново.
func (r *ClientRepository) FindOrCreateInTx(ctx context.Context, tx pgx.Tx, name string, originatingPartnerID *uint64) (*entities.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("имя клиента пустое: %w", apperrors.ErrBadRequest)
	}

	_, err := tx.Exec(ctx,
		"INSERT INTO clients (name, originating_partner_id) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING",
		name, originatingPartnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента %q: %w", name, err)
	}

	c, err := scanClient(tx.QueryRow(ctx, clientSelectSQL+" WHERE c.name = $1", name))
	if err != nil {
		return nil, fmt.Errorf("не удалось найти клиента %q: %w", name, err)
	}
	return c, nil
}

func (r *ClientRepository) Rename(ctx context.Context, id uint64, name string) error {
	tag, err := r.storage.Exec(ctx, "UPDATE clients SET name = $1 WHERE id = $2", name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("клиент %q уже существует: %w", name, apperrors.ErrConflict)
		}
		return fmt.Errorf("ошибка переименования клиента %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
