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

const partnerSelectSQL = `
	SELECT id, name, username, password_hash, email, approved, created_at
	FROM partners`

type PartnerRepositoryInterface interface {
	List(ctx context.Context) ([]entities.Partner, error)
	FindByID(ctx context.Context, id uint64) (*entities.Partner, error)
	FindByUsername(ctx context.Context, username string) (*entities.Partner, error)
	FindByEmail(ctx context.Context, email string) (*entities.Partner, error)
	FindOrCreateByNameInTx(ctx context.Context, tx pgx.Tx, name string) (*entities.Partner, error)
	Create(ctx context.Context, partner *entities.Partner) (uint64, error)
	SetApproved(ctx context.Context, id uint64, approved bool) error
}

type PartnerRepository struct {
	storage *pgxpool.Pool
}

func NewPartnerRepository(storage *pgxpool.Pool) PartnerRepositoryInterface {
	return &PartnerRepository{storage: storage}
}

func scanPartner(row pgx.Row) (*entities.Partner, error) {
	var p entities.Partner
	if err := row.Scan(&p.ID, &p.Name, &p.Username, &p.PasswordHash, &p.Email, &p.Approved, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PartnerRepository) findOne(ctx context.Context, db DBTX, where string, arg any) (*entities.Partner, error) {
	p, err := scanPartner(db.QueryRow(ctx, partnerSelectSQL+" WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения партнёра: %w", err)
	}
	return p, nil
}

func (r *PartnerRepository) List(ctx context.Context) ([]entities.Partner, error) {
	rows, err := r.storage.Query(ctx, partnerSelectSQL+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка партнёров: %w", err)
	}
	defer rows.Close()

	partners := make([]entities.Partner, 0)
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения партнёра: %w", err)
		}
		partners = append(partners, *p)
	}
	return partners, rows.Err()
}

func (r *PartnerRepository) FindByID(ctx context.Context, id uint64) (*entities.Partner, error) {
	return r.findOne(ctx, r.storage, "id = $1", id)
}

func (r *PartnerRepository) FindByUsername(ctx context.Context, username string) (*entities.Partner, error) {
	return r.findOne(ctx, r.storage, "username = $1", strings.TrimSpace(username))
}

func (r *PartnerRepository) FindByEmail(ctx context.Context, email string) (*entities.Partner, error) {
	return r.findOne(ctx, r.storage, "LOWER(email) = LOWER($1)", strings.TrimSpace(email))
}

// FindOrCreateByNameInTx заводит партнёра без логина и без одобрения, если имени ещё нет.
func (r *PartnerRepository) FindOrCreateByNameInTx(ctx context.Context, tx pgx.Tx, name string) (*entities.Partner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("имя партнёра пустое: %w", apperrors.ErrBadRequest)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO partners (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
		return nil, fmt.Errorf("ошибка создания партнёра %q: %w", name, err)
	}

	p, err := scanPartner(tx.QueryRow(ctx, partnerSelectSQL+" WHERE name = $1", name))
	if err != nil {
		return nil, fmt.Errorf("не удалось найти партнёра %q: %w", name, err)
	}
	return p, nil
}

// Create заводит партнёра с учётными данными. Если запись с таким именем уже есть
// и у неё нет логина (создана как исполнитель), ей выдаются эти учётные данные.
func (r *PartnerRepository) Create(ctx context.Context, partner *entities.Partner) (uint64, error) {
	query := `
		INSERT INTO partners (name, username, password_hash, email, approved)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			username = EXCLUDED.username,
			password_hash = EXCLUDED.password_hash,
			email = EXCLUDED.email,
			approved = EXCLUDED.approved
		WHERE partners.username IS NULL
		RETURNING id, created_at`

	err := r.storage.QueryRow(ctx, query,
		partner.Name, partner.Username, partner.PasswordHash, partner.Email, partner.Approved,
	).Scan(&partner.ID, &partner.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return 0, fmt.Errorf("партнёр %q уже существует: %w", partner.Name, apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания партнёра: %w", err)
	}
	return partner.ID, nil
}

func (r *PartnerRepository) SetApproved(ctx context.Context, id uint64, approved bool) error {
	tag, err := r.storage.Exec(ctx, "UPDATE partners SET approved = $1 WHERE id = $2", approved, id)
	if err != nil {
		return fmt.Errorf("ошибка изменения одобрения партнёра %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
