package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthRepositoryInterface interface {
	Ping(ctx context.Context) error
}

type HealthRepository struct {
	storage *pgxpool.Pool
}

func NewHealthRepository(storage *pgxpool.Pool) HealthRepositoryInterface {
	return &HealthRepository{storage: storage}
}

func (r *HealthRepository) Ping(ctx context.Context) error {
	var one int
	return r.storage.QueryRow(ctx, "SELECT 1").Scan(&one)
}
