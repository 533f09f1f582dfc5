package migrations

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

// Up применяет все миграции из sql/ к базе, на которую смотрит пул.
func Up(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: не удалось выбрать диалект: %w", err)
	}
	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("goose: ошибка применения миграций: %w", err)
	}
	return nil
}
