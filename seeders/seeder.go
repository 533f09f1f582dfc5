package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"os-tracker/pkg/utils"
)

// SeedPartners создаёт одобренных демонстрационных партнёров. Существующие (по имени) не трогаются.
func SeedPartners(db *pgxpool.Pool, password string) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения партнёров...")

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("❌ Ошибка хеширования пароля: %v", err)
	}

	for _, p := range partnersData {
		if err := seedPartner(ctx, db, p, hash); err != nil {
			log.Fatalf("❌ Ошибка создания партнёра %q: %v", p.Name, err)
		}
	}
	log.Println("✅ Наполнение партнёров завершено!")
}

func seedPartner(ctx context.Context, db *pgxpool.Pool, p partnerSeed, hash string) error {
	tag, err := db.Exec(ctx, `
		INSERT INTO partners (name, username, password_hash, email, approved)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (name) DO NOTHING`,
		p.Name, p.Username, hash, p.Email,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Printf("    - Партнёр %q уже существует. Пропускаем.", p.Name)
		return nil
	}
	log.Printf("  - Партнёр %q (логин %s) создан", p.Name, p.Username)
	return nil
}

// SeedClients создаёт клиентов и привязывает их к партнёрам-источникам.
func SeedClients(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения клиентов...")

	for _, c := range clientsData {
		if err := seedClient(ctx, db, c); err != nil {
			log.Fatalf("❌ Ошибка создания клиента %q: %v", c.Name, err)
		}
	}
	log.Println("✅ Наполнение клиентов завершено!")
}

func seedClient(ctx context.Context, db *pgxpool.Pool, c clientSeed) error {
	var partnerID *uint64
	if c.Partner != "" {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM partners WHERE name = $1", c.Partner).Scan(&id)
		if err != nil {
			return fmt.Errorf("не найден партнёр %q (запустите -partners): %w", c.Partner, err)
		}
		partnerID = &id
	}

	_, err := db.Exec(ctx, `
		INSERT INTO clients (name, originating_partner_id)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING`,
		c.Name, partnerID,
	)
	return err
}
