package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"os-tracker/pkg/config"
	"os-tracker/pkg/database/migrations"
	"os-tracker/pkg/database/postgresql"
	"os-tracker/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runPartners := flag.Bool("partners", false, "Создать демонстрационных партнёров")
	runClients := flag.Bool("clients", false, "Создать демонстрационных клиентов")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -partners -clients)")
	password := flag.String("password", "parceiro123", "Пароль для демонстрационных партнёров")

	flag.Parse()

	if !*runPartners && !*runClients && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -partners")
		log.Println("  go run ./seeders/cmd/seed -all -password segredo")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN, zap.NewExample())
	defer dbPool.Close()

	if err := migrations.Up(dbPool); err != nil {
		log.Fatalf("❌ Ошибка применения миграций: %v", err)
	}

	// Клиенты ссылаются на партнёров.
	if *runAll || *runPartners {
		seeders.SeedPartners(dbPool, *password)
		log.Println("======================================================")
	}
	if *runAll || *runClients {
		seeders.SeedClients(dbPool)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
}
