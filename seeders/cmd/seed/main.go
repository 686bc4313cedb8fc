package main

import (
	"context"
	"flag"
	"log"

	"hr-system/migrations"
	"hr-system/pkg/config"
	"hr-system/pkg/database/postgresql"
	applogger "hr-system/pkg/logger"
	"hr-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runMigrate := flag.Bool("migrate", false, "Применить миграции goose перед сидерами")
	runStatus := flag.Bool("status", false, "Показать состояние миграций")
	runCore := flag.Bool("core", false, "Наполнить справочники (права, отделы, должности, документы, причины отсутствия)")
	runAdmin := flag.Bool("admin", false, "Создать роль суперпользователя и администратора")
	runAll := flag.Bool("all", false, "Запустить все шаги (эквивалентно -migrate -core -admin)")

	flag.Parse()

	if !*runMigrate && !*runStatus && !*runCore && !*runAdmin && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -migrate -core")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log).Named("seed")
	defer logger.Sync()

	dbPool := postgresql.ConnectDB(cfg.Postgres, logger)
	defer dbPool.Close()

	log.Println("======================================================")

	if *runAll || *runMigrate {
		if err := migrations.Up(context.Background(), dbPool); err != nil {
			log.Fatalf("❌ Ошибка применения миграций: %v", err)
		}
		log.Println("✅ Миграции применены")
		log.Println("======================================================")
	}

	if *runStatus {
		if err := migrations.Status(context.Background(), dbPool); err != nil {
			log.Fatalf("❌ Ошибка чтения состояния миграций: %v", err)
		}
	}

	if *runAll || *runCore {
		seeders.SeedCoreDictionaries(dbPool, logger)
		log.Println("======================================================")
	}

	if *runAll || *runAdmin {
		// роль суперпользователя опирается на rutas из -core
		seeders.SeedRolesAndAdmin(dbPool, cfg, logger)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
