package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/pkg/config"
)

// SeedCoreDictionaries наполняет справочники, не имеющие зависимостей от пользователей.
func SeedCoreDictionaries(db *pgxpool.Pool, logger *zap.Logger) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения базовых справочников...")

	if err := seedRoutes(ctx, db, logger); err != nil {
		log.Fatalf("❌ Ошибка наполнения Прав (rutas): %v", err)
	}
	if err := seedDepartmentsAndPositions(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Отделов и Должностей: %v", err)
	}
	if err := seedNamedCatalog(ctx, db, "documento", documentTypesData); err != nil {
		log.Fatalf("❌ Ошибка наполнения Типов документов: %v", err)
	}
	if err := seedNamedCatalog(ctx, db, "razon_ausencia", absenceReasonsData); err != nil {
		log.Fatalf("❌ Ошибка наполнения Причин отсутствия: %v", err)
	}
	log.Println("✅ Наполнение базовых справочников завершено!")
}

// SeedRolesAndAdmin создает роль суперпользователя и администратора.
func SeedRolesAndAdmin(db *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) {
	ctx := context.Background()
	log.Println("▶️  Запуск настройки ролей и администратора...")

	roleID, err := seedSuperuserRole(ctx, db, logger)
	if err != nil {
		log.Fatalf("❌ Ошибка создания роли суперпользователя: %v", err)
	}
	if err := seedAdminUser(ctx, db, cfg.Seed, roleID, logger); err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}

	log.Println("✅ Настройка ролей и администратора завершена!")
}
