package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/config"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

func seedRoutes(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	log.Println("  - Наполнение таблицы 'rutas'...")
	permissionRepo := repositories.NewPermissionRepository(db, logger)

	keys := make([]string, 0, len(constants.RouteDescriptions))
	for key := range constants.RouteDescriptions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, key := range keys {
		if _, err := permissionRepo.UpsertRoute(ctx, tx, key, constants.RouteDescriptions[key]); err != nil {
			return fmt.Errorf("право %q: %w", key, err)
		}
	}
	return tx.Commit(ctx)
}

// seedSuperuserRole создает роль с правом superuser и возвращает ее id.
func seedSuperuserRole(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) (uint64, error) {
	log.Println("  - Создание роли суперпользователя...")
	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	routeID, err := repositories.NewPermissionRepository(db, logger).
		UpsertRoute(ctx, tx, constants.PermSuperuser, constants.RouteDescriptions[constants.PermSuperuser])
	if err != nil {
		return 0, err
	}

	var roleID uint64
	err = tx.QueryRow(ctx,
		`INSERT INTO roles (nombre, descripcion) VALUES ($1, $2)
		 ON CONFLICT (nombre) DO UPDATE SET activo = TRUE
		 RETURNING id`, superuserRoleName, "Полный доступ ко всем разделам").Scan(&roleID)
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO permiso_rol (id_rol, id_ruta) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		roleID, routeID); err != nil {
		return 0, err
	}
	return roleID, tx.Commit(ctx)
}

func seedAdminUser(ctx context.Context, db *pgxpool.Pool, cfg config.SeedConfig, roleID uint64, logger *zap.Logger) error {
	log.Printf("  - Создание пользователя '%s'...", cfg.AdminUsername)
	userRepo := repositories.NewUserRepository(db, logger)

	_, err := userRepo.FindByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		log.Println("    - Администратор уже существует. Пропускаем.")
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hashedPassword, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	userID, err := userRepo.Create(ctx, tx, entities.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hashedPassword,
		Active:       true,
	})
	if err != nil {
		return err
	}
	if err := userRepo.SetRoles(ctx, tx, userID, []uint64{roleID}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
