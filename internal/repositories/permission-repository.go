package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/entities"
)

// PermissionRepositoryInterface - справочник ключей прав (rutas) и итоговые права пользователя.
type PermissionRepositoryInterface interface {
	ListRoutes(ctx context.Context) ([]entities.Route, error)
	// UpsertRoute нужен сидеру: создаёт ключ или обновляет описание.
	UpsertRoute(ctx context.Context, tx pgx.Tx, key, description string) (uint64, error)
	// CountRoutes - сколько из переданных id реально существует.
	CountRoutes(ctx context.Context, tx pgx.Tx, ids []uint64) (int, error)
	// GetUserPermissionKeys - объединение прав ролей и прямых прав пользователя.
	GetUserPermissionKeys(ctx context.Context, userID uint64) ([]string, error)
}

type permissionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPermissionRepository(storage *pgxpool.Pool, logger *zap.Logger) PermissionRepositoryInterface {
	return &permissionRepository{storage: storage, logger: logger}
}

func (r *permissionRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanRoute(row pgx.CollectableRow) (entities.Route, error) {
	var route entities.Route
	err := row.Scan(&route.ID, &route.Key, &route.Description)
	return route, err
}

func (r *permissionRepository) ListRoutes(ctx context.Context) ([]entities.Route, error) {
	rows, err := r.storage.Query(ctx, "SELECT id, ruta, descripcion FROM rutas ORDER BY ruta")
	if err != nil {
		return nil, wrapReadError("ошибка выборки rutas", err)
	}
	routes, err := pgx.CollectRows(rows, scanRoute)
	if err != nil {
		return nil, wrapReadError("ошибка сканирования rutas", err)
	}
	return routes, nil
}

func (r *permissionRepository) UpsertRoute(ctx context.Context, tx pgx.Tx, key, description string) (uint64, error) {
	query, args, err := psql.Insert("rutas").
		Columns("ruta", "descripcion").
		Values(key, description).
		Suffix("ON CONFLICT (ruta) DO UPDATE SET descripcion = EXCLUDED.descripcion RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса UpsertRoute: %w", err)
	}
	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, wrapWriteError("ошибка записи rutas", err)
	}
	return id, nil
}

func (r *permissionRepository) CountRoutes(ctx context.Context, tx pgx.Tx, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := psql.Select("COUNT(*)").From("rutas").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки SQL CountRoutes: %w", err)
	}
	var count int
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, wrapReadError("ошибка подсчета rutas", err)
	}
	return count, nil
}

// Этот метод нужен для быстрой авторизации
func (r *permissionRepository) GetUserPermissionKeys(ctx context.Context, userID uint64) ([]string, error) {
	const query = `
		SELECT ru.ruta FROM rutas ru
		JOIN permiso_rol pr ON pr.id_ruta = ru.id
		JOIN usuario_roles ur ON ur.id_rol = pr.id_rol
		JOIN roles ro ON ro.id = ur.id_rol AND ro.activo
		WHERE ur.id_usuario = $1
		UNION
		SELECT ru.ruta FROM rutas ru
		JOIN permisos_usuario pu ON pu.id_ruta = ru.id
		WHERE pu.id_usuario = $1
		ORDER BY 1`

	rows, err := r.storage.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapReadError("ошибка выборки прав пользователя", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapReadError("ошибка сканирования прав пользователя", err)
	}

	r.logger.Debug("Права пользователя загружены", zap.Uint64("userID", userID), zap.Int("count", len(keys)))
	return keys, nil
}
