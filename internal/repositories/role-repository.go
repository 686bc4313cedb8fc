package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/entities"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
)

var roleListParams = ListParams{
	AllowedFilters: map[string]string{"id": "id", "activo": "activo"},
	SearchColumns:  []string{"nombre", "descripcion"},
	AllowedSort:    map[string]string{"id": "id", "nombre": "nombre"},
	DefaultSort:    "nombre ASC",
}

type RoleRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error)
	// FindByID возвращает роль вместе с выданными ей правами.
	FindByID(ctx context.Context, id uint64) (*entities.Role, error)
	Create(ctx context.Context, tx pgx.Tx, role entities.Role) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, role entities.Role) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	// SetRoutes полностью заменяет права роли.
	SetRoutes(ctx context.Context, tx pgx.Tx, roleID uint64, routeIDs []uint64) error
	UserIDsByRole(ctx context.Context, tx pgx.Tx, roleID uint64) ([]uint64, error)
}

type roleRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRoleRepository(storage *pgxpool.Pool, logger *zap.Logger) RoleRepositoryInterface {
	return &roleRepository{storage: storage, logger: logger}
}

func (r *roleRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanRole(row pgx.CollectableRow) (entities.Role, error) {
	var role entities.Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.Active)
	return role, err
}

func (r *roleRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error) {
	countQuery, countArgs, err := applyConditions(psql.Select("COUNT(*)").From("roles"), filter, roleListParams).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapReadError("ошибка подсчета ролей", err)
	}
	if total == 0 {
		return []entities.Role{}, 0, nil
	}

	builder := applyConditions(psql.Select("id, nombre, descripcion, activo").From("roles"), filter, roleListParams)
	query, args, err := applySortAndPaging(builder, filter, roleListParams).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapReadError("ошибка выборки ролей", err)
	}
	roles, err := pgx.CollectRows(rows, scanRole)
	if err != nil {
		return nil, 0, wrapReadError("ошибка сканирования ролей", err)
	}
	return roles, total, nil
}

func (r *roleRepository) FindByID(ctx context.Context, id uint64) (*entities.Role, error) {
	query, args, err := psql.Select("id, nombre, descripcion, activo").From("roles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка чтения роли", err)
	}
	role, err := pgx.CollectExactlyOneRow(rows, scanRole)
	if err != nil {
		return nil, wrapReadError("ошибка чтения роли", err)
	}

	routesQuery, routesArgs, err := psql.Select("ru.id, ru.ruta, ru.descripcion").
		From("permiso_rol pr").
		Join("rutas ru ON ru.id = pr.id_ruta").
		Where(sq.Eq{"pr.id_rol": id}).
		OrderBy("ru.ruta ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL routes: %w", err)
	}
	routeRows, err := r.storage.Query(ctx, routesQuery, routesArgs...)
	if err != nil {
		return nil, wrapReadError("ошибка выборки прав роли", err)
	}
	role.Routes, err = pgx.CollectRows(routeRows, scanRoute)
	if err != nil {
		return nil, wrapReadError("ошибка сканирования прав роли", err)
	}
	return &role, nil
}

func (r *roleRepository) Create(ctx context.Context, tx pgx.Tx, role entities.Role) (uint64, error) {
	query, args, err := psql.Insert("roles").
		Columns("nombre", "descripcion", "activo").
		Values(role.Name, role.Description, role.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, wrapWriteError("роль с таким названием уже существует", err)
	}
	return newID, nil
}

func (r *roleRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, role entities.Role) error {
	query, args, err := psql.Update("roles").
		Set("nombre", role.Name).
		Set("descripcion", role.Description).
		Set("activo", role.Active).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка обновления роли", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *roleRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete("roles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapDeleteError("ошибка удаления роли", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *roleRepository) SetRoutes(ctx context.Context, tx pgx.Tx, roleID uint64, routeIDs []uint64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM permiso_rol WHERE id_rol = $1", roleID); err != nil {
		return wrapWriteError("ошибка очистки прав роли", err)
	}
	if len(routeIDs) == 0 {
		return nil
	}
	rows := make([][]interface{}, len(routeIDs))
	for i, routeID := range routeIDs {
		rows[i] = []interface{}{int64(roleID), int64(routeID)}
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{"permiso_rol"}, []string{"id_rol", "id_ruta"}, pgx.CopyFromRows(rows))
	if err != nil {
		return wrapWriteError("ошибка выдачи прав роли", err)
	}
	return nil
}

func (r *roleRepository) UserIDsByRole(ctx context.Context, tx pgx.Tx, roleID uint64) ([]uint64, error) {
	rows, err := r.getQuerier(tx).Query(ctx, "SELECT id_usuario FROM usuario_roles WHERE id_rol = $1", roleID)
	if err != nil {
		return nil, wrapReadError("ошибка выборки пользователей роли", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uint64])
	if err != nil {
		return nil, wrapReadError("ошибка сканирования пользователей роли", err)
	}
	return ids, nil
}
