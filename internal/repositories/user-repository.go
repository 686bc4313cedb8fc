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
)

const userFields = "id, id_persona, username, password_hash, activo"

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	Create(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error)
	SetActive(ctx context.Context, tx pgx.Tx, id uint64, active bool) error
	UpdatePasswordHash(ctx context.Context, tx pgx.Tx, id uint64, hash string) error
	// DisableByPerson блокирует учётные записи уволенного сотрудника.
	DisableByPerson(ctx context.Context, tx pgx.Tx, personID uint64) ([]uint64, error)
	SetRoles(ctx context.Context, tx pgx.Tx, userID uint64, roleIDs []uint64) error
	SetDirectRoutes(ctx context.Context, tx pgx.Tx, userID uint64, routeIDs []uint64) error
}

type userRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &userRepository{storage: storage, logger: logger}
}

func (r *userRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	if err := row.Scan(&user.ID, &user.PersonID, &user.Username, &user.PasswordHash, &user.Active); err != nil {
		return nil, wrapReadError("ошибка сканирования usuario", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	query, args, err := psql.Select(userFields).From("usuario").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query, args, err := psql.Select(userFields).
		From("usuario").
		Where("LOWER(username) = LOWER(?)", username).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByUsername: %w", err)
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *userRepository) Create(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error) {
	query, args, err := psql.Insert("usuario").
		Columns("id_persona", "username", "password_hash", "activo").
		Values(user.PersonID, user.Username, user.PasswordHash, user.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, wrapWriteError("пользователь с таким логином уже существует", err)
	}
	return newID, nil
}

func (r *userRepository) SetActive(ctx context.Context, tx pgx.Tx, id uint64, active bool) error {
	query, args, err := psql.Update("usuario").Set("activo", active).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса SetActive: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка обновления usuario", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, tx pgx.Tx, id uint64, hash string) error {
	query, args, err := psql.Update("usuario").Set("password_hash", hash).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса UpdatePasswordHash: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка обновления пароля usuario", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) DisableByPerson(ctx context.Context, tx pgx.Tx, personID uint64) ([]uint64, error) {
	query, args, err := psql.Update("usuario").
		Set("activo", false).
		Where(sq.Eq{"id_persona": personID, "activo": true}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса DisableByPerson: %w", err)
	}
	rows, err := r.getQuerier(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapWriteError("ошибка блокировки usuario", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uint64])
	if err != nil {
		return nil, wrapWriteError("ошибка блокировки usuario", err)
	}
	return ids, nil
}

func (r *userRepository) SetRoles(ctx context.Context, tx pgx.Tx, userID uint64, roleIDs []uint64) error {
	return r.replaceLinks(ctx, tx, "usuario_roles", "id_rol", userID, roleIDs)
}

func (r *userRepository) SetDirectRoutes(ctx context.Context, tx pgx.Tx, userID uint64, routeIDs []uint64) error {
	return r.replaceLinks(ctx, tx, "permisos_usuario", "id_ruta", userID, routeIDs)
}

func (r *userRepository) replaceLinks(ctx context.Context, tx pgx.Tx, table, column string, userID uint64, ids []uint64) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id_usuario = $1", table), userID); err != nil {
		return wrapWriteError("ошибка очистки "+table, err)
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([][]interface{}, len(ids))
	for i, id := range ids {
		rows[i] = []interface{}{int64(userID), int64(id)}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, []string{"id_usuario", column}, pgx.CopyFromRows(rows)); err != nil {
		return wrapWriteError("ошибка записи "+table, err)
	}
	return nil
}
