package repositories

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "hr-system/pkg/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// wrapWriteError переводит ошибки pgx при INSERT/UPDATE в доменные.
func wrapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: связанная запись не найдена: %w", op, apperrors.ErrNotFound)
		case pgCheckViolation:
			return apperrors.NewValidationError("%s: нарушено ограничение %s", op, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStorage, err)
}

// wrapDeleteError: внешний ключ при удалении значит "запись используется".
func wrapDeleteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return apperrors.NewHttpError(http.StatusBadRequest, "Запись не может быть удалена, так как она используется", err, nil)
	}
	return wrapWriteError(op, err)
}

// wrapReadError - для выборок: нет строк -> ErrNotFound.
func wrapReadError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStorage, err)
}
