package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/entities"
)

const absenceFields = "a.id, a.id_persona, a.id_razon, r.nombre, a.fecha_inicio, a.fecha_fin, " +
	"to_char(a.hora_inicio, 'HH24:MI'), to_char(a.hora_fin, 'HH24:MI'), a.comentario"

type AbsenceRepositoryInterface interface {
	ListReasons(ctx context.Context) ([]entities.AbsenceReason, error)
	FindReason(ctx context.Context, id uint64) (*entities.AbsenceReason, error)
	Create(ctx context.Context, tx pgx.Tx, a entities.Absence) (uint64, error)
	// ListByPerson - отсутствия, пересекающие [from, to]. Нулевые границы не ограничивают.
	ListByPerson(ctx context.Context, personID uint64, from, to time.Time) ([]entities.Absence, error)
}

type absenceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAbsenceRepository(storage *pgxpool.Pool, logger *zap.Logger) AbsenceRepositoryInterface {
	return &absenceRepository{storage: storage, logger: logger}
}

func (r *absenceRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *absenceRepository) ListReasons(ctx context.Context) ([]entities.AbsenceReason, error) {
	query, args, err := psql.Select("id, nombre, activo").
		From("razon_ausencia").
		Where(sq.Eq{"activo": true}).
		OrderBy("nombre ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListReasons: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка выборки razon_ausencia", err)
	}
	reasons, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.AbsenceReason, error) {
		var reason entities.AbsenceReason
		err := row.Scan(&reason.ID, &reason.Name, &reason.Active)
		return reason, err
	})
	if err != nil {
		return nil, wrapReadError("ошибка сканирования razon_ausencia", err)
	}
	return reasons, nil
}

func (r *absenceRepository) FindReason(ctx context.Context, id uint64) (*entities.AbsenceReason, error) {
	query, args, err := psql.Select("id, nombre, activo").From("razon_ausencia").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindReason: %w", err)
	}
	var reason entities.AbsenceReason
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&reason.ID, &reason.Name, &reason.Active); err != nil {
		return nil, wrapReadError("ошибка чтения razon_ausencia", err)
	}
	return &reason, nil
}

func (r *absenceRepository) Create(ctx context.Context, tx pgx.Tx, a entities.Absence) (uint64, error) {
	query, args, err := psql.Insert("ausencia").
		Columns("id_persona", "id_razon", "fecha_inicio", "fecha_fin", "hora_inicio", "hora_fin", "comentario").
		Values(a.PersonID, a.ReasonID, a.StartDate, a.EndDate, a.StartTime.Ptr(), a.EndTime.Ptr(), a.Comment).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, wrapWriteError("ошибка записи ausencia", err)
	}
	return newID, nil
}

func (r *absenceRepository) ListByPerson(ctx context.Context, personID uint64, from, to time.Time) ([]entities.Absence, error) {
	builder := psql.Select(absenceFields).
		From("ausencia a").
		Join("razon_ausencia r ON r.id = a.id_razon").
		Where(sq.Eq{"a.id_persona": personID}).
		OrderBy("a.fecha_inicio DESC", "a.id DESC")
	if !from.IsZero() {
		builder = builder.Where(sq.GtOrEq{"a.fecha_fin": from})
	}
	if !to.IsZero() {
		builder = builder.Where(sq.LtOrEq{"a.fecha_inicio": to})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListByPerson: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка выборки ausencia", err)
	}
	absences, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Absence, error) {
		var a entities.Absence
		err := row.Scan(&a.ID, &a.PersonID, &a.ReasonID, &a.ReasonName, &a.StartDate, &a.EndDate,
			&a.StartTime, &a.EndTime, &a.Comment)
		return a, err
	})
	if err != nil {
		return nil, wrapReadError("ошибка сканирования ausencia", err)
	}
	return absences, nil
}
