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

const positionAssignmentFields = "id, id_persona, id_puesto, fecha_inicio, fecha_fin, activo"

type PositionAssignmentRepositoryInterface interface {
	// FindActive возвращает ErrNotFound, если активной должности нет.
	FindActive(ctx context.Context, tx pgx.Tx, personID uint64) (*entities.PositionAssignment, error)
	// Replace снимает активную должность датой date и, если positionID != nil,
	// открывает новую с той же даты.
	Replace(ctx context.Context, tx pgx.Tx, personID uint64, positionID *uint64, date time.Time) error
	History(ctx context.Context, personID uint64) ([]entities.PositionAssignment, error)
}

type positionAssignmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPositionAssignmentRepository(storage *pgxpool.Pool, logger *zap.Logger) PositionAssignmentRepositoryInterface {
	return &positionAssignmentRepository{storage: storage, logger: logger}
}

func (r *positionAssignmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *positionAssignmentRepository) scanRow(row pgx.Row) (*entities.PositionAssignment, error) {
	var a entities.PositionAssignment
	if err := row.Scan(&a.ID, &a.PersonID, &a.PositionID, &a.StartDate, &a.EndDate, &a.Active); err != nil {
		return nil, wrapReadError("ошибка сканирования asigna_puesto", err)
	}
	return &a, nil
}

func (r *positionAssignmentRepository) FindActive(ctx context.Context, tx pgx.Tx, personID uint64) (*entities.PositionAssignment, error) {
	builder := psql.Select(positionAssignmentFields).
		From("asigna_puesto").
		Where(sq.Eq{"id_persona": personID, "activo": true})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindActive: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *positionAssignmentRepository) Replace(ctx context.Context, tx pgx.Tx, personID uint64, positionID *uint64, date time.Time) error {
	q := r.getQuerier(tx)

	retire, args, err := psql.Update("asigna_puesto").
		Set("activo", false).
		Set("fecha_fin", date).
		Where(sq.Eq{"id_persona": personID, "activo": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса retire: %w", err)
	}
	if _, err := q.Exec(ctx, retire, args...); err != nil {
		return wrapWriteError("ошибка снятия должности", err)
	}

	if positionID == nil {
		return nil
	}

	insert, args, err := psql.Insert("asigna_puesto").
		Columns("id_persona", "id_puesto", "fecha_inicio", "activo").
		Values(personID, *positionID, date, true).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса insert: %w", err)
	}
	if _, err := q.Exec(ctx, insert, args...); err != nil {
		return wrapWriteError("ошибка назначения должности", err)
	}

	r.logger.Debug("Должность назначена",
		zap.Uint64("personID", personID),
		zap.Uint64("positionID", *positionID),
		zap.Time("date", date),
	)
	return nil
}

func (r *positionAssignmentRepository) History(ctx context.Context, personID uint64) ([]entities.PositionAssignment, error) {
	query, args, err := psql.Select(positionAssignmentFields).
		From("asigna_puesto").
		Where(sq.Eq{"id_persona": personID}).
		OrderBy("fecha_inicio DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL History: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка выборки asigna_puesto", err)
	}
	defer rows.Close()

	result := make([]entities.PositionAssignment, 0)
	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}
