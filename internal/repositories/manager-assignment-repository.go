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
	apperrors "hr-system/pkg/errors"
)

const (
	edgeTable  = "asigna_jefe a"
	edgeFields = "a.id, a.id_persona, a.id_jefe, a.fecha_inicio, a.fecha_fin, j.nombres, j.apellidop, j.apellidom"
)

// ManagerAssignmentRepositoryInterface - хранилище рёбер "подчиняется" (asigna_jefe).
// Рёбра только закрываются и добавляются, не удаляются.
type ManagerAssignmentRepositoryInterface interface {
	// FindOpenEdge блокирует строку, если передана транзакция. Нет ребра - ErrNotFound.
	FindOpenEdge(ctx context.Context, tx pgx.Tx, personID uint64) (*entities.ReportsToEdge, error)
	FindEdgeAt(ctx context.Context, tx pgx.Tx, personID uint64, asOf time.Time) (*entities.ReportsToEdge, error)
	FindReportsAt(ctx context.Context, tx pgx.Tx, managerID uint64, asOf time.Time) ([]entities.ReportsToEdge, error)
	ListEdgesAt(ctx context.Context, tx pgx.Tx, asOf time.Time) ([]entities.ReportsToEdge, error)
	CloseEdge(ctx context.Context, tx pgx.Tx, edgeID uint64, end time.Time) error
	InsertEdge(ctx context.Context, tx pgx.Tx, personID, managerID uint64, start time.Time) (uint64, error)
	History(ctx context.Context, personID uint64) ([]entities.ReportsToEdge, error)
}

type managerAssignmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewManagerAssignmentRepository(storage *pgxpool.Pool, logger *zap.Logger) ManagerAssignmentRepositoryInterface {
	return &managerAssignmentRepository{storage: storage, logger: logger}
}

func (r *managerAssignmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *managerAssignmentRepository) baseSelect() sq.SelectBuilder {
	return psql.Select(edgeFields).From(edgeTable).Join("persona j ON j.id = a.id_jefe")
}

// validAt: fecha_inicio <= asOf < fecha_fin
func validAt(asOf time.Time) sq.Sqlizer {
	return sq.And{
		sq.LtOrEq{"a.fecha_inicio": asOf},
		sq.Or{sq.Eq{"a.fecha_fin": nil}, sq.Gt{"a.fecha_fin": asOf}},
	}
}

func (r *managerAssignmentRepository) scanRow(row pgx.Row) (*entities.ReportsToEdge, error) {
	var e entities.ReportsToEdge
	var given, paternal, maternal string
	if err := row.Scan(&e.ID, &e.PersonID, &e.ManagerID, &e.EffectiveStart, &e.EffectiveEnd, &given, &paternal, &maternal); err != nil {
		return nil, wrapReadError("ошибка сканирования asigna_jefe", err)
	}
	e.ManagerName = entities.FullName(given, paternal, maternal)
	return &e, nil
}

func (r *managerAssignmentRepository) queryOne(ctx context.Context, tx pgx.Tx, builder sq.SelectBuilder) (*entities.ReportsToEdge, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL asigna_jefe: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *managerAssignmentRepository) queryMany(ctx context.Context, q Querier, builder sq.SelectBuilder) ([]entities.ReportsToEdge, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL asigna_jefe: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка выборки asigna_jefe", err)
	}
	defer rows.Close()

	edges := make([]entities.ReportsToEdge, 0)
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapReadError("ошибка итерации rows", err)
	}
	return edges, nil
}

func (r *managerAssignmentRepository) FindOpenEdge(ctx context.Context, tx pgx.Tx, personID uint64) (*entities.ReportsToEdge, error) {
	builder := r.baseSelect().Where(sq.Eq{"a.id_persona": personID, "a.fecha_fin": nil})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE OF a")
	}
	return r.queryOne(ctx, tx, builder)
}

func (r *managerAssignmentRepository) FindEdgeAt(ctx context.Context, tx pgx.Tx, personID uint64, asOf time.Time) (*entities.ReportsToEdge, error) {
	builder := r.baseSelect().
		Where(sq.Eq{"a.id_persona": personID}).
		Where(validAt(asOf)).
		OrderBy("a.fecha_inicio DESC", "a.id DESC").
		Limit(1)
	return r.queryOne(ctx, tx, builder)
}

func (r *managerAssignmentRepository) FindReportsAt(ctx context.Context, tx pgx.Tx, managerID uint64, asOf time.Time) ([]entities.ReportsToEdge, error) {
	builder := r.baseSelect().
		Where(sq.Eq{"a.id_jefe": managerID}).
		Where(validAt(asOf)).
		OrderBy("a.id_persona ASC")
	return r.queryMany(ctx, r.getQuerier(tx), builder)
}

func (r *managerAssignmentRepository) ListEdgesAt(ctx context.Context, tx pgx.Tx, asOf time.Time) ([]entities.ReportsToEdge, error) {
	builder := r.baseSelect().Where(validAt(asOf)).OrderBy("a.id_jefe ASC", "a.id_persona ASC")
	return r.queryMany(ctx, r.getQuerier(tx), builder)
}

func (r *managerAssignmentRepository) CloseEdge(ctx context.Context, tx pgx.Tx, edgeID uint64, end time.Time) error {
	query, args, err := psql.Update("asigna_jefe").
		Set("fecha_fin", end).
		Where(sq.Eq{"id": edgeID, "fecha_fin": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса CloseEdge: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка закрытия asigna_jefe", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *managerAssignmentRepository) InsertEdge(ctx context.Context, tx pgx.Tx, personID, managerID uint64, start time.Time) (uint64, error) {
	query, args, err := psql.Insert("asigna_jefe").
		Columns("id_persona", "id_jefe", "fecha_inicio").
		Values(personID, managerID, start).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса InsertEdge: %w", err)
	}
	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, wrapWriteError("ошибка записи asigna_jefe", err)
	}
	return newID, nil
}

func (r *managerAssignmentRepository) History(ctx context.Context, personID uint64) ([]entities.ReportsToEdge, error) {
	builder := r.baseSelect().
		Where(sq.Eq{"a.id_persona": personID}).
		OrderBy("a.fecha_inicio DESC", "a.id DESC")
	return r.queryMany(ctx, r.storage, builder)
}
