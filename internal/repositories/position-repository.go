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

const (
	positionTable  = "puesto p"
	positionFields = "p.id, p.nombre, p.departamento_id, d.nombre, p.nivel, p.activo"
)

var positionListParams = ListParams{
	AllowedFilters: map[string]string{
		"id":              "p.id",
		"departamento_id": "p.departamento_id",
		"nivel":           "p.nivel",
		"activo":          "p.activo",
	},
	SearchColumns: []string{"p.nombre"},
	AllowedSort: map[string]string{
		"id":     "p.id",
		"nombre": "p.nombre",
		"nivel":  "p.nivel",
	},
	DefaultSort: "p.nivel DESC, p.nombre ASC",
}

type PositionRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Position, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Position, uint64, error)
	// ListActive - активные должности, старшие уровни первыми
	ListActive(ctx context.Context) ([]entities.Position, error)
	Create(ctx context.Context, tx pgx.Tx, p entities.Position) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, p entities.Position) error
	SetActive(ctx context.Context, tx pgx.Tx, id uint64, active bool) error
}

type positionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPositionRepository(storage *pgxpool.Pool, logger *zap.Logger) PositionRepositoryInterface {
	return &positionRepository{storage: storage, logger: logger}
}

func (r *positionRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *positionRepository) baseSelect(columns string) sq.SelectBuilder {
	return psql.Select(columns).From(positionTable).Join("departamento d ON d.id = p.departamento_id")
}

func (r *positionRepository) scanRow(row pgx.Row) (*entities.Position, error) {
	var p entities.Position
	if err := row.Scan(&p.ID, &p.Name, &p.DepartmentID, &p.DepartmentName, &p.Level, &p.Active); err != nil {
		return nil, wrapReadError("ошибка сканирования puesto", err)
	}
	return &p, nil
}

func (r *positionRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Position, error) {
	query, args, err := r.baseSelect(positionFields).Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *positionRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Position, uint64, error) {
	countQuery, countArgs, err := applyConditions(r.baseSelect("COUNT(p.id)"), filter, positionListParams).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapReadError("ошибка выполнения count", err)
	}
	if total == 0 {
		return []entities.Position{}, 0, nil
	}

	builder := applyConditions(r.baseSelect(positionFields), filter, positionListParams)
	query, args, err := applySortAndPaging(builder, filter, positionListParams).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	list, err := r.query(ctx, query, args...)
	return list, total, err
}

func (r *positionRepository) ListActive(ctx context.Context) ([]entities.Position, error) {
	query, args, err := r.baseSelect(positionFields).
		Where(sq.Eq{"p.activo": true}).
		OrderBy("p.nivel DESC", "p.nombre ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListActive: %w", err)
	}
	return r.query(ctx, query, args...)
}

func (r *positionRepository) query(ctx context.Context, query string, args ...interface{}) ([]entities.Position, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка выполнения select puesto", err)
	}
	defer rows.Close()

	positions := make([]entities.Position, 0)
	for rows.Next() {
		pos, err := r.scanRow(rows)
		if err != nil {
			r.logger.Error("Ошибка сканирования position", zap.Error(err))
			return nil, err
		}
		positions = append(positions, *pos)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapReadError("ошибка итерации rows", err)
	}
	return positions, nil
}

func (r *positionRepository) Create(ctx context.Context, tx pgx.Tx, p entities.Position) (uint64, error) {
	query, args, err := psql.Insert("puesto").
		Columns("nombre", "departamento_id", "nivel", "activo").
		Values(p.Name, p.DepartmentID, p.Level, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, wrapWriteError("ошибка сохранения puesto", err)
	}
	return newID, nil
}

func (r *positionRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, p entities.Position) error {
	query, args, err := psql.Update("puesto").
		Set("nombre", p.Name).
		Set("departamento_id", p.DepartmentID).
		Set("nivel", p.Level).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка обновления puesto", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *positionRepository) SetActive(ctx context.Context, tx pgx.Tx, id uint64, active bool) error {
	query, args, err := psql.Update("puesto").Set("activo", active).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса SetActive: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка изменения активности puesto", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
