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
	departmentTable  = "departamento"
	departmentFields = "id, nombre, activo"
)

var departmentListParams = ListParams{
	AllowedFilters: map[string]string{"id": "id", "activo": "activo"},
	SearchColumns:  []string{"nombre"},
	AllowedSort:    map[string]string{"id": "id", "nombre": "nombre"},
	DefaultSort:    "nombre ASC",
}

type DepartmentRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Department, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error)
	ListActive(ctx context.Context) ([]entities.Department, error)
	Create(ctx context.Context, tx pgx.Tx, d entities.Department) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, d entities.Department) error
	SetActive(ctx context.Context, tx pgx.Tx, id uint64, active bool) error
}

type departmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDepartmentRepository(storage *pgxpool.Pool, logger *zap.Logger) DepartmentRepositoryInterface {
	return &departmentRepository{storage: storage, logger: logger}
}

func (r *departmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *departmentRepository) scanRow(row pgx.Row) (*entities.Department, error) {
	var d entities.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Active); err != nil {
		return nil, wrapReadError("ошибка сканирования departamento", err)
	}
	return &d, nil
}

func (r *departmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Department, error) {
	query, args, err := psql.Select(departmentFields).From(departmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *departmentRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error) {
	countQuery, countArgs, err := applyConditions(psql.Select("COUNT(id)").From(departmentTable), filter, departmentListParams).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapReadError("ошибка выполнения count", err)
	}
	if total == 0 {
		return []entities.Department{}, 0, nil
	}

	builder := applyConditions(psql.Select(departmentFields).From(departmentTable), filter, departmentListParams)
	query, args, err := applySortAndPaging(builder, filter, departmentListParams).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	list, err := r.query(ctx, query, args...)
	return list, total, err
}

func (r *departmentRepository) ListActive(ctx context.Context) ([]entities.Department, error) {
	query, args, err := psql.Select(departmentFields).From(departmentTable).Where(sq.Eq{"activo": true}).OrderBy("nombre").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListActive: %w", err)
	}
	return r.query(ctx, query, args...)
}

func (r *departmentRepository) query(ctx context.Context, query string, args ...interface{}) ([]entities.Department, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка выполнения select departamento", err)
	}
	defer rows.Close()

	list := make([]entities.Department, 0)
	for rows.Next() {
		d, err := r.scanRow(rows)
		if err != nil {
			r.logger.Error("Ошибка сканирования departamento", zap.Error(err))
			return nil, err
		}
		list = append(list, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapReadError("ошибка итерации rows", err)
	}
	return list, nil
}

func (r *departmentRepository) Create(ctx context.Context, tx pgx.Tx, d entities.Department) (uint64, error) {
	query, args, err := psql.Insert(departmentTable).
		Columns("nombre", "activo").
		Values(d.Name, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, wrapWriteError("департамент с таким названием уже существует", err)
	}
	return id, nil
}

func (r *departmentRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, d entities.Department) error {
	query, args, err := psql.Update(departmentTable).Set("nombre", d.Name).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка обновления departamento", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *departmentRepository) SetActive(ctx context.Context, tx pgx.Tx, id uint64, active bool) error {
	query, args, err := psql.Update(departmentTable).Set("activo", active).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса SetActive: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка изменения активности departamento", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
