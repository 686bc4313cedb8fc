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
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
)

const (
	personTable  = "persona p"
	personFields = "p.id, p.nombres, p.apellidop, p.apellidom, p.correo, p.numero_empleado, " +
		"p.telefono_uno, p.telefono_dos, p.estatus, p.created_at, p.updated_at"
	personListFields = personFields + ", ap.id_puesto, pu.nombre, pu.nivel, pu.departamento_id, d.nombre, b.motivo"
)

var personListParams = ListParams{
	AllowedFilters: map[string]string{
		"id":              "p.id",
		"estatus":         "p.estatus",
		"departamento_id": "pu.departamento_id",
		"puesto_id":       "ap.id_puesto",
	},
	SearchColumns: []string{"p.nombres", "p.apellidop", "p.apellidom", "p.numero_empleado", "p.correo"},
	AllowedSort: map[string]string{
		"id":              "p.id",
		"nombres":         "p.nombres",
		"apellidop":       "p.apellidop",
		"numero_empleado": "p.numero_empleado",
		"nivel":           "pu.nivel",
		"created_at":      "p.created_at",
	},
	DefaultSort: "p.apellidop ASC, p.apellidom ASC, p.nombres ASC",
}

type PersonRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Person, error)
	FindListItem(ctx context.Context, id uint64) (*entities.PersonListItem, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.PersonListItem, uint64, error)
	// FindListItemsAt возвращает строки по списку id с должностью, которую
	// сотрудник занимал на asOf. Порядок не гарантируется.
	FindListItemsAt(ctx context.Context, tx pgx.Tx, ids []uint64, asOf time.Time) ([]entities.PersonListItem, error)
	// ListActiveWithPosition - не уволенные сотрудники с активной должностью.
	// departmentID == nil - по всем департаментам.
	ListActiveWithPosition(ctx context.Context, tx pgx.Tx, departmentID *uint64) ([]entities.PersonListItem, error)
	// ListWithPositionAt - то же на дату asOf: должность действовала на asOf,
	// увольнение, если есть, позже asOf.
	ListWithPositionAt(ctx context.Context, tx pgx.Tx, departmentID *uint64, asOf time.Time) ([]entities.PersonListItem, error)
	Create(ctx context.Context, tx pgx.Tx, p entities.Person) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, p entities.Person) error
	SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.PersonStatus) error
	CreateTermination(ctx context.Context, tx pgx.Tx, t entities.Termination) (uint64, error)
	FindTermination(ctx context.Context, personID uint64) (*entities.Termination, error)
}

type personRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPersonRepository(storage *pgxpool.Pool, logger *zap.Logger) PersonRepositoryInterface {
	return &personRepository{storage: storage, logger: logger}
}

func (r *personRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

// listSelect - персона с текущей должностью и последней причиной увольнения.
func (r *personRepository) listSelect(columns string) sq.SelectBuilder {
	return psql.Select(columns).
		From(personTable).
		LeftJoin("asigna_puesto ap ON ap.id_persona = p.id AND ap.activo").
		LeftJoin("puesto pu ON pu.id = ap.id_puesto").
		LeftJoin("departamento d ON d.id = pu.departamento_id").
		LeftJoin("LATERAL (SELECT bp.motivo FROM baja_persona bp WHERE bp.id_persona = p.id " +
			"ORDER BY bp.fecha_baja DESC, bp.id DESC LIMIT 1) b ON TRUE")
}

// datedListSelect - listSelect с должностью из интервала [fecha_inicio, fecha_fin),
// в который попадает asOf.
func (r *personRepository) datedListSelect(columns string, asOf time.Time) sq.SelectBuilder {
	return psql.Select(columns).
		From(personTable).
		LeftJoin("asigna_puesto ap ON ap.id_persona = p.id AND ap.fecha_inicio <= ? "+
			"AND (ap.fecha_fin IS NULL OR ap.fecha_fin > ?)", asOf, asOf).
		LeftJoin("puesto pu ON pu.id = ap.id_puesto").
		LeftJoin("departamento d ON d.id = pu.departamento_id").
		LeftJoin("LATERAL (SELECT bp.motivo FROM baja_persona bp WHERE bp.id_persona = p.id " +
			"ORDER BY bp.fecha_baja DESC, bp.id DESC LIMIT 1) b ON TRUE")
}

func (r *personRepository) scanRow(row pgx.Row) (*entities.Person, error) {
	var p entities.Person
	err := row.Scan(
		&p.ID, &p.GivenName, &p.SurnamePaternal, &p.SurnameMaternal, &p.Email, &p.EmployeeNumber,
		&p.PhoneOne, &p.PhoneTwo, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, wrapReadError("ошибка сканирования persona", err)
	}
	return &p, nil
}

func (r *personRepository) scanListItem(row pgx.Row) (*entities.PersonListItem, error) {
	var item entities.PersonListItem
	p := &item.Person
	err := row.Scan(
		&p.ID, &p.GivenName, &p.SurnamePaternal, &p.SurnameMaternal, &p.Email, &p.EmployeeNumber,
		&p.PhoneOne, &p.PhoneTwo, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&item.PositionID, &item.PositionName, &item.PositionLevel, &item.DepartmentID,
		&item.DepartmentName, &item.TerminationReason,
	)
	if err != nil {
		return nil, wrapReadError("ошибка сканирования строки списка persona", err)
	}
	return &item, nil
}

func (r *personRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Person, error) {
	query, args, err := psql.Select(personFields).From(personTable).Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *personRepository) FindListItem(ctx context.Context, id uint64) (*entities.PersonListItem, error) {
	query, args, err := r.listSelect(personListFields).Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindListItem: %w", err)
	}
	return r.scanListItem(r.storage.QueryRow(ctx, query, args...))
}

func (r *personRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.PersonListItem, uint64, error) {
	countQuery, countArgs, err := applyConditions(r.listSelect("COUNT(p.id)"), filter, personListParams).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapReadError("ошибка выполнения count", err)
	}
	if total == 0 {
		return []entities.PersonListItem{}, 0, nil
	}

	builder := applyConditions(r.listSelect(personListFields), filter, personListParams)
	query, args, err := applySortAndPaging(builder, filter, personListParams).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	items, err := r.queryList(ctx, r.storage, query, args...)
	return items, total, err
}

func (r *personRepository) FindListItemsAt(ctx context.Context, tx pgx.Tx, ids []uint64, asOf time.Time) ([]entities.PersonListItem, error) {
	if len(ids) == 0 {
		return []entities.PersonListItem{}, nil
	}
	query, args, err := r.datedListSelect(personListFields, asOf).Where(sq.Eq{"p.id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindListItemsAt: %w", err)
	}
	return r.queryList(ctx, r.getQuerier(tx), query, args...)
}

func (r *personRepository) ListActiveWithPosition(ctx context.Context, tx pgx.Tx, departmentID *uint64) ([]entities.PersonListItem, error) {
	builder := r.listSelect(personListFields).
		Where(sq.NotEq{"p.estatus": string(constants.PersonStatusTerminated)}).
		Where(sq.NotEq{"ap.id_puesto": nil}).
		OrderBy("pu.nivel DESC", "p.apellidop ASC", "p.nombres ASC")
	if departmentID != nil {
		builder = builder.Where(sq.Eq{"pu.departamento_id": *departmentID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListActiveWithPosition: %w", err)
	}
	return r.queryList(ctx, r.getQuerier(tx), query, args...)
}

func (r *personRepository) ListWithPositionAt(ctx context.Context, tx pgx.Tx, departmentID *uint64, asOf time.Time) ([]entities.PersonListItem, error) {
	builder := r.datedListSelect(personListFields, asOf).
		Where(sq.NotEq{"ap.id_puesto": nil}).
		Where("NOT EXISTS (SELECT 1 FROM baja_persona bt WHERE bt.id_persona = p.id AND bt.fecha_baja <= ?)", asOf).
		OrderBy("pu.nivel DESC", "p.apellidop ASC", "p.nombres ASC")
	if departmentID != nil {
		builder = builder.Where(sq.Eq{"pu.departamento_id": *departmentID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListWithPositionAt: %w", err)
	}
	return r.queryList(ctx, r.getQuerier(tx), query, args...)
}

func (r *personRepository) queryList(ctx context.Context, q Querier, query string, args ...interface{}) ([]entities.PersonListItem, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка выполнения select persona", err)
	}
	defer rows.Close()

	items := make([]entities.PersonListItem, 0)
	for rows.Next() {
		item, err := r.scanListItem(rows)
		if err != nil {
			r.logger.Error("Ошибка сканирования person", zap.Error(err))
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapReadError("ошибка итерации rows", err)
	}
	return items, nil
}

func (r *personRepository) Create(ctx context.Context, tx pgx.Tx, p entities.Person) (uint64, error) {
	status := p.Status
	if status == "" {
		status = constants.PersonStatusActive
	}
	query, args, err := psql.Insert("persona").
		Columns("nombres", "apellidop", "apellidom", "correo", "numero_empleado", "telefono_uno", "telefono_dos", "estatus").
		Values(p.GivenName, p.SurnamePaternal, p.SurnameMaternal, p.Email, p.EmployeeNumber, p.PhoneOne, p.PhoneTwo, string(status)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, wrapWriteError("ошибка сохранения persona", err)
	}
	return newID, nil
}

func (r *personRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, p entities.Person) error {
	query, args, err := psql.Update("persona").
		Set("nombres", p.GivenName).
		Set("apellidop", p.SurnamePaternal).
		Set("apellidom", p.SurnameMaternal).
		Set("correo", p.Email).
		Set("numero_empleado", p.EmployeeNumber).
		Set("telefono_uno", p.PhoneOne).
		Set("telefono_dos", p.PhoneTwo).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка сохранения persona", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *personRepository) SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.PersonStatus) error {
	query, args, err := psql.Update("persona").
		Set("estatus", string(status)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса SetStatus: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapWriteError("ошибка смены статуса persona", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *personRepository) CreateTermination(ctx context.Context, tx pgx.Tx, t entities.Termination) (uint64, error) {
	query, args, err := psql.Insert("baja_persona").
		Columns("id_persona", "motivo", "fecha_baja").
		Values(t.PersonID, t.Reason, t.Date).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса CreateTermination: %w", err)
	}
	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, wrapWriteError("ошибка записи baja_persona", err)
	}
	return newID, nil
}

func (r *personRepository) FindTermination(ctx context.Context, personID uint64) (*entities.Termination, error) {
	query, args, err := psql.Select("id, id_persona, motivo, fecha_baja").
		From("baja_persona").
		Where(sq.Eq{"id_persona": personID}).
		OrderBy("fecha_baja DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindTermination: %w", err)
	}
	var t entities.Termination
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&t.ID, &t.PersonID, &t.Reason, &t.Date); err != nil {
		return nil, wrapReadError("ошибка чтения baja_persona", err)
	}
	return &t, nil
}
