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

const personDocumentFields = "c.id, c.id_persona, c.id_documento, d.nombre, c.archivo, c.fecha_carga, c.valido"

type DocumentRepositoryInterface interface {
	ListTypes(ctx context.Context) ([]entities.DocumentType, error)
	FindType(ctx context.Context, id uint64) (*entities.DocumentType, error)
	ListByPerson(ctx context.Context, personID uint64) ([]entities.PersonDocument, error)
	FindByID(ctx context.Context, id uint64) (*entities.PersonDocument, error)
	Create(ctx context.Context, tx pgx.Tx, doc entities.PersonDocument) (uint64, error)
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type documentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDocumentRepository(storage *pgxpool.Pool, logger *zap.Logger) DocumentRepositoryInterface {
	return &documentRepository{storage: storage, logger: logger}
}

func (r *documentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *documentRepository) ListTypes(ctx context.Context) ([]entities.DocumentType, error) {
	query, args, err := psql.Select("id, nombre, activo").
		From("documento").
		Where(sq.Eq{"activo": true}).
		OrderBy("nombre ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListTypes: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка выборки documento", err)
	}
	types, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.DocumentType, error) {
		var t entities.DocumentType
		err := row.Scan(&t.ID, &t.Name, &t.Active)
		return t, err
	})
	if err != nil {
		return nil, wrapReadError("ошибка сканирования documento", err)
	}
	return types, nil
}

func (r *documentRepository) FindType(ctx context.Context, id uint64) (*entities.DocumentType, error) {
	query, args, err := psql.Select("id, nombre, activo").From("documento").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindType: %w", err)
	}
	var t entities.DocumentType
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Name, &t.Active); err != nil {
		return nil, wrapReadError("ошибка чтения documento", err)
	}
	return &t, nil
}

func (r *documentRepository) scanRow(row pgx.Row) (*entities.PersonDocument, error) {
	var d entities.PersonDocument
	if err := row.Scan(&d.ID, &d.PersonID, &d.DocumentID, &d.DocumentName, &d.File, &d.UploadedAt, &d.Valid); err != nil {
		return nil, wrapReadError("ошибка сканирования carga_documento_persona", err)
	}
	return &d, nil
}

func (r *documentRepository) baseSelect() sq.SelectBuilder {
	return psql.Select(personDocumentFields).
		From("carga_documento_persona c").
		Join("documento d ON d.id = c.id_documento")
}

func (r *documentRepository) ListByPerson(ctx context.Context, personID uint64) ([]entities.PersonDocument, error) {
	query, args, err := r.baseSelect().
		Where(sq.Eq{"c.id_persona": personID}).
		OrderBy("c.fecha_carga DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL ListByPerson: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapReadError("ошибка выборки документов", err)
	}
	defer rows.Close()

	docs := make([]entities.PersonDocument, 0)
	for rows.Next() {
		d, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

func (r *documentRepository) FindByID(ctx context.Context, id uint64) (*entities.PersonDocument, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL FindByID: %w", err)
	}
	return r.scanRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *documentRepository) Create(ctx context.Context, tx pgx.Tx, doc entities.PersonDocument) (uint64, error) {
	query, args, err := psql.Insert("carga_documento_persona").
		Columns("id_persona", "id_documento", "archivo", "valido").
		Values(doc.PersonID, doc.DocumentID, doc.File, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return 0, wrapWriteError("ошибка записи документа", err)
	}
	return newID, nil
}

func (r *documentRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete("carga_documento_persona").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapDeleteError("ошибка удаления документа", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
