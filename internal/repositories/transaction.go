package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"

	maxTxAttempts = 3
)

type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// TxManager открывает транзакции READ COMMITTED. Реорганизации соседних
// веток блокируют одни и те же строки asigna_jefe, поэтому взаимоблокировка
// и конфликт сериализации повторяются целиком.
type TxManager struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewTxManager(pool *pgxpool.Pool, logger *zap.Logger) TxManagerInterface {
	return &TxManager{pool: pool, logger: logger}
}

// RunInTransaction выполняет fn в одной транзакции. fn может быть вызвана
// повторно, поэтому внутри нее допустима только работа с tx.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = m.runOnce(ctx, fn)
		if err == nil || !isRetryableTxError(err) || ctx.Err() != nil {
			return err
		}
		m.logger.Warn("Транзакция прервана конфликтом, повтор",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return err
}

func (m *TxManager) runOnce(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				m.logger.Error("Откат транзакции не удался", zap.Error(rbErr))
			}
			return
		}
		if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("ошибка при коммите транзакции: %w", err)
		}
	}()

	return fn(tx)
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}
