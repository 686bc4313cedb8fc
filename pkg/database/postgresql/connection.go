package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/pkg/config"
)

const pingTimeout = 5 * time.Second

// ConnectDB открывает пул и проверяет соединение. Без базы сервис не стартует.
func ConnectDB(cfg config.PostgresConfig, logger *zap.Logger) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Fatal("Неверная строка подключения к БД", zap.Error(err))
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Fatal("Ошибка создания пула соединений к БД", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		logger.Fatal("Не удалось пинговать БД", zap.Error(err))
	}

	logger.Info("✅ Подключено к PostgreSQL",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return dbpool
}
