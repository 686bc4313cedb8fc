// Файл: main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"hr-system/internal/listeners"
	"hr-system/internal/repositories"
	"hr-system/internal/routes"
	"hr-system/internal/services"
	"hr-system/migrations"
	"hr-system/pkg/config"
	"hr-system/pkg/database/postgresql"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/eventbus"
	applogger "hr-system/pkg/logger"
	appmiddleware "hr-system/pkg/middleware"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"
	"hr-system/pkg/validation"
	appwebsocket "hr-system/pkg/websocket"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true

	// 2. Middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigin,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition, "X-Orgchart-Degraded"},
	}))
	e.Use(appmiddleware.RequestLogger(logger.Named("http")))
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Upload.MaxSizeMB)))

	// 3. Статика
	absPath, err := filepath.Abs(cfg.Upload.Dir)
	if err != nil {
		logger.Fatal("не удалось получить абсолютный путь к uploads", zap.Error(err))
	}
	e.Static("/uploads", absPath)

	e.Validator = validation.New()

	// 4. Хранилища
	dbConn := postgresql.ConnectDB(cfg.Postgres, logger.Named("postgres"))
	defer dbConn.Close()

	if cfg.Postgres.RunMigrations {
		if err := migrations.Up(context.Background(), dbConn); err != nil {
			logger.Fatal("не удалось применить миграции", zap.Error(err))
		}
		logger.Info("Миграции применены")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	// 5. Общие сервисы
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger.Named("jwt"))

	authLogger := logger.Named("auth")
	authPermissionService := services.NewAuthPermissionService(
		repositories.NewPermissionRepository(dbConn, authLogger),
		repositories.NewUserRepository(dbConn, authLogger),
		repositories.NewRedisCacheRepository(redisClient),
		authLogger,
		cfg.Permissions.CacheTTL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := appwebsocket.NewHub(logger.Named("ws"))
	go hub.Run(ctx)

	bus := eventbus.New(logger.Named("eventbus"))
	listeners.NewAuditListener(logger).Register(bus)
	listeners.NewPermissionCacheListener(authPermissionService, authLogger).Register(bus)
	listeners.NewChartPushListener(hub, logger.Named("ws")).Register(bus)

	// 6. Роуты
	routes.InitRouter(e, dbConn, redisClient, jwtSvc, &routes.Loggers{
		Main:     logger,
		Auth:     authLogger,
		Person:   logger.Named("person"),
		OrgChart: logger.Named("orgchart"),
	}, authPermissionService, bus, hub, cfg)

	// 7. Запуск
	addr := ":" + cfg.Server.Port
	logger.Info("🚀 Сервер запущен", zap.String("addr", addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
