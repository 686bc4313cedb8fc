package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/controllers"
	"hr-system/internal/orgchart"
	"hr-system/internal/repositories"
	"hr-system/internal/services"
	"hr-system/pkg/config"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/filestorage"
	"hr-system/pkg/middleware"
	"hr-system/pkg/service"
	appwebsocket "hr-system/pkg/websocket"
)

type Loggers struct {
	Main     *zap.Logger
	Auth     *zap.Logger
	Person   *zap.Logger
	OrgChart *zap.Logger
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	loggers *Loggers,
	authPermissionService services.AuthPermissionServiceInterface,
	bus *eventbus.Bus,
	hub *appwebsocket.Hub,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, authPermissionService, loggers.Auth)
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.Dir)
	if err != nil {
		loggers.Main.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	renderer, err := orgchart.NewRenderer(cfg.Chart.Width, cfg.Chart.Height, cfg.Chart.FontPath)
	if err != nil {
		loggers.Main.Fatal("не удалось подготовить отрисовку органиграммы", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn, loggers.Main.Named("tx"))

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.Auth)
	roleRepo := repositories.NewRoleRepository(dbConn, loggers.Main)
	permissionRepo := repositories.NewPermissionRepository(dbConn, loggers.Main)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	personRepo := repositories.NewPersonRepository(dbConn, loggers.Person)
	positionRepo := repositories.NewPositionRepository(dbConn, loggers.Main)
	departmentRepo := repositories.NewDepartmentRepository(dbConn, loggers.Main)
	assignmentRepo := repositories.NewPositionAssignmentRepository(dbConn, loggers.Person)
	edgeRepo := repositories.NewManagerAssignmentRepository(dbConn, loggers.Person)
	documentRepo := repositories.NewDocumentRepository(dbConn, loggers.Person)
	absenceRepo := repositories.NewAbsenceRepository(dbConn, loggers.Person)

	// --- 2. СЕРВИСЫ ---
	authService := services.NewAuthService(userRepo, cacheRepo, authPermissionService, jwtSvc, loggers.Auth, cfg.Auth)
	roleService := services.NewRoleService(txManager, roleRepo, permissionRepo, userRepo, bus, loggers.Main)
	hierarchyService := services.NewHierarchyService(personRepo, edgeRepo, loggers.Person)
	reorganizerService := services.NewReorganizerService(assignmentRepo, hierarchyService, loggers.Person)
	personService := services.NewPersonService(
		txManager, personRepo, positionRepo, departmentRepo, assignmentRepo, userRepo,
		hierarchyService, reorganizerService, bus, loggers.Person,
	)
	departmentService := services.NewDepartmentService(departmentRepo, loggers.Main)
	positionService := services.NewPositionService(positionRepo, departmentRepo, loggers.Main)
	documentService := services.NewDocumentService(documentRepo, personRepo, fileStorage, loggers.Person)
	absenceService := services.NewAbsenceService(absenceRepo, personRepo, loggers.Person)
	orgChartService := services.NewOrgChartService(personRepo, departmentRepo, hierarchyService, renderer, loggers.OrgChart)

	// --- 3. КОНТРОЛЛЕРЫ ---
	authCtrl := controllers.NewAuthController(authService, loggers.Auth)
	roleCtrl := controllers.NewRoleController(roleService, loggers.Main)
	personCtrl := controllers.NewPersonController(personService, loggers.Person)
	documentCtrl := controllers.NewDocumentController(documentService, loggers.Person)
	absenceCtrl := controllers.NewAbsenceController(absenceService, loggers.Person)
	departmentCtrl := controllers.NewDepartmentController(departmentService, loggers.Main)
	positionCtrl := controllers.NewPositionController(positionService, loggers.Main)
	orgChartCtrl := controllers.NewOrgChartController(orgChartService, loggers.OrgChart)
	streamCtrl := controllers.NewOrgChartStreamController(hub, jwtSvc, authPermissionService, cfg.Server.AllowedOrigin, loggers.OrgChart)

	// --- 4. РОУТЕРЫ ---
	runAuthRouter(api, authCtrl, authMW)
	// токен приходит в query, Auth middleware здесь не подходит
	api.GET("/ws/orgchart", streamCtrl.ServeWs)

	secureGroup := api.Group("", authMW.Auth)
	runPersonRouter(secureGroup, personCtrl, documentCtrl, absenceCtrl, authMW)
	runCatalogRouter(secureGroup, departmentCtrl, positionCtrl, authMW)
	runOrgChartRouter(secureGroup, orgChartCtrl, authMW)
	runRoleRouter(secureGroup, roleCtrl, authMW)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
