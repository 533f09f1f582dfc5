package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-tracker/internal/controllers"
	"os-tracker/internal/listeners"
	"os-tracker/internal/repositories"
	"os-tracker/internal/services"
	"os-tracker/pkg/config"
	"os-tracker/pkg/eventbus"
	"os-tracker/pkg/mailer"
	"os-tracker/pkg/middleware"
	"os-tracker/pkg/service"
)

// InitRouter собирает репозитории, сервисы и маршруты. Возвращает сервис ночной остановки таймеров
// для встроенного планировщика.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	bus *eventbus.Bus,
	mail mailer.Mailer,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg *config.Config,
) (services.SweepServiceInterface, error) {
	logger.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, cfg.JWT.CookieName, logger)

	// --- 1. РЕПОЗИТОРИИ ---
	txManager := repositories.NewTxManager(dbConn)
	orderRepo := repositories.NewOrderRepository(dbConn)
	clientRepo := repositories.NewClientRepository(dbConn)
	partnerRepo := repositories.NewPartnerRepository(dbConn)
	notificationRepo := repositories.NewNotificationRepository(dbConn)
	reportRepo := repositories.NewReportRepository(dbConn)
	healthRepo := repositories.NewHealthRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 2. СЕРВИСЫ ---
	orderService := services.NewOrderService(txManager, orderRepo, clientRepo, partnerRepo, bus, logger)
	authService := services.NewAuthService(partnerRepo, cacheRepo, &cfg.Auth, logger)
	partnerService := services.NewPartnerService(partnerRepo, logger)
	clientService := services.NewClientService(txManager, clientRepo, partnerRepo, logger)
	notificationService := services.NewNotificationService(notificationRepo)
	reportService := services.NewReportService(reportRepo, logger)
	webhookService := services.NewWebhookService(partnerRepo, orderService, logger)
	sweepService, err := services.NewSweepService(orderRepo, orderService, cfg.Sweep, logger)
	if err != nil {
		return nil, err
	}

	listeners.NewNotificationListener(notificationRepo, partnerRepo, mail, cfg.Mail, logger).Register(bus)

	// --- 3. РОУТЕРЫ ---
	runHealthRouter(api, controllers.NewHealthController(healthRepo, logger))
	runAuthRouter(api, controllers.NewAuthController(authService, jwtSvc, cfg.JWT, logger))
	runIntegrationRouter(api, cfg.Integration, logger,
		controllers.NewCronController(sweepService, logger),
		controllers.NewWebhookController(webhookService, logger),
	)

	secureGroup := api.Group("", authMW.SessionAPI)
	runOrderRouter(secureGroup, controllers.NewOrderController(orderService, logger))
	runClientRouter(secureGroup, controllers.NewClientController(clientService, logger), authMW)
	runPartnerRouter(secureGroup, controllers.NewPartnerController(partnerService, logger), authMW)
	runNotificationRouter(secureGroup, controllers.NewNotificationController(notificationService, logger))
	runReportRouter(e, secureGroup, controllers.NewReportController(reportService, logger), authMW)

	logger.Info("InitRouter: создание маршрутов завершено")
	return sweepService, nil
}
