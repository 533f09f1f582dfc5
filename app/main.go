// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"os-tracker/internal/jobs"
	"os-tracker/internal/routes"
	"os-tracker/pkg/config"
	"os-tracker/pkg/customvalidator"
	"os-tracker/pkg/database/migrations"
	"os-tracker/pkg/database/postgresql"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/eventbus"
	applogger "os-tracker/pkg/logger"
	"os-tracker/pkg/mailer"
	appmiddleware "os-tracker/pkg/middleware"
	"os-tracker/pkg/service"
	"os-tracker/pkg/utils"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger()
	defer func() { _ = logger.Sync() }()

	e := echo.New()
	e.HideBanner = true

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
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	cv, err := customvalidator.New()
	if err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = cv

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN, logger)
	defer dbConn.Close()

	if err := migrations.Up(dbConn); err != nil {
		logger.Fatal("Ошибка применения миграций", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		// Без Redis не работает только блокировка перебора паролей.
		logger.Warn("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	bus := eventbus.New(logger)
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.SessionTTL)

	sweepService, err := routes.InitRouter(e, dbConn, redisClient, bus, mailer.New(cfg.Mail, logger), jwtSvc, logger, cfg)
	if err != nil {
		logger.Fatal("Ошибка инициализации маршрутов", zap.Error(err))
	}

	var sweepJob *jobs.SweepJob
	if cfg.Sweep.Schedule != "" {
		sweepJob = jobs.NewSweepJob(sweepService, cfg.Sweep.Schedule, logger)
		if err := sweepJob.Start(); err != nil {
			logger.Fatal("Некорректное расписание SWEEP_CRON_SCHEDULE", zap.Error(err))
		}
	}

	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Остановка сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	if sweepJob != nil {
		sweepJob.Stop()
	}
	bus.Wait()
	logger.Info("Сервер остановлен")
}
