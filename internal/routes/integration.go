package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-tracker/internal/controllers"
	"os-tracker/pkg/config"
	"os-tracker/pkg/middleware"
)

// Машинные эндпоинты закрыты bearer-токенами, сессия для них не нужна.
func runIntegrationRouter(
	api *echo.Group,
	cfg config.IntegrationConfig,
	logger *zap.Logger,
	cronCtrl *controllers.CronController,
	webhookCtrl *controllers.WebhookController,
) {
	api.GET("/cron/sweep", cronCtrl.Sweep, middleware.BearerToken(cfg.CronToken, logger))
	api.POST("/webhooks/inbound-email", webhookCtrl.InboundEmail, middleware.BearerToken(cfg.WebhookToken, logger))
}
