package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-tracker/internal/repositories"
)

type HealthController struct {
	healthRepo repositories.HealthRepositoryInterface
	logger     *zap.Logger
}

func NewHealthController(healthRepo repositories.HealthRepositoryInterface, logger *zap.Logger) *HealthController {
	return &HealthController{healthRepo: healthRepo, logger: logger}
}

func (c *HealthController) Check(ctx echo.Context) error {
	if err := c.healthRepo.Ping(ctx.Request().Context()); err != nil {
		c.logger.Error("Health: база данных недоступна", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
