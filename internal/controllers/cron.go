package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-tracker/internal/services"
	"os-tracker/pkg/utils"
)

type CronController struct {
	sweepService services.SweepServiceInterface
	logger       *zap.Logger
}

func NewCronController(sweepService services.SweepServiceInterface, logger *zap.Logger) *CronController {
	return &CronController{sweepService: sweepService, logger: logger}
}

func (c *CronController) Sweep(ctx echo.Context) error {
	res, err := c.sweepService.Run(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Проверка таймеров выполнена", http.StatusOK)
}
