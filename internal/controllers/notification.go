package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-tracker/internal/services"
	"os-tracker/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

func (c *NotificationController) GetNotifications(ctx echo.Context) error {
	res, err := c.notificationService.List(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Уведомления получены", http.StatusOK)
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.notificationService.MarkRead(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Уведомление прочитано", http.StatusOK)
}

func (c *NotificationController) MarkAllRead(ctx echo.Context) error {
	count, err := c.notificationService.MarkAllRead(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int64{"updated": count}, "Все уведомления прочитаны", http.StatusOK)
}
