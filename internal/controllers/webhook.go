package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/services"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/utils"
)

type WebhookController struct {
	webhookService services.WebhookServiceInterface
	logger         *zap.Logger
}

func NewWebhookController(webhookService services.WebhookServiceInterface, logger *zap.Logger) *WebhookController {
	return &WebhookController{webhookService: webhookService, logger: logger}
}

func (c *WebhookController) InboundEmail(ctx echo.Context) error {
	var payload dto.InboundEmailDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("InboundEmail: некорректное тело запроса", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный JSON"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.webhookService.HandleInboundEmail(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Письмо принято", http.StatusOK)
}
