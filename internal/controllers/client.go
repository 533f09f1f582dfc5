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

type ClientController struct {
	clientService services.ClientServiceInterface
	logger        *zap.Logger
}

func NewClientController(clientService services.ClientServiceInterface, logger *zap.Logger) *ClientController {
	return &ClientController{clientService: clientService, logger: logger}
}

func (c *ClientController) GetClients(ctx echo.Context) error {
	res, err := c.clientService.List(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список клиентов получен", http.StatusOK)
}

func (c *ClientController) CreateClient(ctx echo.Context) error {
	var payload dto.CreateClientDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.clientService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Клиент сохранён", http.StatusOK)
}

func (c *ClientController) RenameClient(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.RenameClientDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.clientService.Rename(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Клиент переименован", http.StatusOK)
}
