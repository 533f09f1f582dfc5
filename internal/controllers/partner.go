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

type PartnerController struct {
	partnerService services.PartnerServiceInterface
	logger         *zap.Logger
}

func NewPartnerController(partnerService services.PartnerServiceInterface, logger *zap.Logger) *PartnerController {
	return &PartnerController{partnerService: partnerService, logger: logger}
}

func (c *PartnerController) GetPartners(ctx echo.Context) error {
	res, err := c.partnerService.List(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список партнёров получен", http.StatusOK)
}

func (c *PartnerController) CreatePartner(ctx echo.Context) error {
	var payload dto.CreatePartnerDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.partnerService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Партнёр создан", http.StatusCreated)
}

func (c *PartnerController) SetApproval(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SetApprovalDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}

	res, err := c.partnerService.SetApproved(ctx.Request().Context(), id, payload.Approved)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Доступ партнёра обновлён", http.StatusOK)
}
