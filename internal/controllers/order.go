package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/services"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(orderService services.OrderServiceInterface, logger *zap.Logger) *OrderController {
	return &OrderController{orderService: orderService, logger: logger}
}

func (c *OrderController) GetOrders(ctx echo.Context) error {
	filter, err := orderFilterFromQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список заявок получен", http.StatusOK)
}

func orderFilterFromQuery(ctx echo.Context) (dto.OrderFilterDTO, error) {
	q := ctx.QueryParams()
	filter := dto.OrderFilterDTO{
		Statuses: utils.ListParam(q, "status"),
		Search:   strings.TrimSpace(q.Get("q")),
	}

	if v := q.Get("client_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Неверный client_id")
		}
		filter.ClientID = &id
	}
	if v := q.Get("partner_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Неверный partner_id")
		}
		filter.PartnerID = &id
	}
	if v := q.Get("urgent"); v != "" {
		urgent, err := strconv.ParseBool(v)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Неверное значение urgent")
		}
		filter.Urgent = &urgent
	}
	return filter, nil
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка получена", http.StatusOK)
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	var payload dto.CreateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка создана", http.StatusCreated)
}

func (c *OrderController) UpdateOrder(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка обновлена", http.StatusOK)
}

func (c *OrderController) SetStatus(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SetStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.SetStatus(ctx.Request().Context(), id, payload.Status)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статус заявки обновлён", http.StatusOK)
}

func (c *OrderController) ToggleTimer(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ToggleTimerDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.ToggleTimer(ctx.Request().Context(), id, payload.Action)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Таймер обновлён", http.StatusOK)
}

func (c *OrderController) UpdateChecklist(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateChecklistDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.UpdateChecklist(ctx.Request().Context(), id, payload.Items)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Чек-лист обновлён", http.StatusOK)
}

func (c *OrderController) SetUrgent(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SetUrgentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса"), c.logger)
	}

	res, err := c.orderService.SetUrgent(ctx.Request().Context(), id, payload.Urgent)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Срочность заявки обновлена", http.StatusOK)
}
