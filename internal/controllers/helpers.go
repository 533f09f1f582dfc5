package controllers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "os-tracker/pkg/errors"
)

func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewBadRequestError("Неверный формат ID")
	}
	return id, nil
}
