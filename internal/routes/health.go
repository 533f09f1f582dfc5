package routes

import (
	"github.com/labstack/echo/v4"

	"os-tracker/internal/controllers"
)

func runHealthRouter(api *echo.Group, ctrl *controllers.HealthController) {
	api.GET("/health", ctrl.Check)
}
