package routes

import (
	"github.com/labstack/echo/v4"

	"os-tracker/internal/controllers"
	"os-tracker/pkg/middleware"
)

func runClientRouter(secureGroup *echo.Group, ctrl *controllers.ClientController, authMW *middleware.AuthMiddleware) {
	clients := secureGroup.Group("/clients")
	clients.GET("", ctrl.GetClients)
	clients.POST("", ctrl.CreateClient)
	clients.PATCH("/:id", ctrl.RenameClient, authMW.AdminOnly)
}
