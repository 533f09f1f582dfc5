package routes

import (
	"github.com/labstack/echo/v4"

	"os-tracker/internal/controllers"
)

func runAuthRouter(api *echo.Group, ctrl *controllers.AuthController) {
	auth := api.Group("/auth")
	auth.POST("/login", ctrl.Login)
	auth.POST("/register", ctrl.Register)
	auth.POST("/logout", ctrl.Logout)
	auth.GET("/session", ctrl.Session)
}
