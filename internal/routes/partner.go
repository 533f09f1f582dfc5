package routes

import (
	"github.com/labstack/echo/v4"

	"os-tracker/internal/controllers"
	"os-tracker/pkg/middleware"
)

func runPartnerRouter(secureGroup *echo.Group, ctrl *controllers.PartnerController, authMW *middleware.AuthMiddleware) {
	partners := secureGroup.Group("/partners", authMW.AdminOnly)
	partners.GET("", ctrl.GetPartners)
	partners.POST("", ctrl.CreatePartner)
	partners.PUT("/:id/approval", ctrl.SetApproval)
}
