package routes

import (
	"github.com/labstack/echo/v4"

	"os-tracker/internal/controllers"
)

func runNotificationRouter(secureGroup *echo.Group, ctrl *controllers.NotificationController) {
	notifications := secureGroup.Group("/notifications")
	notifications.GET("", ctrl.GetNotifications)
	notifications.POST("/read-all", ctrl.MarkAllRead)
	notifications.PATCH("/:id/read", ctrl.MarkRead)
}
