package routes

import (
	"github.com/labstack/echo/v4"

	"os-tracker/internal/controllers"
)

func runOrderRouter(secureGroup *echo.Group, ctrl *controllers.OrderController) {
	orders := secureGroup.Group("/orders")
	orders.GET("", ctrl.GetOrders)
	orders.POST("", ctrl.CreateOrder)
	orders.GET("/:id", ctrl.FindOrder)
	orders.PATCH("/:id", ctrl.UpdateOrder)
	orders.PUT("/:id/status", ctrl.SetStatus)
	orders.POST("/:id/timer", ctrl.ToggleTimer)
	orders.PUT("/:id/checklist", ctrl.UpdateChecklist)
	orders.PUT("/:id/urgent", ctrl.SetUrgent)
}
