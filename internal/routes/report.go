package routes

import (
	"github.com/labstack/echo/v4"

	"os-tracker/internal/controllers"
	"os-tracker/pkg/middleware"
)

// Выгрузка xlsx открывается браузером напрямую, поэтому живёт вне /api и без сессии уводит на вход.
func runReportRouter(e *echo.Echo, secureGroup *echo.Group, ctrl *controllers.ReportController, authMW *middleware.AuthMiddleware) {
	reports := secureGroup.Group("/reports", authMW.AdminOnly)
	reports.GET("", ctrl.GetReport)
	reports.GET("/summary", ctrl.GetSummary)

	e.GET("/reports/export.xlsx", ctrl.ExportReport, authMW.SessionPage, authMW.AdminOnly)
}
