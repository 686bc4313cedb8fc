package routes

import (
	"github.com/labstack/echo/v4"

	"hr-system/internal/controllers"
	"hr-system/pkg/constants"
	"hr-system/pkg/middleware"
)

func runOrgChartRouter(secureGroup *echo.Group, orgChartCtrl *controllers.OrgChartController, authMW *middleware.AuthMiddleware) {
	chart := secureGroup.Group("/orgchart", authMW.RequirePermission(constants.PermOrgChartView))

	chart.GET("/departments/:id", orgChartCtrl.GetDepartmentChart)
	chart.GET("/departments/:id/image", orgChartCtrl.GetDepartmentChartImage)
	chart.GET("/persons/:id", orgChartCtrl.GetPersonChart)
	chart.GET("/persons/:id/image", orgChartCtrl.GetPersonChartImage)
	chart.GET("/persons/:id/count", orgChartCtrl.GetSubtreeCount)
	chart.GET("/persons/:id/table", orgChartCtrl.GetSubtreeTable)
}
