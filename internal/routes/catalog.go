package routes

import (
	"github.com/labstack/echo/v4"

	"hr-system/internal/controllers"
	"hr-system/pkg/constants"
	"hr-system/pkg/middleware"
)

func runCatalogRouter(
	secureGroup *echo.Group,
	departmentCtrl *controllers.DepartmentController,
	positionCtrl *controllers.PositionController,
	authMW *middleware.AuthMiddleware,
) {
	view := authMW.RequirePermission(constants.PermCatalogsView)
	edit := authMW.RequirePermission(constants.PermCatalogsEdit)

	departments := secureGroup.Group("/departments")
	departments.GET("", departmentCtrl.GetDepartments, view)
	departments.GET("/:id", departmentCtrl.FindDepartment, view)
	departments.POST("", departmentCtrl.CreateDepartment, edit)
	departments.PUT("/:id", departmentCtrl.UpdateDepartment, edit)
	departments.DELETE("/:id", departmentCtrl.RetireDepartment, edit)

	positions := secureGroup.Group("/positions")
	positions.GET("", positionCtrl.GetPositions, view)
	positions.GET("/:id", positionCtrl.FindPosition, view)
	positions.POST("", positionCtrl.CreatePosition, edit)
	positions.PUT("/:id", positionCtrl.UpdatePosition, edit)
	positions.DELETE("/:id", positionCtrl.RetirePosition, edit)
}
