package routes

import (
	"github.com/labstack/echo/v4"

	"hr-system/internal/controllers"
	"hr-system/pkg/constants"
	"hr-system/pkg/middleware"
)

func runRoleRouter(secureGroup *echo.Group, roleCtrl *controllers.RoleController, authMW *middleware.AuthMiddleware) {
	view := authMW.RequirePermission(constants.PermRolesView)
	edit := authMW.RequirePermission(constants.PermRolesEdit)

	roles := secureGroup.Group("/roles")
	roles.GET("", roleCtrl.GetRoles, view)
	roles.POST("", roleCtrl.CreateRole, edit)
	roles.GET("/:id", roleCtrl.FindRole, view)
	roles.PUT("/:id", roleCtrl.UpdateRole, edit)
	roles.DELETE("/:id", roleCtrl.DeleteRole, edit)
	roles.PUT("/:id/routes", roleCtrl.SetRoleRoutes, edit)

	secureGroup.GET("/routes", roleCtrl.GetRoutes, view)
	secureGroup.PUT("/users/:id/access", roleCtrl.SetUserAccess, edit)
}
