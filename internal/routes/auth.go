package routes

import (
	"github.com/labstack/echo/v4"

	"hr-system/internal/controllers"
	"hr-system/pkg/middleware"
)

func runAuthRouter(api *echo.Group, authCtrl *controllers.AuthController, authMW *middleware.AuthMiddleware) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/refresh_token", authCtrl.Refresh)
		authGroup.GET("/me", authCtrl.Me, authMW.Auth)
	}
}
