package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/middleware"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"
	appwebsocket "hr-system/pkg/websocket"
)

// OrgChartStreamController держит WebSocket, по которому приходят изменения иерархии.
// Браузер не умеет ставить заголовок Authorization при апгрейде, поэтому токен идет в ?token.
type OrgChartStreamController struct {
	hub         *appwebsocket.Hub
	jwtService  service.JWTService
	permissions middleware.PermissionProvider
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

func NewOrgChartStreamController(
	hub *appwebsocket.Hub,
	jwtService service.JWTService,
	permissions middleware.PermissionProvider,
	allowedOrigins []string,
	logger *zap.Logger,
) *OrgChartStreamController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &OrgChartStreamController{
		hub:         hub,
		jwtService:  jwtService,
		permissions: permissions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin]
			},
		},
		logger: logger,
	}
}

func (c *OrgChartStreamController) ServeWs(ctx echo.Context) error {
	tokenString := ctx.QueryParam("token")
	if tokenString == "" {
		return utils.ErrorResponse(ctx, apperrors.ErrEmptyAuthHeader, c.logger)
	}

	claims, err := c.jwtService.ValidateToken(tokenString)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if claims.IsRefreshToken {
		return utils.ErrorResponse(ctx, apperrors.ErrInvalidToken, c.logger)
	}

	granted, err := c.permissions.GetUserPermissions(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if !hasPermission(granted, constants.PermOrgChartView) {
		return utils.ErrorResponse(ctx, apperrors.ErrForbidden, c.logger)
	}

	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return err
	}

	client := appwebsocket.NewClient(c.hub, conn, claims.UserID)
	if err := c.hub.Register(client); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()))
		conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("WebSocket: клиент подключен к органиграмме", zap.Uint64("userID", claims.UserID))
	return nil
}

func hasPermission(granted []string, key string) bool {
	for _, p := range granted {
		if p == key || p == constants.PermSuperuser {
			return true
		}
	}
	return false
}
