package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/pkg/constants"
	"hr-system/pkg/contextkeys"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"
)

// SuperuserPermission открывает все маршруты.
const SuperuserPermission = constants.PermSuperuser

// PermissionProvider отдает итоговый набор прав пользователя (роли + личные права).
type PermissionProvider interface {
	GetUserPermissions(ctx context.Context, userID uint64) ([]string, error)
}

type AuthMiddleware struct {
	jwtService  service.JWTService
	permissions PermissionProvider
	logger      *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, permissions PermissionProvider, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtSvc,
		permissions: permissions,
		logger:      logger,
	}
}

// Auth проверяет Bearer-токен и кладет UserID и права в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.UserIDKey, claims.UserID)

		names, err := m.permissions.GetUserPermissions(ctx, claims.UserID)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}
		permMap := make(map[string]bool, len(names))
		for _, name := range names {
			permMap[name] = true
		}
		ctx = context.WithValue(ctx, contextkeys.UserPermissionsMapKey, permMap)
		c.SetRequest(c.Request().WithContext(ctx))

		m.logger.Debug("AuthMiddleware: Пользователь аутентифицирован", zap.Uint64("userID", claims.UserID), zap.Int("permissions", len(permMap)))
		return next(c)
	}
}

// RequirePermission пропускает запрос, если у пользователя есть право key или superuser.
func (m *AuthMiddleware) RequirePermission(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			permMap, err := utils.GetPermissionsMapFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if permMap[SuperuserPermission] || permMap[key] {
				return next(c)
			}
			userID, _ := utils.GetUserIDFromCtx(c.Request().Context())
			m.logger.Warn("Доступ запрещён", zap.Uint64("userID", userID), zap.String("permission", key), zap.String("uri", c.Request().RequestURI))
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
	}
}
