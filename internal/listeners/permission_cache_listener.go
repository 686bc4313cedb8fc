package listeners

import (
	"context"

	"go.uber.org/zap"

	"hr-system/internal/events"
	"hr-system/internal/services"
	"hr-system/pkg/eventbus"
)

// PermissionCacheListener сбрасывает кеш прав после изменений доступа.
type PermissionCacheListener struct {
	permissions services.AuthPermissionServiceInterface
	logger      *zap.Logger
}

func NewPermissionCacheListener(permissions services.AuthPermissionServiceInterface, logger *zap.Logger) *PermissionCacheListener {
	return &PermissionCacheListener{permissions: permissions, logger: logger}
}

func (l *PermissionCacheListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.PermissionsChanged, l.handlePermissionsChanged)
	l.logger.Info("PermissionCacheListener подписан на событие", zap.String("event", events.PermissionsChanged))
}

func (l *PermissionCacheListener) handlePermissionsChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.PermissionsChangedEvent)
	if !ok {
		return nil
	}
	return l.permissions.InvalidateUserPermissions(ctx, e.UserIDs...)
}
