package utils

import (
	"context"

	"hr-system/pkg/contextkeys"
	apperrors "hr-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetPermissionsMapFromCtx(ctx context.Context) (map[string]bool, error) {
	permissions, ok := ctx.Value(contextkeys.UserPermissionsMapKey).(map[string]bool)
	if !ok || permissions == nil {
		return nil, apperrors.ErrForbidden
	}
	return permissions, nil
}
