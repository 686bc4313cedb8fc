package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
)

// AuthPermissionServiceInterface - итоговые права пользователя с кешем в Redis.
type AuthPermissionServiceInterface interface {
	GetUserPermissions(ctx context.Context, userID uint64) ([]string, error)
	InvalidateUserPermissions(ctx context.Context, userIDs ...uint64) error
}

type AuthPermissionService struct {
	permissionRepo repositories.PermissionRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	logger         *zap.Logger
	cacheTTL       time.Duration
}

func NewAuthPermissionService(
	permissionRepo repositories.PermissionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) AuthPermissionServiceInterface {
	return &AuthPermissionService{
		permissionRepo: permissionRepo,
		userRepo:       userRepo,
		cacheRepo:      cacheRepo,
		logger:         logger,
		cacheTTL:       cacheTTL,
	}
}

func userPermissionsKey(userID uint64) string {
	return fmt.Sprintf("auth:permissions:user:%d", userID)
}

func (s *AuthPermissionService) GetUserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	cacheKey := userPermissionsKey(userID)
	var permissions []string

	// 1. Попытка получить данные из Redis-кеша
	cached, errGet := s.cacheRepo.Get(ctx, cacheKey)
	if errGet == nil {
		if err := json.Unmarshal([]byte(cached), &permissions); err == nil {
			s.logger.Debug("AuthPermissionService: права найдены в кеше", zap.Uint64("userID", userID))
			return permissions, nil
		} else {
			s.logger.Warn("AuthPermissionService: повреждённые данные в кеше", zap.String("key", cacheKey), zap.Error(err))
		}
	} else {
		s.logger.Debug("AuthPermissionService: права не найдены в кеше, запрос к БД", zap.Uint64("userID", userID), zap.Error(errGet))
	}

	// 2. Отключённая учётная запись прав не имеет и в кеш не попадает
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("AuthPermissionService: пользователь не найден", zap.Uint64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrUnauthorized
	}
	if !user.Active {
		return nil, apperrors.ErrUserDisabled
	}

	permissions, err = s.permissionRepo.GetUserPermissionKeys(ctx, userID)
	if err != nil {
		s.logger.Error("AuthPermissionService: не удалось получить права из БД", zap.Uint64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}

	// 3. Кешируем полученные из БД данные обратно в Redis
	payload, errMarshal := json.Marshal(permissions)
	if errMarshal != nil {
		s.logger.Error("AuthPermissionService: не удалось сериализовать права", zap.Error(errMarshal))
		return permissions, nil
	}
	if errSet := s.cacheRepo.Set(ctx, cacheKey, string(payload), s.cacheTTL); errSet != nil {
		s.logger.Error("AuthPermissionService: не удалось сохранить права в кеш", zap.Uint64("userID", userID), zap.Error(errSet))
	}
	return permissions, nil
}

func (s *AuthPermissionService) InvalidateUserPermissions(ctx context.Context, userIDs ...uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, userPermissionsKey(id))
	}
	if err := s.cacheRepo.Del(ctx, keys...); err != nil {
		s.logger.Error("AuthPermissionService: ошибка инвалидации кеша прав", zap.Uint64s("userIDs", userIDs), zap.Error(err))
		return err
	}
	s.logger.Info("AuthPermissionService: кеш прав инвалидирован", zap.Uint64s("userIDs", userIDs))
	return nil
}
