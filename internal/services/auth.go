package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/config"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Refresh(ctx context.Context, payload dto.RefreshDTO) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context, userID uint64) (*dto.UserPublicDTO, error)
}

type AuthService struct {
	userRepo    repositories.UserRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	permissions AuthPermissionServiceInterface
	jwtService  service.JWTService
	logger      *zap.Logger
	cfg         config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	permissions AuthPermissionServiceInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
	cfg config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:    userRepo,
		cacheRepo:   cacheRepo,
		permissions: permissions,
		jwtService:  jwtService,
		logger:      logger,
		cfg:         cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, payload.Username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error("Login: ошибка поиска пользователя", zap.Error(err))
		}
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := s.checkLockout(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, apperrors.ErrUserDisabled
	}
	s.resetLoginAttempts(ctx, user.ID)
	s.upgradePasswordHash(ctx, user.ID, payload.Password, user.PasswordHash)

	s.logger.Info("Пользователь вошёл в систему", zap.Uint64("userID", user.ID))
	return s.issueTokens(ctx, user)
}

// upgradePasswordHash пересчитывает устаревший хеш; ошибка не мешает входу.
func (s *AuthService) upgradePasswordHash(ctx context.Context, userID uint64, password, current string) {
	if !utils.NeedsRehash(current) {
		return
	}
	hash, err := utils.HashPassword(password)
	if err == nil {
		err = s.userRepo.UpdatePasswordHash(ctx, nil, userID, hash)
	}
	if err != nil {
		s.logger.Warn("Не удалось обновить хеш пароля", zap.Uint64("userID", userID), zap.Error(err))
	}
}

func (s *AuthService) Refresh(ctx context.Context, payload dto.RefreshDTO) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !user.Active {
		return nil, apperrors.ErrUserDisabled
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Me(ctx context.Context, userID uint64) (*dto.UserPublicDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	permissions, err := s.permissions.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserPublicDTO{ID: user.ID, Username: user.Username, PersonID: user.PersonID, Permissions: permissions}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *entities.User) (*dto.AuthResponseDTO, error) {
	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		return nil, fmt.Errorf("не удалось выпустить токены: %w", err)
	}
	permissions, err := s.permissions.GetUserPermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserPublicDTO{
			ID:          user.ID,
			Username:    user.Username,
			PersonID:    user.PersonID,
			Permissions: permissions,
		},
	}, nil
}

func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	lockoutKey := fmt.Sprintf("lockout:%d", userID)

	// Если ключ существует - аккаунт заблокирован
	if _, err := s.cacheRepo.Get(ctx, lockoutKey); err == nil {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	attempts, err := s.cacheRepo.IncrWithTTL(ctx, attemptsKey, s.cfg.LockoutDuration)
	if err != nil {
		s.logger.Warn("Не удалось учесть неудачную попытку входа", zap.Uint64("userID", userID), zap.Error(err))
		return
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		lockoutKey := fmt.Sprintf("lockout:%d", userID)
		_ = s.cacheRepo.Set(ctx, lockoutKey, "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
		s.logger.Warn("Учётная запись временно заблокирована", zap.Uint64("userID", userID))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	lockoutKey := fmt.Sprintf("lockout:%d", userID)
	_ = s.cacheRepo.Del(ctx, attemptsKey, lockoutKey)
}
