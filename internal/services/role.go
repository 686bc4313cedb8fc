package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/events"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/types"
)

type RoleServiceInterface interface {
	GetRoles(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error)
	FindRole(ctx context.Context, id uint64) (*entities.Role, error)
	CreateRole(ctx context.Context, payload dto.RoleDTO) (*entities.Role, error)
	UpdateRole(ctx context.Context, id uint64, payload dto.RoleDTO) (*entities.Role, error)
	DeleteRole(ctx context.Context, id uint64) error
	SetRoleRoutes(ctx context.Context, id uint64, payload dto.SetRoutesDTO) error
	ListRoutes(ctx context.Context) ([]entities.Route, error)
	SetUserAccess(ctx context.Context, userID uint64, payload dto.SetUserAccessDTO) error
}

type RoleService struct {
	txManager      repositories.TxManagerInterface
	roleRepo       repositories.RoleRepositoryInterface
	permissionRepo repositories.PermissionRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	bus            *eventbus.Bus
	logger         *zap.Logger
}

func NewRoleService(
	txManager repositories.TxManagerInterface,
	roleRepo repositories.RoleRepositoryInterface,
	permissionRepo repositories.PermissionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) RoleServiceInterface {
	return &RoleService{
		txManager:      txManager,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		userRepo:       userRepo,
		bus:            bus,
		logger:         logger,
	}
}

func (s *RoleService) GetRoles(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error) {
	return s.roleRepo.GetAll(ctx, filter)
}

func (s *RoleService) FindRole(ctx context.Context, id uint64) (*entities.Role, error) {
	return s.roleRepo.FindByID(ctx, id)
}

func (s *RoleService) ListRoutes(ctx context.Context) ([]entities.Route, error) {
	return s.permissionRepo.ListRoutes(ctx)
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// checkRoutes - все переданные права должны существовать.
func (s *RoleService) checkRoutes(ctx context.Context, tx pgx.Tx, routeIDs []uint64) ([]uint64, error) {
	routeIDs = uniqueIDs(routeIDs)
	if len(routeIDs) == 0 {
		return routeIDs, nil
	}
	count, err := s.permissionRepo.CountRoutes(ctx, tx, routeIDs)
	if err != nil {
		return nil, err
	}
	if count != len(routeIDs) {
		return nil, apperrors.NewValidationError("Указаны несуществующие права")
	}
	return routeIDs, nil
}

func roleFromPayload(payload dto.RoleDTO, active bool) entities.Role {
	if payload.Active != nil {
		active = *payload.Active
	}
	return entities.Role{
		Name:        strings.TrimSpace(payload.Name),
		Description: payload.Description,
		Active:      active,
	}
}

func (s *RoleService) CreateRole(ctx context.Context, payload dto.RoleDTO) (*entities.Role, error) {
	var id uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		routeIDs, err := s.checkRoutes(ctx, tx, payload.RouteIDs)
		if err != nil {
			return err
		}
		id, err = s.roleRepo.Create(ctx, tx, roleFromPayload(payload, true))
		if err != nil {
			return err
		}
		return s.roleRepo.SetRoutes(ctx, tx, id, routeIDs)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Роль создана", zap.Uint64("roleID", id))
	return s.roleRepo.FindByID(ctx, id)
}

func (s *RoleService) UpdateRole(ctx context.Context, id uint64, payload dto.RoleDTO) (*entities.Role, error) {
	current, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var affected []uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.roleRepo.Update(ctx, tx, id, roleFromPayload(payload, current.Active)); err != nil {
			return err
		}
		if payload.RouteIDs != nil {
			routeIDs, err := s.checkRoutes(ctx, tx, payload.RouteIDs)
			if err != nil {
				return err
			}
			if err := s.roleRepo.SetRoutes(ctx, tx, id, routeIDs); err != nil {
				return err
			}
		}
		affected, err = s.roleRepo.UserIDsByRole(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publishPermissionsChanged(ctx, affected)
	return s.roleRepo.FindByID(ctx, id)
}

func (s *RoleService) DeleteRole(ctx context.Context, id uint64) error {
	var affected []uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		affected, err = s.roleRepo.UserIDsByRole(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.roleRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Роль удалена", zap.Uint64("roleID", id))
	s.publishPermissionsChanged(ctx, affected)
	return nil
}

func (s *RoleService) SetRoleRoutes(ctx context.Context, id uint64, payload dto.SetRoutesDTO) error {
	if _, err := s.roleRepo.FindByID(ctx, id); err != nil {
		return err
	}
	var affected []uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		routeIDs, err := s.checkRoutes(ctx, tx, payload.RouteIDs)
		if err != nil {
			return err
		}
		if err := s.roleRepo.SetRoutes(ctx, tx, id, routeIDs); err != nil {
			return err
		}
		affected, err = s.roleRepo.UserIDsByRole(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.publishPermissionsChanged(ctx, affected)
	return nil
}

// SetUserAccess заменяет роли и прямые права пользователя целиком.
func (s *RoleService) SetUserAccess(ctx context.Context, userID uint64, payload dto.SetUserAccessDTO) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewHttpError(http.StatusNotFound, "Пользователь не найден", err, nil)
		}
		return err
	}

	roleIDs := uniqueIDs(payload.RoleIDs)
	for _, roleID := range roleIDs {
		if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewValidationError("Роль %d не существует", roleID)
			}
			return err
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		routeIDs, err := s.checkRoutes(ctx, tx, payload.RouteIDs)
		if err != nil {
			return err
		}
		if err := s.userRepo.SetRoles(ctx, tx, userID, roleIDs); err != nil {
			return err
		}
		return s.userRepo.SetDirectRoutes(ctx, tx, userID, routeIDs)
	})
	if err != nil {
		return err
	}
	s.publishPermissionsChanged(ctx, []uint64{userID})
	return nil
}

func (s *RoleService) publishPermissionsChanged(ctx context.Context, userIDs []uint64) {
	if len(userIDs) == 0 {
		return
	}
	s.bus.Publish(ctx, events.PermissionsChangedEvent{UserIDs: userIDs})
}
