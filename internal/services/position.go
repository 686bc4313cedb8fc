package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
)

type PositionServiceInterface interface {
	GetPositions(ctx context.Context, filter types.Filter) ([]entities.Position, uint64, error)
	ListActivePositions(ctx context.Context) ([]entities.Position, error)
	FindPosition(ctx context.Context, id uint64) (*entities.Position, error)
	CreatePosition(ctx context.Context, payload dto.PositionDTO) (*entities.Position, error)
	UpdatePosition(ctx context.Context, id uint64, payload dto.PositionDTO) (*entities.Position, error)
	RetirePosition(ctx context.Context, id uint64) error
}

type PositionService struct {
	positionRepo   repositories.PositionRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	logger         *zap.Logger
}

func NewPositionService(
	positionRepo repositories.PositionRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	logger *zap.Logger,
) PositionServiceInterface {
	return &PositionService{positionRepo: positionRepo, departmentRepo: departmentRepo, logger: logger}
}

func (s *PositionService) GetPositions(ctx context.Context, filter types.Filter) ([]entities.Position, uint64, error) {
	return s.positionRepo.GetAll(ctx, filter)
}

func (s *PositionService) ListActivePositions(ctx context.Context) ([]entities.Position, error) {
	return s.positionRepo.ListActive(ctx)
}

func (s *PositionService) FindPosition(ctx context.Context, id uint64) (*entities.Position, error) {
	data, err := s.positionRepo.FindByID(ctx, nil, id)
	if err != nil {
		s.logger.Error("Ошибка при поиске должности", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (s *PositionService) toEntity(ctx context.Context, payload dto.PositionDTO) (entities.Position, error) {
	if payload.Level < 0 {
		return entities.Position{}, apperrors.NewValidationError("Уровень должности не может быть отрицательным")
	}
	if _, err := s.departmentRepo.FindByID(ctx, nil, payload.DepartmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return entities.Position{}, fmt.Errorf("департамент %d: %w", payload.DepartmentID, apperrors.ErrNotFound)
		}
		return entities.Position{}, err
	}
	return entities.Position{
		Name:         strings.TrimSpace(payload.Name),
		DepartmentID: payload.DepartmentID,
		Level:        payload.Level,
	}, nil
}

func (s *PositionService) CreatePosition(ctx context.Context, payload dto.PositionDTO) (*entities.Position, error) {
	position, err := s.toEntity(ctx, payload)
	if err != nil {
		return nil, err
	}
	id, err := s.positionRepo.Create(ctx, nil, position)
	if err != nil {
		s.logger.Error("Ошибка при создании должности", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Должность создана", zap.Uint64("id", id), zap.Int("level", position.Level))
	return s.positionRepo.FindByID(ctx, nil, id)
}

func (s *PositionService) UpdatePosition(ctx context.Context, id uint64, payload dto.PositionDTO) (*entities.Position, error) {
	position, err := s.toEntity(ctx, payload)
	if err != nil {
		return nil, err
	}
	if err := s.positionRepo.Update(ctx, nil, id, position); err != nil {
		return nil, err
	}
	return s.positionRepo.FindByID(ctx, nil, id)
}

func (s *PositionService) RetirePosition(ctx context.Context, id uint64) error {
	return s.positionRepo.SetActive(ctx, nil, id, false)
}
