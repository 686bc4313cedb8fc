package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/types"
)

type DepartmentServiceInterface interface {
	GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error)
	FindDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	CreateDepartment(ctx context.Context, payload dto.DepartmentDTO) (*entities.Department, error)
	UpdateDepartment(ctx context.Context, id uint64, payload dto.DepartmentDTO) (*entities.Department, error)
	RetireDepartment(ctx context.Context, id uint64) error
}

type DepartmentService struct {
	departmentRepo repositories.DepartmentRepositoryInterface
	logger         *zap.Logger
}

func NewDepartmentService(departmentRepo repositories.DepartmentRepositoryInterface, logger *zap.Logger) DepartmentServiceInterface {
	return &DepartmentService{departmentRepo: departmentRepo, logger: logger}
}

func (s *DepartmentService) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error) {
	return s.departmentRepo.GetAll(ctx, filter)
}

func (s *DepartmentService) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	return s.departmentRepo.FindByID(ctx, nil, id)
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, payload dto.DepartmentDTO) (*entities.Department, error) {
	id, err := s.departmentRepo.Create(ctx, nil, entities.Department{Name: strings.TrimSpace(payload.Name)})
	if err != nil {
		s.logger.Error("Ошибка при создании департамента", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Департамент создан", zap.Uint64("id", id))
	return s.departmentRepo.FindByID(ctx, nil, id)
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, id uint64, payload dto.DepartmentDTO) (*entities.Department, error) {
	if err := s.departmentRepo.Update(ctx, nil, id, entities.Department{Name: strings.TrimSpace(payload.Name)}); err != nil {
		return nil, err
	}
	return s.departmentRepo.FindByID(ctx, nil, id)
}

// RetireDepartment - мягкое удаление, история должностей остаётся.
func (s *DepartmentService) RetireDepartment(ctx context.Context, id uint64) error {
	if err := s.departmentRepo.SetActive(ctx, nil, id, false); err != nil {
		return err
	}
	s.logger.Info("Департамент выведен из структуры", zap.Uint64("id", id))
	return nil
}
