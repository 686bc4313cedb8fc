package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

// ReorganizerServiceInterface применяет к иерархии результат сохранения формы сотрудника.
type ReorganizerServiceInterface interface {
	// Apply работает внутри транзакции вызывающего кода. newPositionID == nil
	// снимает должность, newManagerID == nil убирает руководителя.
	Apply(ctx context.Context, tx pgx.Tx, personID uint64, newPositionID, newManagerID *uint64, today time.Time) (*Reorganization, error)
}

// Reorganization - итог Apply.
type Reorganization struct {
	dto.ReorganizationResultDTO
	OldPositionID *uint64
	NewPositionID *uint64
}

type ReorganizerService struct {
	assignmentRepo repositories.PositionAssignmentRepositoryInterface
	hierarchy      HierarchyServiceInterface
	logger         *zap.Logger
}

func NewReorganizerService(
	assignmentRepo repositories.PositionAssignmentRepositoryInterface,
	hierarchy HierarchyServiceInterface,
	logger *zap.Logger,
) ReorganizerServiceInterface {
	return &ReorganizerService{assignmentRepo: assignmentRepo, hierarchy: hierarchy, logger: logger}
}

func (s *ReorganizerService) Apply(ctx context.Context, tx pgx.Tx, personID uint64, newPositionID, newManagerID *uint64, today time.Time) (*Reorganization, error) {
	today = utils.NormalizeDay(today)
	result := &Reorganization{NewPositionID: newPositionID}
	result.ReassignedSubordinates = []uint64{}

	active, err := s.assignmentRepo.FindActive(ctx, tx, personID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if active != nil {
		result.OldPositionID = utils.ToPtr(active.PositionID)
	}

	if utils.DiffPtr(result.OldPositionID, newPositionID) {
		if err := s.movePosition(ctx, tx, personID, newPositionID, today, result); err != nil {
			return nil, err
		}
	}

	// собственный руководитель меняется независимо от должности
	current, err := s.hierarchy.CurrentManagerOf(ctx, tx, personID, today)
	if err != nil {
		return nil, err
	}
	switch {
	case newManagerID == nil && current != nil:
		if err := s.hierarchy.CloseEdge(ctx, tx, personID, today); err != nil {
			return nil, err
		}
		result.ManagerChanged = true
	case newManagerID != nil && (current == nil || current.ManagerID != *newManagerID):
		if err := s.hierarchy.AssignManager(ctx, tx, personID, *newManagerID, today); err != nil {
			return nil, err
		}
		result.ManagerChanged = true
	}

	if result.PositionChanged || result.ManagerChanged {
		s.logger.Info("Иерархия перестроена",
			zap.Uint64("personID", personID),
			zap.Bool("positionChanged", result.PositionChanged),
			zap.Bool("managerChanged", result.ManagerChanged),
			zap.Uint64s("reassigned", result.ReassignedSubordinates),
		)
	}
	return result, nil
}

// movePosition: подчинённые уходящего с должности переходят к его руководителю,
// а если руководителя нет - остаются без руководителя.
func (s *ReorganizerService) movePosition(ctx context.Context, tx pgx.Tx, personID uint64, newPositionID *uint64, today time.Time, result *Reorganization) error {
	managerEdge, err := s.hierarchy.CurrentManagerOf(ctx, tx, personID, today)
	if err != nil {
		return err
	}
	subordinates, err := s.hierarchy.DirectReportsOf(ctx, tx, personID, today)
	if err != nil {
		return err
	}

	if err := s.assignmentRepo.Replace(ctx, tx, personID, newPositionID, today); err != nil {
		return err
	}

	for _, sub := range subordinates {
		if managerEdge != nil {
			err = s.hierarchy.AssignManager(ctx, tx, sub, managerEdge.ManagerID, today)
		} else {
			err = s.hierarchy.CloseEdge(ctx, tx, sub, today)
		}
		if err != nil {
			return err
		}
	}

	result.PositionChanged = true
	result.ReassignedSubordinates = subordinates
	if managerEdge != nil {
		result.PreviousManagerID = utils.ToPtr(managerEdge.ManagerID)
	}
	return nil
}
