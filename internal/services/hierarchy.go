package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hr-system/internal/entities"
	"hr-system/internal/orgchart"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

// HierarchyServiceInterface - временная иерархия подчинения. Все методы
// принимают транзакцию вызывающего кода, nil - работа через пул.
type HierarchyServiceInterface interface {
	AssignManager(ctx context.Context, tx pgx.Tx, personID, managerID uint64, effectiveDate time.Time) error
	CloseEdge(ctx context.Context, tx pgx.Tx, personID uint64, effectiveDate time.Time) error
	// CurrentManagerOf возвращает nil без ошибки, если руководителя на дату нет.
	CurrentManagerOf(ctx context.Context, tx pgx.Tx, personID uint64, asOf time.Time) (*entities.ReportsToEdge, error)
	DirectReportsOf(ctx context.Context, tx pgx.Tx, personID uint64, asOf time.Time) ([]uint64, error)
	GraphAt(ctx context.Context, tx pgx.Tx, asOf time.Time) (*orgchart.Graph, []orgchart.Edge, error)
	ManagerHistory(ctx context.Context, personID uint64) ([]entities.ReportsToEdge, error)
}

type HierarchyService struct {
	personRepo repositories.PersonRepositoryInterface
	edgeRepo   repositories.ManagerAssignmentRepositoryInterface
	logger     *zap.Logger
}

func NewHierarchyService(
	personRepo repositories.PersonRepositoryInterface,
	edgeRepo repositories.ManagerAssignmentRepositoryInterface,
	logger *zap.Logger,
) HierarchyServiceInterface {
	return &HierarchyService{personRepo: personRepo, edgeRepo: edgeRepo, logger: logger}
}

func (s *HierarchyService) requirePerson(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, err := s.personRepo.FindByID(ctx, tx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("сотрудник %d: %w", id, apperrors.ErrNotFound)
		}
		return err
	}
	return nil
}

// AssignManager закрывает открытое ребро сотрудника датой effectiveDate и
// открывает новое на managerID с той же даты.
func (s *HierarchyService) AssignManager(ctx context.Context, tx pgx.Tx, personID, managerID uint64, effectiveDate time.Time) error {
	date := utils.NormalizeDay(effectiveDate)

	if personID == managerID {
		return apperrors.NewInvalidAssignmentError("Сотрудник не может быть руководителем самому себе")
	}
	if err := s.requirePerson(ctx, tx, personID); err != nil {
		return err
	}
	if err := s.requirePerson(ctx, tx, managerID); err != nil {
		return err
	}

	graph, _, err := s.GraphAt(ctx, tx, date)
	if err != nil {
		return err
	}
	if orgchart.IsDescendant(graph, personID, managerID) {
		return apperrors.NewInvalidAssignmentError("Нельзя назначить руководителем подчинённого (%d -> %d)", personID, managerID)
	}

	open, err := s.edgeRepo.FindOpenEdge(ctx, tx, personID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		open = nil
	case err != nil:
		return err
	}

	if open != nil {
		if date.Before(open.EffectiveStart) {
			return apperrors.NewValidationError("Дата %s раньше начала текущего подчинения (%s)",
				date.Format(utils.DateLayout), open.EffectiveStart.Format(utils.DateLayout))
		}
		if err := s.edgeRepo.CloseEdge(ctx, tx, open.ID, date); err != nil {
			return err
		}
	}

	if _, err := s.edgeRepo.InsertEdge(ctx, tx, personID, managerID, date); err != nil {
		return err
	}

	s.logger.Info("Назначен руководитель",
		zap.Uint64("personID", personID),
		zap.Uint64("managerID", managerID),
		zap.Time("effectiveDate", date),
	)
	return nil
}

// CloseEdge завершает подчинение без замены. Нет открытого ребра - ничего не делает.
func (s *HierarchyService) CloseEdge(ctx context.Context, tx pgx.Tx, personID uint64, effectiveDate time.Time) error {
	date := utils.NormalizeDay(effectiveDate)

	open, err := s.edgeRepo.FindOpenEdge(ctx, tx, personID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if date.Before(open.EffectiveStart) {
		return apperrors.NewValidationError("Дата %s раньше начала текущего подчинения (%s)",
			date.Format(utils.DateLayout), open.EffectiveStart.Format(utils.DateLayout))
	}
	if err := s.edgeRepo.CloseEdge(ctx, tx, open.ID, date); err != nil {
		return err
	}

	s.logger.Info("Подчинение закрыто", zap.Uint64("personID", personID), zap.Time("effectiveDate", date))
	return nil
}

func (s *HierarchyService) CurrentManagerOf(ctx context.Context, tx pgx.Tx, personID uint64, asOf time.Time) (*entities.ReportsToEdge, error) {
	edge, err := s.edgeRepo.FindEdgeAt(ctx, tx, personID, utils.NormalizeDay(asOf))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return edge, nil
}

func (s *HierarchyService) DirectReportsOf(ctx context.Context, tx pgx.Tx, personID uint64, asOf time.Time) ([]uint64, error) {
	edges, err := s.edgeRepo.FindReportsAt(ctx, tx, personID, utils.NormalizeDay(asOf))
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.PersonID)
	}
	return ids, nil
}

// GraphAt - снимок всей иерархии на дату.
func (s *HierarchyService) GraphAt(ctx context.Context, tx pgx.Tx, asOf time.Time) (*orgchart.Graph, []orgchart.Edge, error) {
	stored, err := s.edgeRepo.ListEdgesAt(ctx, tx, utils.NormalizeDay(asOf))
	if err != nil {
		return nil, nil, err
	}
	edges := make([]orgchart.Edge, 0, len(stored))
	for _, e := range stored {
		edges = append(edges, orgchart.Edge{ManagerID: e.ManagerID, PersonID: e.PersonID})
	}
	return orgchart.NewGraph(edges), edges, nil
}

func (s *HierarchyService) ManagerHistory(ctx context.Context, personID uint64) ([]entities.ReportsToEdge, error) {
	if err := s.requirePerson(ctx, nil, personID); err != nil {
		return nil, err
	}
	return s.edgeRepo.History(ctx, personID)
}
