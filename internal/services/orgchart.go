package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/orgchart"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

const noPositionLabel = "Без должности"

// ChartRenderer рисует органиграмму. Реализация - orgchart.Renderer.
type ChartRenderer interface {
	Render(chart *orgchart.Chart) ([]byte, error)
	Placeholder(message string) []byte
}

type OrgChartServiceInterface interface {
	DepartmentChart(ctx context.Context, departmentID uint64, asOf time.Time) (*dto.OrgChartDTO, error)
	PersonChart(ctx context.Context, rootID uint64, asOf time.Time) (*dto.OrgChartDTO, error)
	PersonSubtreeCount(ctx context.Context, rootID uint64, asOf time.Time) (*dto.SubtreeCountDTO, error)
	PersonSubtreeTable(ctx context.Context, rootID uint64, asOf time.Time) ([]dto.SubtreeRowDTO, error)
	// RenderPNG не возвращает ошибку: при сбое отрисовки отдаётся заглушка и degraded == true.
	RenderPNG(ctx context.Context, chart *dto.OrgChartDTO) (png []byte, degraded bool)
}

type OrgChartService struct {
	personRepo     repositories.PersonRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	hierarchy      HierarchyServiceInterface
	renderer       ChartRenderer
	logger         *zap.Logger
}

func NewOrgChartService(
	personRepo repositories.PersonRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	hierarchy HierarchyServiceInterface,
	renderer ChartRenderer,
	logger *zap.Logger,
) OrgChartServiceInterface {
	return &OrgChartService{
		personRepo:     personRepo,
		departmentRepo: departmentRepo,
		hierarchy:      hierarchy,
		renderer:       renderer,
		logger:         logger,
	}
}

func toMember(item entities.PersonListItem) orgchart.Member {
	position := noPositionLabel
	if item.PositionName.Valid {
		position = item.PositionName.String
	}
	return orgchart.Member{
		PersonID:     item.ID,
		Name:         item.FullName(),
		PositionName: position,
		Level:        item.PositionLevel.Int,
	}
}

func (s *OrgChartService) buildChart(items []entities.PersonListItem, edges []orgchart.Edge) *orgchart.Chart {
	members := make([]orgchart.Member, 0, len(items))
	for _, item := range items {
		members = append(members, toMember(item))
	}
	chart := orgchart.Layout(members, edges)
	algorithm, err := orgchart.Arrange(chart)
	if err != nil {
		s.logger.Warn("Послойная раскладка невозможна, использована силовая",
			zap.String("algorithm", algorithm),
			zap.Error(err),
		)
	}
	return chart
}

func (s *OrgChartService) requirePerson(ctx context.Context, id uint64) error {
	if _, err := s.personRepo.FindByID(ctx, nil, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("сотрудник %d: %w", id, apperrors.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *OrgChartService) DepartmentChart(ctx context.Context, departmentID uint64, asOf time.Time) (*dto.OrgChartDTO, error) {
	asOf = utils.NormalizeDay(asOf)
	if _, err := s.departmentRepo.FindByID(ctx, nil, departmentID); err != nil {
		return nil, err
	}

	items, err := s.personRepo.ListWithPositionAt(ctx, nil, &departmentID, asOf)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.NewHttpError(http.StatusNotFound, "Нет данных для этого департамента", apperrors.ErrNotFound, nil)
	}

	_, edges, err := s.hierarchy.GraphAt(ctx, nil, asOf)
	if err != nil {
		return nil, err
	}

	return &dto.OrgChartDTO{
		DepartmentID: utils.ToPtr(departmentID),
		AsOf:         asOf.Format(utils.DateLayout),
		Chart:        s.buildChart(items, edges),
	}, nil
}

func (s *OrgChartService) subtree(ctx context.Context, rootID uint64, asOf time.Time) ([]uint64, []orgchart.Edge, error) {
	if err := s.requirePerson(ctx, rootID); err != nil {
		return nil, nil, err
	}
	graph, edges, err := s.hierarchy.GraphAt(ctx, nil, asOf)
	if err != nil {
		return nil, nil, err
	}
	return orgchart.SubtreeFrom(graph, rootID), edges, nil
}

func (s *OrgChartService) PersonChart(ctx context.Context, rootID uint64, asOf time.Time) (*dto.OrgChartDTO, error) {
	asOf = utils.NormalizeDay(asOf)
	ids, edges, err := s.subtree(ctx, rootID, asOf)
	if err != nil {
		return nil, err
	}
	items, err := s.personRepo.FindListItemsAt(ctx, nil, ids, asOf)
	if err != nil {
		return nil, err
	}
	return &dto.OrgChartDTO{
		RootID: utils.ToPtr(rootID),
		AsOf:   asOf.Format(utils.DateLayout),
		Chart:  s.buildChart(items, edges),
	}, nil
}

func (s *OrgChartService) PersonSubtreeCount(ctx context.Context, rootID uint64, asOf time.Time) (*dto.SubtreeCountDTO, error) {
	asOf = utils.NormalizeDay(asOf)
	ids, _, err := s.subtree(ctx, rootID, asOf)
	if err != nil {
		return nil, err
	}
	return &dto.SubtreeCountDTO{RootID: rootID, AsOf: asOf.Format(utils.DateLayout), Descendants: len(ids) - 1}, nil
}

// PersonSubtreeTable - все подчинённые root в порядке обхода в ширину.
func (s *OrgChartService) PersonSubtreeTable(ctx context.Context, rootID uint64, asOf time.Time) ([]dto.SubtreeRowDTO, error) {
	asOf = utils.NormalizeDay(asOf)
	ids, edges, err := s.subtree(ctx, rootID, asOf)
	if err != nil {
		return nil, err
	}
	items, err := s.personRepo.FindListItemsAt(ctx, nil, ids, asOf)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]entities.PersonListItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	inSubtree := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		inSubtree[id] = true
	}
	managerOf := make(map[uint64]uint64, len(ids))
	for _, e := range edges {
		if inSubtree[e.ManagerID] && inSubtree[e.PersonID] {
			managerOf[e.PersonID] = e.ManagerID
		}
	}

	depth := map[uint64]int{rootID: 0}
	rows := make([]dto.SubtreeRowDTO, 0, len(ids)-1)
	for _, id := range ids[1:] {
		managerID := managerOf[id]
		depth[id] = depth[managerID] + 1

		item := byID[id]
		position := noPositionLabel
		if item.PositionName.Valid {
			position = item.PositionName.String
		}
		manager := byID[managerID]
		rows = append(rows, dto.SubtreeRowDTO{
			ID:           id,
			Name:         item.FullName(),
			PositionName: position,
			Level:        item.PositionLevel.Int,
			Department:   item.DepartmentName.String,
			ManagerID:    utils.ToPtr(managerID),
			ManagerName:  manager.FullName(),
			Depth:        depth[id],
		})
	}
	return rows, nil
}

func (s *OrgChartService) RenderPNG(ctx context.Context, chart *dto.OrgChartDTO) ([]byte, bool) {
	png, err := s.renderer.Render(chart.Chart)
	if err == nil {
		return png, false
	}
	s.logger.Error("Органиграмма заменена заглушкой",
		zap.Error(fmt.Errorf("%w: %v", apperrors.ErrRenderUnavailable, err)),
		zap.Int("nodes", len(chart.Nodes)),
	)
	return s.renderer.Placeholder("Не удалось построить органиграмму"), true
}
