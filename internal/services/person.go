package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/events"
	"hr-system/internal/repositories"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/types"
	"hr-system/pkg/utils"
)

type PersonServiceInterface interface {
	ListPersons(ctx context.Context, filter types.Filter) ([]entities.PersonListItem, uint64, error)
	GetPerson(ctx context.Context, id uint64) (*dto.PersonDetailDTO, error)
	CreatePerson(ctx context.Context, payload dto.CreatePersonDTO) (*dto.PersonDetailDTO, error)
	UpdatePerson(ctx context.Context, id uint64, payload dto.UpdatePersonDTO) (*dto.ReorganizationResultDTO, error)
	TerminatePerson(ctx context.Context, id uint64, payload dto.TerminatePersonDTO) error
	FormData(ctx context.Context) (*dto.PersonFormDataDTO, error)
	ManagerHistory(ctx context.Context, id uint64) ([]entities.ReportsToEdge, error)
	PositionHistory(ctx context.Context, id uint64) ([]entities.PositionAssignment, error)
}

type PersonService struct {
	txManager      repositories.TxManagerInterface
	personRepo     repositories.PersonRepositoryInterface
	positionRepo   repositories.PositionRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	assignmentRepo repositories.PositionAssignmentRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	hierarchy      HierarchyServiceInterface
	reorganizer    ReorganizerServiceInterface
	bus            *eventbus.Bus
	logger         *zap.Logger
	today          func() time.Time
}

func NewPersonService(
	txManager repositories.TxManagerInterface,
	personRepo repositories.PersonRepositoryInterface,
	positionRepo repositories.PositionRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	assignmentRepo repositories.PositionAssignmentRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	hierarchy HierarchyServiceInterface,
	reorganizer ReorganizerServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) PersonServiceInterface {
	return &PersonService{
		txManager:      txManager,
		personRepo:     personRepo,
		positionRepo:   positionRepo,
		departmentRepo: departmentRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		hierarchy:      hierarchy,
		reorganizer:    reorganizer,
		bus:            bus,
		logger:         logger,
		today:          utils.Today,
	}
}

func (s *PersonService) ListPersons(ctx context.Context, filter types.Filter) ([]entities.PersonListItem, uint64, error) {
	return s.personRepo.GetAll(ctx, filter)
}

func (s *PersonService) GetPerson(ctx context.Context, id uint64) (*dto.PersonDetailDTO, error) {
	item, err := s.personRepo.FindListItem(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &dto.PersonDetailDTO{PersonListItem: *item}

	edge, err := s.hierarchy.CurrentManagerOf(ctx, nil, id, s.today())
	if err != nil {
		return nil, err
	}
	if edge != nil {
		detail.ManagerID = null.Uint64From(edge.ManagerID)
		detail.ManagerName = null.StringFrom(edge.ManagerName)
	}

	if item.IsTerminated() {
		termination, err := s.personRepo.FindTermination(ctx, id)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		detail.Termination = termination
	}
	return detail, nil
}

func personFromPayload(given, paternal, maternal string, email, number, phoneOne, phoneTwo null.String) entities.Person {
	return entities.Person{
		GivenName:       strings.TrimSpace(given),
		SurnamePaternal: strings.TrimSpace(paternal),
		SurnameMaternal: strings.TrimSpace(maternal),
		Email:           email,
		EmployeeNumber:  number,
		PhoneOne:        phoneOne,
		PhoneTwo:        phoneTwo,
	}
}

// requireActivePosition - назначать можно только на действующую должность.
func (s *PersonService) requireActivePosition(ctx context.Context, tx pgx.Tx, positionID uint64) error {
	position, err := s.positionRepo.FindByID(ctx, tx, positionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewHttpError(http.StatusNotFound, fmt.Sprintf("Должность %d не найдена", positionID), err, nil)
	}
	if err != nil {
		return err
	}
	if !position.Active {
		return apperrors.NewValidationError("Должность «%s» выведена из штата", position.Name)
	}
	return nil
}

func (s *PersonService) CreatePerson(ctx context.Context, payload dto.CreatePersonDTO) (*dto.PersonDetailDTO, error) {
	today := s.today()
	startDate, err := utils.ParseDateOr(payload.StartDate, today)
	if err != nil {
		return nil, apperrors.NewValidationError("%s", err.Error())
	}
	if startDate.After(today) {
		return nil, apperrors.NewValidationError("Дата начала не может быть в будущем")
	}

	var newID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		person := personFromPayload(payload.GivenName, payload.SurnamePaternal, payload.SurnameMaternal,
			payload.Email, payload.EmployeeNumber, payload.PhoneOne, payload.PhoneTwo)
		id, err := s.personRepo.Create(ctx, tx, person)
		if err != nil {
			return err
		}
		newID = id

		if payload.PositionID.Valid {
			if err := s.requireActivePosition(ctx, tx, payload.PositionID.Uint64); err != nil {
				return err
			}
			if err := s.assignmentRepo.Replace(ctx, tx, id, utils.ToPtr(payload.PositionID.Uint64), startDate); err != nil {
				return err
			}
		}

		if payload.ManagerID.Valid {
			if err := s.hierarchy.AssignManager(ctx, tx, id, payload.ManagerID.Uint64, startDate); err != nil {
				return err
			}
		}

		if payload.Username != "" {
			hash, err := utils.HashPassword(payload.Password)
			if err != nil {
				return fmt.Errorf("не удалось захешировать пароль: %w", err)
			}
			user := entities.User{
				PersonID:     null.Uint64From(id),
				Username:     strings.TrimSpace(payload.Username),
				PasswordHash: hash,
				Active:       true,
			}
			if _, err := s.userRepo.Create(ctx, tx, user); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Ошибка регистрации сотрудника", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Сотрудник зарегистрирован", zap.Uint64("personID", newID))
	return s.GetPerson(ctx, newID)
}

func (s *PersonService) UpdatePerson(ctx context.Context, id uint64, payload dto.UpdatePersonDTO) (*dto.ReorganizationResultDTO, error) {
	today := s.today()
	var newPositionID, newManagerID *uint64
	if payload.PositionID.Valid {
		newPositionID = utils.ToPtr(payload.PositionID.Uint64)
	}
	if payload.ManagerID.Valid {
		newManagerID = utils.ToPtr(payload.ManagerID.Uint64)
	}

	var result *Reorganization
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.personRepo.FindByID(ctx, tx, id); err != nil {
			return err
		}
		person := personFromPayload(payload.GivenName, payload.SurnamePaternal, payload.SurnameMaternal,
			payload.Email, payload.EmployeeNumber, payload.PhoneOne, payload.PhoneTwo)
		if err := s.personRepo.Update(ctx, tx, id, person); err != nil {
			return err
		}

		if newPositionID != nil {
			if err := s.requireActivePosition(ctx, tx, *newPositionID); err != nil {
				return err
			}
		}

		var err error
		result, err = s.reorganizer.Apply(ctx, tx, id, newPositionID, newManagerID, today)
		return err
	})
	if err != nil {
		s.logger.Error("Ошибка сохранения сотрудника", zap.Uint64("personID", id), zap.Error(err))
		return nil, err
	}

	if result.PositionChanged || result.ManagerChanged {
		actorID, _ := utils.GetUserIDFromCtx(ctx)
		s.bus.Publish(ctx, events.HierarchyReorganizedEvent{
			PersonID:               id,
			ActorID:                actorID,
			Date:                   today,
			OldPositionID:          result.OldPositionID,
			NewPositionID:          result.NewPositionID,
			PreviousManagerID:      result.PreviousManagerID,
			ReassignedSubordinates: result.ReassignedSubordinates,
			ManagerChanged:         result.ManagerChanged,
		})
	}
	return &result.ReorganizationResultDTO, nil
}

func (s *PersonService) TerminatePerson(ctx context.Context, id uint64, payload dto.TerminatePersonDTO) error {
	date, err := utils.ParseDateOr(payload.Date, s.today())
	if err != nil {
		return apperrors.NewValidationError("%s", err.Error())
	}

	var disabled []uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		person, err := s.personRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if person.IsTerminated() {
			return apperrors.NewValidationError("Сотрудник %s уже уволен", person.FullName())
		}
		termination := entities.Termination{PersonID: id, Reason: strings.TrimSpace(payload.Reason), Date: date}
		if _, err := s.personRepo.CreateTermination(ctx, tx, termination); err != nil {
			return err
		}
		if err := s.personRepo.SetStatus(ctx, tx, id, constants.PersonStatusTerminated); err != nil {
			return err
		}
		disabled, err = s.userRepo.DisableByPerson(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Error("Ошибка регистрации увольнения", zap.Uint64("personID", id), zap.Error(err))
		return err
	}

	actorID, _ := utils.GetUserIDFromCtx(ctx)
	s.bus.Publish(ctx, events.PersonTerminatedEvent{
		PersonID:        id,
		ActorID:         actorID,
		Date:            date,
		Reason:          payload.Reason,
		DisabledUserIDs: disabled,
	})
	if len(disabled) > 0 {
		s.bus.Publish(ctx, events.PermissionsChangedEvent{UserIDs: disabled})
	}
	return nil
}

func (s *PersonService) FormData(ctx context.Context) (*dto.PersonFormDataDTO, error) {
	departments, err := s.departmentRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.positionRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := s.personRepo.ListActiveWithPosition(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	managers := make([]dto.ManagerOptionDTO, 0, len(candidates))
	for _, c := range candidates {
		managers = append(managers, dto.ManagerOptionDTO{
			ID:           c.ID,
			Name:         c.FullName(),
			PositionName: c.PositionName.String,
			Level:        c.PositionLevel.Int,
		})
	}
	return &dto.PersonFormDataDTO{Departments: departments, Positions: positions, Managers: managers}, nil
}

func (s *PersonService) ManagerHistory(ctx context.Context, id uint64) ([]entities.ReportsToEdge, error) {
	return s.hierarchy.ManagerHistory(ctx, id)
}

// PositionHistory - все назначения на должности, новые сверху.
func (s *PersonService) PositionHistory(ctx context.Context, id uint64) ([]entities.PositionAssignment, error) {
	if _, err := s.personRepo.FindByID(ctx, nil, id); err != nil {
		return nil, err
	}
	return s.assignmentRepo.History(ctx, id)
}
