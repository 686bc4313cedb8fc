package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

type AbsenceServiceInterface interface {
	ListAbsenceReasons(ctx context.Context) ([]entities.AbsenceReason, error)
	RegisterAbsence(ctx context.Context, payload dto.RegisterAbsenceDTO) (*entities.Absence, error)
	ListPersonAbsences(ctx context.Context, personID uint64, from, to time.Time) ([]entities.Absence, error)
}

type AbsenceService struct {
	absenceRepo repositories.AbsenceRepositoryInterface
	personRepo  repositories.PersonRepositoryInterface
	logger      *zap.Logger
}

func NewAbsenceService(
	absenceRepo repositories.AbsenceRepositoryInterface,
	personRepo repositories.PersonRepositoryInterface,
	logger *zap.Logger,
) AbsenceServiceInterface {
	return &AbsenceService{absenceRepo: absenceRepo, personRepo: personRepo, logger: logger}
}

func (s *AbsenceService) ListAbsenceReasons(ctx context.Context) ([]entities.AbsenceReason, error) {
	return s.absenceRepo.ListReasons(ctx)
}

func (s *AbsenceService) RegisterAbsence(ctx context.Context, payload dto.RegisterAbsenceDTO) (*entities.Absence, error) {
	start, err := utils.ParseDate(payload.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("%s", err.Error())
	}
	end, err := utils.ParseDate(payload.EndDate)
	if err != nil {
		return nil, apperrors.NewValidationError("%s", err.Error())
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("Дата окончания раньше даты начала")
	}

	// часы только парой и только для отсутствия в пределах одного дня
	if payload.StartTime.Valid != payload.EndTime.Valid {
		return nil, apperrors.NewValidationError("Нужно указать и время начала, и время окончания")
	}
	if payload.StartTime.Valid {
		from, err := utils.ParseClock(payload.StartTime.String)
		if err != nil {
			return nil, apperrors.NewValidationError("%s", err.Error())
		}
		to, err := utils.ParseClock(payload.EndTime.String)
		if err != nil {
			return nil, apperrors.NewValidationError("%s", err.Error())
		}
		if !start.Equal(end) {
			return nil, apperrors.NewValidationError("Время указывается только для отсутствия в течение одного дня")
		}
		if !to.After(from) {
			return nil, apperrors.NewValidationError("Время окончания должно быть позже времени начала")
		}
	}

	person, err := s.personRepo.FindByID(ctx, nil, payload.PersonID)
	if err != nil {
		return nil, err
	}
	if person.IsTerminated() {
		return nil, apperrors.NewValidationError("Сотрудник %s уволен", person.FullName())
	}
	reason, err := s.absenceRepo.FindReason(ctx, payload.ReasonID)
	if err != nil {
		return nil, err
	}

	absence := entities.Absence{
		PersonID:   payload.PersonID,
		ReasonID:   payload.ReasonID,
		ReasonName: reason.Name,
		StartDate:  start,
		EndDate:    end,
		StartTime:  payload.StartTime,
		EndTime:    payload.EndTime,
		Comment:    payload.Comment,
	}
	absence.ID, err = s.absenceRepo.Create(ctx, nil, absence)
	if err != nil {
		s.logger.Error("Ошибка регистрации отсутствия", zap.Uint64("personID", payload.PersonID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Отсутствие зарегистрировано",
		zap.Uint64("personID", payload.PersonID),
		zap.String("reason", reason.Name),
		zap.Time("from", start),
		zap.Time("to", end),
	)
	return &absence, nil
}

func (s *AbsenceService) ListPersonAbsences(ctx context.Context, personID uint64, from, to time.Time) ([]entities.Absence, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperrors.NewValidationError("Неверный период")
	}
	if _, err := s.personRepo.FindByID(ctx, nil, personID); err != nil {
		return nil, err
	}
	return s.absenceRepo.ListByPerson(ctx, personID, from, to)
}
