package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/services"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

type PersonController struct {
	service services.PersonServiceInterface
	logger  *zap.Logger
}

func NewPersonController(service services.PersonServiceInterface, logger *zap.Logger) *PersonController {
	return &PersonController{service: service, logger: logger}
}

var personExportHeaders = []string{
	"ID", "Табельный номер", "ФИО", "Должность", "Уровень", "Департамент", "E-mail", "Телефон", "Статус", "Причина увольнения",
}

func personExportRow(p entities.PersonListItem) []interface{} {
	return []interface{}{
		p.ID,
		p.EmployeeNumber.String,
		p.FullName(),
		p.PositionName.String,
		p.PositionLevel.Int,
		p.DepartmentName.String,
		p.Email.String,
		p.PhoneOne.String,
		constants.PersonStatusNames[p.Status],
		p.TerminationReason.String,
	}
}

func (c *PersonController) GetPersons(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	for _, status := range filter.Values("estatus") {
		if !constants.PersonStatus(status).IsValid() {
			return utils.ErrorResponse(ctx, badRequest("Неизвестный статус сотрудника: "+status, apperrors.ErrValidation), c.logger)
		}
	}
	export := wantsXLSX(ctx)
	if export {
		filter.WithPagination = false
	}

	list, total, err := c.service.ListPersons(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if export {
		rows := make([][]interface{}, 0, len(list))
		for _, p := range list {
			rows = append(rows, personExportRow(p))
		}
		return respondWithXLSX(ctx, "personal", "Сотрудники", personExportHeaders, rows)
	}
	return utils.SuccessResponse(ctx, list, "Список сотрудников получен", http.StatusOK, total)
}

func (c *PersonController) GetPerson(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.GetPerson(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Сотрудник найден", http.StatusOK)
}

func (c *PersonController) FormData(ctx echo.Context) error {
	result, err := c.service.FormData(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Справочники формы получены", http.StatusOK)
}

func (c *PersonController) CreatePerson(ctx echo.Context) error {
	var d dto.CreatePersonDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.CreatePerson(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Сотрудник зарегистрирован", http.StatusCreated)
}

func (c *PersonController) UpdatePerson(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdatePersonDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.UpdatePerson(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Данные сотрудника сохранены", http.StatusOK)
}

func (c *PersonController) TerminatePerson(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.TerminatePersonDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.TerminatePerson(ctx.Request().Context(), id, d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Увольнение зарегистрировано", http.StatusOK)
}

func (c *PersonController) ManagerHistory(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.ManagerHistory(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "История подчинения получена", http.StatusOK)
}

func (c *PersonController) PositionHistory(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.PositionHistory(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "История должностей получена", http.StatusOK)
}
