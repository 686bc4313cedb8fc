package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"
)

type AbsenceController struct {
	service services.AbsenceServiceInterface
	logger  *zap.Logger
}

func NewAbsenceController(service services.AbsenceServiceInterface, logger *zap.Logger) *AbsenceController {
	return &AbsenceController{service: service, logger: logger}
}

func (c *AbsenceController) GetReasons(ctx echo.Context) error {
	result, err := c.service.ListAbsenceReasons(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Причины отсутствия получены", http.StatusOK)
}

func (c *AbsenceController) RegisterAbsence(ctx echo.Context) error {
	var d dto.RegisterAbsenceDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.RegisterAbsence(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Отсутствие зарегистрировано", http.StatusCreated)
}

// GetPersonAbsences: ?from=&to= ограничивают период, оба необязательны.
func (c *AbsenceController) GetPersonAbsences(ctx echo.Context) error {
	personID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	from, err := parseOptionalDate(ctx, "from")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	to, err := parseOptionalDate(ctx, "to")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.ListPersonAbsences(ctx.Request().Context(), personID, from, to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Отсутствия сотрудника получены", http.StatusOK)
}
