package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"
)

type PositionController struct {
	service services.PositionServiceInterface
	logger  *zap.Logger
}

func NewPositionController(service services.PositionServiceInterface, logger *zap.Logger) *PositionController {
	return &PositionController{service: service, logger: logger}
}

func (c *PositionController) GetPositions(ctx echo.Context) error {
	if active, _ := strconv.ParseBool(ctx.QueryParam("active")); active {
		list, err := c.service.ListActivePositions(ctx.Request().Context())
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, list, "Список должностей получен", http.StatusOK)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetPositions(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список должностей получен", http.StatusOK, total)
}

func (c *PositionController) FindPosition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.FindPosition(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Должность найдена", http.StatusOK)
}

func (c *PositionController) CreatePosition(ctx echo.Context) error {
	var d dto.PositionDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.CreatePosition(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Должность создана", http.StatusCreated)
}

func (c *PositionController) UpdatePosition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.PositionDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.UpdatePosition(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Должность обновлена", http.StatusOK)
}

func (c *PositionController) RetirePosition(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.RetirePosition(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Должность выведена из штата", http.StatusOK)
}
