package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"
)

type RoleController struct {
	service services.RoleServiceInterface
	logger  *zap.Logger
}

func NewRoleController(service services.RoleServiceInterface, logger *zap.Logger) *RoleController {
	return &RoleController{service: service, logger: logger}
}

func (c *RoleController) GetRoles(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetRoles(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список ролей получен", http.StatusOK, total)
}

func (c *RoleController) FindRole(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.FindRole(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Роль найдена", http.StatusOK)
}

func (c *RoleController) CreateRole(ctx echo.Context) error {
	var d dto.RoleDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.CreateRole(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Роль создана", http.StatusCreated)
}

func (c *RoleController) UpdateRole(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.RoleDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.UpdateRole(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Роль обновлена", http.StatusOK)
}

func (c *RoleController) DeleteRole(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteRole(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Роль удалена", http.StatusOK)
}

func (c *RoleController) SetRoleRoutes(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.SetRoutesDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.SetRoleRoutes(ctx.Request().Context(), id, d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Права роли обновлены", http.StatusOK)
}

func (c *RoleController) GetRoutes(ctx echo.Context) error {
	result, err := c.service.ListRoutes(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Список прав получен", http.StatusOK)
}

func (c *RoleController) SetUserAccess(ctx echo.Context) error {
	userID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.SetUserAccessDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, badRequest("Неверные данные", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.SetUserAccess(ctx.Request().Context(), userID, d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Доступ пользователя обновлён", http.StatusOK)
}
