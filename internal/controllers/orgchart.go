package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/utils"
)

// Заголовок ответа с картинкой: отрисовка не удалась, отдана заглушка.
const headerChartDegraded = "X-Orgchart-Degraded"

type OrgChartController struct {
	service services.OrgChartServiceInterface
	logger  *zap.Logger
}

func NewOrgChartController(service services.OrgChartServiceInterface, logger *zap.Logger) *OrgChartController {
	return &OrgChartController{service: service, logger: logger}
}

func (c *OrgChartController) departmentChart(ctx echo.Context) (*dto.OrgChartDTO, error) {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return nil, err
	}
	asOf, err := parseAsOf(ctx)
	if err != nil {
		return nil, err
	}
	return c.service.DepartmentChart(ctx.Request().Context(), id, asOf)
}

func (c *OrgChartController) personChart(ctx echo.Context) (*dto.OrgChartDTO, error) {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return nil, err
	}
	asOf, err := parseAsOf(ctx)
	if err != nil {
		return nil, err
	}
	return c.service.PersonChart(ctx.Request().Context(), id, asOf)
}

func (c *OrgChartController) respondWithPNG(ctx echo.Context, chart *dto.OrgChartDTO) error {
	png, degraded := c.service.RenderPNG(ctx.Request().Context(), chart)
	if degraded {
		ctx.Response().Header().Set(headerChartDegraded, "true")
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}

func (c *OrgChartController) GetDepartmentChart(ctx echo.Context) error {
	chart, err := c.departmentChart(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, chart, "Органиграмма департамента построена", http.StatusOK)
}

func (c *OrgChartController) GetDepartmentChartImage(ctx echo.Context) error {
	chart, err := c.departmentChart(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithPNG(ctx, chart)
}

func (c *OrgChartController) GetPersonChart(ctx echo.Context) error {
	chart, err := c.personChart(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, chart, "Органиграмма сотрудника построена", http.StatusOK)
}

func (c *OrgChartController) GetPersonChartImage(ctx echo.Context) error {
	chart, err := c.personChart(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithPNG(ctx, chart)
}

func (c *OrgChartController) GetSubtreeCount(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	asOf, err := parseAsOf(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.PersonSubtreeCount(ctx.Request().Context(), id, asOf)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Количество подчинённых получено", http.StatusOK)
}

var subtreeExportHeaders = []string{"ID", "ФИО", "Должность", "Уровень", "Департамент", "Руководитель", "Глубина"}

func (c *OrgChartController) GetSubtreeTable(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	asOf, err := parseAsOf(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	rows, err := c.service.PersonSubtreeTable(ctx.Request().Context(), id, asOf)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if wantsXLSX(ctx) {
		data := make([][]interface{}, 0, len(rows))
		for _, r := range rows {
			data = append(data, []interface{}{r.ID, r.Name, r.PositionName, r.Level, r.Department, r.ManagerName, r.Depth})
		}
		return respondWithXLSX(ctx, "subordinados", "Подчинённые", subtreeExportHeaders, data)
	}
	return utils.SuccessResponse(ctx, rows, "Таблица подчинённых получена", http.StatusOK)
}
