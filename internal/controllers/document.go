package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

type DocumentController struct {
	service services.DocumentServiceInterface
	logger  *zap.Logger
}

func NewDocumentController(service services.DocumentServiceInterface, logger *zap.Logger) *DocumentController {
	return &DocumentController{service: service, logger: logger}
}

func (c *DocumentController) GetDocumentTypes(ctx echo.Context) error {
	result, err := c.service.ListDocumentTypes(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Типы документов получены", http.StatusOK)
}

func (c *DocumentController) GetPersonDocuments(ctx echo.Context) error {
	personID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.ListPersonDocuments(ctx.Request().Context(), personID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Документы сотрудника получены", http.StatusOK)
}

// UploadDocument принимает multipart-форму: document_id и file.
func (c *DocumentController) UploadDocument(ctx echo.Context) error {
	personID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	documentID, err := strconv.ParseUint(ctx.FormValue("document_id"), 10, 64)
	if err != nil || documentID == 0 {
		return utils.ErrorResponse(ctx, badRequest("Не указан тип документа", apperrors.ErrBadRequest), c.logger)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, badRequest("Файл не был передан", apperrors.ErrBadRequest), c.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка обработки файла", err, nil), c.logger)
	}
	defer src.Close()

	result, err := c.service.UploadDocument(ctx.Request().Context(), dto.UploadDocumentDTO{
		PersonID:   personID,
		DocumentID: documentID,
		FileName:   fileHeader.Filename,
		Size:       fileHeader.Size,
		File:       src,
	})
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Документ загружен", http.StatusCreated)
}

func (c *DocumentController) DeleteDocument(ctx echo.Context) error {
	personID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	uploadID, err := utils.ParseIDParam(ctx, "uploadId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeleteDocument(ctx.Request().Context(), personID, uploadID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Документ удалён", http.StatusOK)
}
