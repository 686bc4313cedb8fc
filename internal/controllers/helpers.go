package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

func badRequest(message string, err error) error {
	return apperrors.NewHttpError(http.StatusBadRequest, message, err, nil)
}

// parseAsOf читает ?as_of=ГГГГ-ММ-ДД, по умолчанию сегодня.
func parseAsOf(ctx echo.Context) (time.Time, error) {
	asOf, err := utils.ParseDateOr(ctx.QueryParam("as_of"), utils.Today())
	if err != nil {
		return time.Time{}, badRequest(err.Error(), apperrors.ErrValidation)
	}
	return asOf, nil
}

// parseOptionalDate - пустой параметр даёт нулевое время.
func parseOptionalDate(ctx echo.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(ctx.QueryParam(name))
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, badRequest(err.Error(), apperrors.ErrValidation)
	}
	return d, nil
}

func wantsXLSX(ctx echo.Context) bool {
	return strings.EqualFold(ctx.QueryParam("format"), "xlsx")
}
