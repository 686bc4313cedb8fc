package utils

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
	"hr-system/pkg/validation"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

// ParseFilterFromQuery разбирает search, sort[поле], filter[поле], limit, page, offset.
// Неизвестные направления сортировки и нечисловые limit/page молча отбрасываются.
func ParseFilterFromQuery(values url.Values) types.Filter {
	f := types.Filter{
		Sort:           make(map[string]string),
		Filter:         make(map[string]interface{}),
		Limit:          DefaultLimit,
		Page:           1,
		WithPagination: values.Get("withPagination") != "false",
	}
	if limit, ok := queryInt(values, "limit", 1); ok {
		f.Limit = min(limit, MaxLimit)
	}
	if page, ok := queryInt(values, "page", 1); ok {
		f.Page = page
	}
	if offset, ok := queryInt(values, "offset", 0); ok {
		f.Offset = offset
	} else {
		f.Offset = (f.Page - 1) * f.Limit
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		if key == "search" {
			f.Search = vals[0]
			continue
		}
		if field, ok := bracketed(key, "sort"); ok {
			if dir := strings.ToLower(vals[0]); dir == "asc" || dir == "desc" {
				f.Sort[field] = dir
			}
			continue
		}
		if field, ok := bracketed(key, "filter"); ok {
			f.Filter[field] = strings.Join(vals, ",")
		}
	}
	return f
}

func queryInt(values url.Values, key string, minValue int) (int, bool) {
	raw := values.Get(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < minValue {
		return 0, false
	}
	return n, true
}

// bracketed: "sort[apellidop]" с префиксом "sort" -> "apellidop".
func bracketed(key, prefix string) (string, bool) {
	if !strings.HasPrefix(key, prefix+"[") || !strings.HasSuffix(key, "]") {
		return "", false
	}
	field := key[len(prefix)+1 : len(key)-1]
	return field, field != ""
}

// ParseIDParam читает числовой параметр пути.
func ParseIDParam(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID", err, map[string]interface{}{name: raw})
	}
	return id, nil
}

// SuccessResponse оборачивает body в HTTPResponse. При withPagination=true и
// переданном total список отдается вместе с метаданными страницы.
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message, Body: body}
	if paged, _ := strconv.ParseBool(ctx.QueryParam("withPagination")); paged && len(total) > 0 {
		response.Body = map[string]interface{}{
			"list":       body,
			"pagination": paginationFor(ctx.Request().URL.Query(), total[0]),
		}
	}
	return ctx.JSON(code, response)
}

func paginationFor(values url.Values, total uint64) types.Pagination {
	f := ParseFilterFromQuery(values)
	p := types.Pagination{TotalCount: total, Page: f.Page, Limit: f.Limit}
	if f.Limit > 0 {
		p.TotalPages = int((total + uint64(f.Limit) - 1) / uint64(f.Limit))
	}
	return p
}

// ErrorResponse отвечает клиенту по типу ошибки: HttpError как есть, ошибки
// validator списком полей, доменные sentinel через apperrors.StatusCode.
// Пятисотые скрывают текст ошибки от клиента.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		return respondError(c, httpErr.Code, httpErr.Message, httpErr.Details)
	}

	if fields := validation.FieldErrors(err); fields != nil {
		return respondError(c, http.StatusBadRequest, "Ошибка валидации", fields)
	}

	code := apperrors.StatusCode(err)
	if code >= http.StatusInternalServerError {
		logger.Error("Unexpected Error", zap.Error(err))
		return respondError(c, code, "Внутренняя ошибка сервера", nil)
	}
	logger.Warn("Request Error", zap.Int("code", code), zap.Error(err))
	return respondError(c, code, err.Error(), nil)
}

func respondError(c echo.Context, code int, message string, body interface{}) error {
	response := map[string]interface{}{
		"status":  false,
		"message": message,
	}
	if body != nil {
		response["body"] = body
	}
	return c.JSON(code, response)
}
