package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")
	ErrUserDisabled       = fmt.Errorf("учётная запись отключена")
	ErrAccountLocked      = fmt.Errorf("слишком много попыток входа, попробуйте позже")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Иерархия и данные
	ErrInvalidAssignment = fmt.Errorf("недопустимое назначение руководителя")
	ErrNotFound          = fmt.Errorf("запись не найдена")
	ErrValidation        = fmt.Errorf("ошибка валидации")
	ErrConflict          = fmt.Errorf("запись уже существует")
	ErrRenderUnavailable = fmt.Errorf("не удалось построить органиграмму")
	ErrStorage           = fmt.Errorf("ошибка хранилища")
	ErrBadRequest        = fmt.Errorf("неверный запрос")
	ErrInternalServer    = fmt.Errorf("внутренняя ошибка сервера")
)

// HttpError - ошибка, которая знает свой HTTP-код и текст для клиента.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

// NewValidationError оборачивает ErrValidation сообщением для пользователя.
func NewValidationError(format string, args ...interface{}) error {
	return &HttpError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
		Err:     ErrValidation,
	}
}

// NewInvalidAssignmentError - попытка назначить самого себя или потомка.
func NewInvalidAssignmentError(format string, args ...interface{}) error {
	return &HttpError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf(format, args...),
		Err:     ErrInvalidAssignment,
	}
}

// StatusCode подбирает HTTP-код для доменной ошибки.
func StatusCode(err error) int {
	var httpErr *HttpError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidAssignment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAccountLocked):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrEmptyAuthHeader), errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrTokenIsNotAccess), errors.Is(err, ErrInvalidSigningMethod),
		errors.Is(err, ErrUserDisabled):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
