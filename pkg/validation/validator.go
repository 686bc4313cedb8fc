package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator - обертка для использования в Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate реализует интерфейс echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New создает и настраивает валидатор. В ошибках поля называются так же,
// как в JSON запроса.
func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	registerNullTypes(v)

	// Если правило не зарегистрировалось, сервер не должен стартовать
	if err := registerRules(v); err != nil {
		panic("ошибка регистрации валидаторов: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// FieldErrors превращает ошибки validator в "поле -> сообщение".
// Для остальных ошибок возвращает nil.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	out := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "not_blank":
		return "обязательное поле"
	case "required_with":
		return fmt.Sprintf("обязательно вместе с %s", fe.Param())
	case "max":
		return fmt.Sprintf("не длиннее %s", fe.Param())
	case "min":
		return fmt.Sprintf("не короче %s", fe.Param())
	case "gt":
		return fmt.Sprintf("должно быть больше %s", fe.Param())
	case "date_ymd":
		return "дата в формате ГГГГ-ММ-ДД"
	case "clock_hm":
		return "время в формате ЧЧ:ММ"
	case "custom_email":
		return "неверный email"
	case "phone":
		return "неверный номер телефона"
	}
	return fmt.Sprintf("не прошло проверку '%s'", fe.Tag())
}
