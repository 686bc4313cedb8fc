package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?\d{10,13}$`)
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("custom_email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("phone", isPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("date_ymd", isDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("clock_hm", isClock); err != nil {
		return err
	}
	if err := v.RegisterValidation("not_blank", isNotBlank); err != nil {
		return err
	}
	return nil
}

// isGoodEmailFormat - проверка email
func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// isPhoneNumber - 10 цифр, допускается код страны
func isPhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// isDate - ГГГГ-ММ-ДД
func isDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// isClock - ЧЧ:ММ
func isClock(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
