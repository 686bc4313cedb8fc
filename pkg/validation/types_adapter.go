package validation

import (
	"reflect"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

// registerNullTypes: правила применяются к значению внутри null.*.
// Пустое значение отдается как nil и пропускается omitempty. Число отдается
// указателем, иначе omitempty пропустит валидный ноль. Пустая строка, как и
// у обычных полей, считается незаполненной.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(nullValue, null.String{}, null.Uint64{})
}

func nullValue(field reflect.Value) interface{} {
	switch val := field.Interface().(type) {
	case null.String:
		if val.Valid {
			return val.String
		}
	case null.Uint64:
		if val.Valid {
			return &val.Uint64
		}
	}
	return nil
}
