// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"

	"os-tracker/pkg/constants"
)

// RegisterCustomValidations регистрирует наши правила и адаптеры null-типов.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)

	if err := v.RegisterValidation("order_status", isOrderStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("timer_action", isTimerAction); err != nil {
		return err
	}
	if err := v.RegisterValidation("date_only", isDateOnly); err != nil {
		return err
	}
	if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
		return err
	}
	if err := v.RegisterValidation("nocontrol", hasNoControlChars); err != nil {
		return err
	}
	return nil
}

func isOrderStatus(fl validator.FieldLevel) bool {
	return constants.IsValidStatus(fl.Field().String())
}

func isTimerAction(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == constants.TimerStart || s == constants.TimerPause
}

// isDateOnly - "YYYY-MM-DD". Пустое значение отсекается через omitempty.
func isDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// hasNoControlChars запрещает переводы строк и прочие управляющие символы:
// имя пользователя попадает в темы писем.
func hasNoControlChars(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}

// registerNullTypes учит валидатор "смотреть внутрь" null.String и null.Bool.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Bool); ok && val.Valid {
			return val.Bool
		}
		return nil
	}, null.Bool{})
}
