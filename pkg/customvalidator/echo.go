package customvalidator

import "github.com/go-playground/validator/v10"

// EchoValidator - адаптер validator.Validate под интерфейс echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

// New создаёт валидатор с уже зарегистрированными правилами проекта.
func New() (*EchoValidator, error) {
	v := validator.New()
	if err := RegisterCustomValidations(v); err != nil {
		return nil, err
	}
	return &EchoValidator{validate: v}, nil
}

func (ev *EchoValidator) Validate(i interface{}) error {
	return ev.validate.Struct(i)
}
