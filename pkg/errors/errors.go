package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Сессия и токены
	ErrInvalidSigningMethod = errors.New("неверный метод подписи токена")
	ErrInvalidToken         = errors.New("недопустимый токен")
	ErrTokenExpired         = errors.New("срок действия токена истёк")
	ErrInvalidSessionRole   = errors.New("неизвестная роль в сессии")

	// Авторизация
	ErrEmptyAuthHeader    = errors.New("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = errors.New("неверный формат заголовка авторизации")
	ErrInvalidCredentials = errors.New("неверные учётные данные")
	ErrUnauthorized       = errors.New("неавторизован")
	ErrForbidden          = errors.New("доступ запрещён")
	ErrNotApproved        = errors.New("учётная запись ещё не одобрена")
	ErrTooManyAttempts    = errors.New("слишком много попыток входа")

	ErrSessionNotFoundInContext = errors.New("сессия не найдена в контексте запроса")

	// Общие
	ErrNotFound   = errors.New("запись не найдена")
	ErrBadRequest = errors.New("неверный запрос")
	ErrConflict   = errors.New("запись уже существует")

	// Заявки
	ErrInvalidStatus      = errors.New("недопустимый статус заявки")
	ErrInvalidTimerAction = errors.New("недопустимое действие таймера")
)

// HttpError несёт код и сообщение для клиента; Err логируется, но наружу не уходит.
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

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message}
}

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
