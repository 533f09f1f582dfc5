package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "os-tracker/pkg/errors"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

// ErrorList - соответствие известных ошибок HTTP-кодам.
var ErrorList = map[error]int{
	apperrors.ErrNotFound:             http.StatusNotFound,
	apperrors.ErrConflict:             http.StatusConflict,
	apperrors.ErrBadRequest:           http.StatusBadRequest,
	apperrors.ErrInvalidStatus:        http.StatusBadRequest,
	apperrors.ErrInvalidTimerAction:   http.StatusBadRequest,
	apperrors.ErrUnauthorized:         http.StatusUnauthorized,
	apperrors.ErrInvalidToken:         http.StatusUnauthorized,
	apperrors.ErrTokenExpired:         http.StatusUnauthorized,
	apperrors.ErrInvalidSessionRole:   http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials:   http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:      http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:    http.StatusUnauthorized,
	apperrors.ErrInvalidSigningMethod: http.StatusUnauthorized,
	apperrors.ErrForbidden:            http.StatusForbidden,
	apperrors.ErrNotApproved:          http.StatusUnauthorized,
	apperrors.ErrTooManyAttempts:      http.StatusTooManyRequests,
}

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
		return c.JSON(httpErr.Code, &HTTPResponse{Status: false, Message: httpErr.Message, Body: httpErr.Details})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{Status: false, Message: "Ошибка валидации: " + strings.Join(msgs, "; ")})
	}

	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		return c.JSON(http.StatusBadRequest, &HTTPResponse{Status: false, Message: inputErr.Message})
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return c.JSON(echoErr.Code, &HTTPResponse{Status: false, Message: fmt.Sprint(echoErr.Message)})
	}

	for known, code := range ErrorList {
		if errors.Is(err, known) {
			if code >= http.StatusInternalServerError {
				logger.Error("Ошибка запроса", zap.Error(err))
			}
			return c.JSON(code, &HTTPResponse{Status: false, Message: known.Error()})
		}
	}

	logger.Error("Unexpected Error",
		zap.String("method", c.Request().Method),
		zap.String("uri", c.Request().RequestURI),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{Status: false, Message: "Внутренняя ошибка сервера"})
}
