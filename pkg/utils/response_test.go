package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "os-tracker/pkg/errors"
)

func runErrorResponse(t *testing.T, err error) (int, HTTPResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ErrorResponse(c, err, zap.NewNop()))

	var body HTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorResponse(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}
	validationErr := validator.New().Struct(payload{})

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found wrapped", fmt.Errorf("order 5: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"not approved", apperrors.ErrNotApproved, http.StatusForbidden},
		{"lockout", apperrors.ErrTooManyAttempts, http.StatusTooManyRequests},
		{"http error", apperrors.NewHttpError(http.StatusTeapot, "чайник", errors.New("x"), nil), http.StatusTeapot},
		{"invalid input", apperrors.NewInvalidInputError("поле %s", "x"), http.StatusBadRequest},
		{"validation", validationErr, http.StatusBadRequest},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := runErrorResponse(t, tc.err)
			assert.Equal(t, tc.code, code)
			assert.False(t, body.Status)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorResponse_HidesInfrastructureDetail(t *testing.T) {
	_, body := runErrorResponse(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, "Внутренняя ошибка сервера", body.Message)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("s3nha")
	require.NoError(t, err)
	assert.NoError(t, ComparePasswords(hash, "s3nha"))
	assert.Error(t, ComparePasswords(hash, "errada"))
}
