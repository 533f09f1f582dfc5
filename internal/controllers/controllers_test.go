package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/repositories/mocks"
	"os-tracker/pkg/config"
	"os-tracker/pkg/customvalidator"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/service"
)

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	cv, err := customvalidator.New()
	require.NoError(t, err)
	e.Validator = cv
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var testJWTConfig = config.JWTConfig{SecretKey: "controller-test-secret", SessionTTL: time.Hour, CookieName: "session"}

func newAuthController() (*AuthController, *mockAuthService, service.JWTService) {
	authSvc := new(mockAuthService)
	jwtSvc := service.NewJWTService(testJWTConfig.SecretKey, testJWTConfig.SessionTTL)
	return NewAuthController(authSvc, jwtSvc, testJWTConfig, zap.NewNop()), authSvc, jwtSvc
}

func TestAuthController_Login(t *testing.T) {
	e := newEcho(t)

	t.Run("sets session cookie", func(t *testing.T) {
		ctrl, authSvc, jwtSvc := newAuthController()
		session := service.PartnerSession{PartnerID: 3, Name: "ana", Approved: true}
		authSvc.On("Login", mock.Anything, dto.LoginDTO{Username: "ana", Password: "secret1"}).Return(session, nil)

		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"ana","password":"secret1"}`), rec)
		require.NoError(t, ctrl.Login(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		cookie := findCookie(rec, "session")
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

		decoded, err := jwtSvc.Decode(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), decoded.SubjectID())
	})

	t.Run("invalid credentials", func(t *testing.T) {
		ctrl, authSvc, _ := newAuthController()
		authSvc.On("Login", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidCredentials)

		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"ana","password":"bad"}`), rec)
		require.NoError(t, ctrl.Login(c))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, findCookie(rec, "session"))
	})

	t.Run("locked out", func(t *testing.T) {
		ctrl, authSvc, _ := newAuthController()
		authSvc.On("Login", mock.Anything, mock.Anything).Return(nil, apperrors.ErrTooManyAttempts)

		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"ana","password":"bad"}`), rec)
		require.NoError(t, ctrl.Login(c))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("missing username", func(t *testing.T) {
		ctrl, authSvc, _ := newAuthController()

		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"password":"x"}`), rec)
		require.NoError(t, ctrl.Login(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		authSvc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

func TestAuthController_Session(t *testing.T) {
	e := newEcho(t)

	t.Run("no cookie returns null", func(t *testing.T) {
		ctrl, _, _ := newAuthController()
		rec := httptest.NewRecorder()
		require.NoError(t, ctrl.Session(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), rec)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, decodeBody(t, rec)["body"])
	})

	t.Run("garbage cookie is cleared", func(t *testing.T) {
		ctrl, _, _ := newAuthController()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "garbage"})
		rec := httptest.NewRecorder()
		require.NoError(t, ctrl.Session(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, decodeBody(t, rec)["body"])
		cookie := findCookie(rec, "session")
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
	})

	t.Run("approval picked up and cookie reissued", func(t *testing.T) {
		ctrl, authSvc, jwtSvc := newAuthController()
		stale := service.PartnerSession{PartnerID: 9, Name: "bia", Approved: false}
		token, _, err := jwtSvc.Issue(stale)
		require.NoError(t, err)
		authSvc.On("RefreshSession", mock.Anything, stale).
			Return(service.PartnerSession{PartnerID: 9, Name: "bia", Approved: true}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		rec := httptest.NewRecorder()
		require.NoError(t, ctrl.Session(e.NewContext(req, rec)))

		body := decodeBody(t, rec)["body"].(map[string]interface{})
		assert.Equal(t, true, body["approved"])
		assert.Equal(t, "partner", body["role"])

		cookie := findCookie(rec, "session")
		require.NotNil(t, cookie)
		decoded, err := jwtSvc.Decode(cookie.Value)
		require.NoError(t, err)
		assert.True(t, decoded.IsApproved())
	})

	t.Run("deleted partner clears cookie", func(t *testing.T) {
		ctrl, authSvc, jwtSvc := newAuthController()
		token, _, err := jwtSvc.Issue(service.PartnerSession{PartnerID: 4, Name: "gone", Approved: true})
		require.NoError(t, err)
		authSvc.On("RefreshSession", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUnauthorized)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		rec := httptest.NewRecorder()
		require.NoError(t, ctrl.Session(e.NewContext(req, rec)))

		assert.Nil(t, decodeBody(t, rec)["body"])
		cookie := findCookie(rec, "session")
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
	})
}

func TestAuthController_Register(t *testing.T) {
	e := newEcho(t)

	t.Run("accepts registration", func(t *testing.T) {
		ctrl, authSvc, _ := newAuthController()
		payload := dto.RegisterPartnerDTO{Name: "Ana Lima", Username: "ana", Password: "secret1", Email: "ana@x.com"}
		authSvc.On("Register", mock.Anything, payload).Return(&dto.PartnerResponseDTO{ID: 4, Name: "Ana Lima"}, nil)

		rec := httptest.NewRecorder()
		body := `{"name":"Ana Lima","username":"ana","password":"secret1","email":"ana@x.com"}`
		require.NoError(t, ctrl.Register(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", body), rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("rejects line breaks in username", func(t *testing.T) {
		ctrl, authSvc, _ := newAuthController()

		rec := httptest.NewRecorder()
		body := `{"name":"Ana","username":"ana\r\nBcc: victim@example.org","password":"secret1","email":"ana@x.com"}`
		require.NoError(t, ctrl.Register(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", body), rec)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		authSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestAuthController_Logout(t *testing.T) {
	e := newEcho(t)
	ctrl, _, _ := newAuthController()
	rec := httptest.NewRecorder()
	require.NoError(t, ctrl.Logout(e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)))

	cookie := findCookie(rec, "session")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestOrderController_GetOrders(t *testing.T) {
	e := newEcho(t)

	t.Run("query filters", func(t *testing.T) {
		orderSvc := new(mockOrderService)
		ctrl := NewOrderController(orderSvc, zap.NewNop())
		clientID, urgent := uint64(7), true
		orderSvc.On("List", mock.Anything, dto.OrderFilterDTO{
			Statuses: []string{"NA_FILA", "EM_PRODUCAO"},
			ClientID: &clientID,
			Urgent:   &urgent,
			Search:   "site",
		}).Return([]dto.OrderResponseDTO{{ID: 1, Number: "OS-0001"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders?status=NA_FILA,EM_PRODUCAO&client_id=7&urgent=true&q=+site+", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, ctrl.GetOrders(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusOK, rec.Code)
		orderSvc.AssertExpectations(t)
	})

	t.Run("bad client id", func(t *testing.T) {
		orderSvc := new(mockOrderService)
		ctrl := NewOrderController(orderSvc, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/api/orders?client_id=abc", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, ctrl.GetOrders(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		orderSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestOrderController_FindOrder(t *testing.T) {
	e := newEcho(t)
	orderSvc := new(mockOrderService)
	ctrl := NewOrderController(orderSvc, zap.NewNop())
	orderSvc.On("Get", mock.Anything, uint64(5)).Return(nil, apperrors.ErrNotFound)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, ctrl.FindOrder(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("x")
	require.NoError(t, ctrl.FindOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderController_SetStatus(t *testing.T) {
	e := newEcho(t)

	t.Run("unknown status rejected", func(t *testing.T) {
		orderSvc := new(mockOrderService)
		ctrl := NewOrderController(orderSvc, zap.NewNop())

		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"status":"PERDIDO"}`), rec)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, ctrl.SetStatus(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		orderSvc.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("forbidden approval decision", func(t *testing.T) {
		orderSvc := new(mockOrderService)
		ctrl := NewOrderController(orderSvc, zap.NewNop())
		orderSvc.On("SetStatus", mock.Anything, uint64(1), "NA_FILA").Return(nil, apperrors.ErrForbidden)

		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"status":"NA_FILA"}`), rec)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, ctrl.SetStatus(c))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestOrderController_ToggleTimer(t *testing.T) {
	e := newEcho(t)
	orderSvc := new(mockOrderService)
	ctrl := NewOrderController(orderSvc, zap.NewNop())
	orderSvc.On("ToggleTimer", mock.Anything, uint64(2), "start").
		Return(&dto.OrderResponseDTO{ID: 2, Status: "EM_PRODUCAO", TimerRunning: true}, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"action":"start"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("2")
	require.NoError(t, ctrl.ToggleTimer(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/", `{"action":"rewind"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("2")
	require.NoError(t, ctrl.ToggleTimer(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookController_InboundEmail(t *testing.T) {
	e := newEcho(t)

	t.Run("malformed json", func(t *testing.T) {
		webhookSvc := new(mockWebhookService)
		ctrl := NewWebhookController(webhookSvc, zap.NewNop())

		rec := httptest.NewRecorder()
		require.NoError(t, ctrl.InboundEmail(e.NewContext(jsonRequest(http.MethodPost, "/", `{"from":`), rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing body", func(t *testing.T) {
		webhookSvc := new(mockWebhookService)
		ctrl := NewWebhookController(webhookSvc, zap.NewNop())

		rec := httptest.NewRecorder()
		req := jsonRequest(http.MethodPost, "/", `{"from":"a@b.com","subject":"Oi"}`)
		require.NoError(t, ctrl.InboundEmail(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		webhookSvc.AssertNotCalled(t, "HandleInboundEmail", mock.Anything, mock.Anything)
	})

	t.Run("accepted", func(t *testing.T) {
		webhookSvc := new(mockWebhookService)
		ctrl := NewWebhookController(webhookSvc, zap.NewNop())
		number := "OS-0010"
		webhookSvc.On("HandleInboundEmail", mock.Anything, dto.InboundEmailDTO{From: "a@b.com", Subject: "Site", Body: "Refazer"}).
			Return(&dto.InboundEmailResultDTO{Received: true, OrderNumber: &number}, nil)

		rec := httptest.NewRecorder()
		req := jsonRequest(http.MethodPost, "/", `{"from":"a@b.com","subject":"Site","body":"Refazer"}`)
		require.NoError(t, ctrl.InboundEmail(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)["body"].(map[string]interface{})
		assert.Equal(t, "OS-0010", body["order_number"])
	})
}

func TestHealthController_Check(t *testing.T) {
	e := newEcho(t)

	healthRepo := new(mocks.HealthRepository)
	healthRepo.On("Ping", mock.Anything).Return(nil).Once()
	ctrl := NewHealthController(healthRepo, zap.NewNop())

	rec := httptest.NewRecorder()
	require.NoError(t, ctrl.Check(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/health", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	healthRepo.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
	rec = httptest.NewRecorder()
	require.NoError(t, ctrl.Check(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/health", nil), rec)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "connection refused", decodeBody(t, rec)["error"])
}

func TestCronController_Sweep(t *testing.T) {
	e := newEcho(t)
	sweepSvc := new(mockSweepService)
	sweepSvc.On("Run", mock.Anything).Return(&dto.SweepResultDTO{LocalHour: 23, Paused: 2, Timezone: "America/Sao_Paulo"}, nil)
	ctrl := NewCronController(sweepSvc, zap.NewNop())

	rec := httptest.NewRecorder()
	require.NoError(t, ctrl.Sweep(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/cron/sweep", nil), rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)["body"].(map[string]interface{})
	assert.Equal(t, float64(2), body["paused"])
}

func TestParseReportFilter(t *testing.T) {
	e := newEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/?date_from=2024-03-01&date_to=2024-03-31&client_ids=1,2&partner_ids[]=5&status=FINALIZADO&page=2&limit=1000", nil)
	filter, err := parseReportFilter(e.NewContext(req, httptest.NewRecorder()), true)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *filter.DateFrom)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *filter.DateTo)
	assert.Equal(t, []uint64{1, 2}, filter.ClientIDs)
	assert.Equal(t, []uint64{5}, filter.PartnerIDs)
	assert.Equal(t, []string{"FINALIZADO"}, filter.Statuses)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, maxReportLimit, filter.PerPage)

	req = httptest.NewRequest(http.MethodGet, "/?date_from=ontem", nil)
	_, err = parseReportFilter(e.NewContext(req, httptest.NewRecorder()), true)
	assert.Error(t, err)
}

func TestReportController_ExportReport(t *testing.T) {
	e := newEcho(t)
	reportSvc := new(mockReportService)
	ctrl := NewReportController(reportSvc, zap.NewNop())

	executor := "Ana"
	reportSvc.On("GetReport", mock.Anything, mock.MatchedBy(func(f entities.ReportFilter) bool {
		return f.PerPage == 0
	})).Return(&dto.ReportPageDTO{List: []dto.ReportRowDTO{{
		Number: "OS-0001", Client: "Acme", Executor: &executor, Project: "Site",
		StatusLabel: "Finalizado", CreatedAt: "2024-03-01T12:00:00Z", ProductionHours: 1.5,
	}}, Total: 1}, nil)

	rec := httptest.NewRecorder()
	require.NoError(t, ctrl.ExportReport(e.NewContext(httptest.NewRequest(http.MethodGet, "/reports/export", nil), rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=relatorio_")
	assert.True(t, rec.Body.Len() > 0)
	// xlsx - это zip-архив
	assert.Equal(t, "PK", rec.Body.String()[:2])
}
