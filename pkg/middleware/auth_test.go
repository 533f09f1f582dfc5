package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"os-tracker/pkg/service"
	"os-tracker/pkg/utils"
)

const testCookie = "session"

func newTestAuth() (*AuthMiddleware, service.JWTService) {
	jwtSvc := service.NewJWTService("test-secret-with-enough-length", time.Hour)
	return NewAuthMiddleware(jwtSvc, testCookie, zap.NewNop()), jwtSvc
}

func okHandler(c echo.Context) error {
	session, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, session.Role())
}

func serve(t *testing.T, h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func withSessionCookie(t *testing.T, jwtSvc service.JWTService, s service.Session) *http.Request {
	t.Helper()
	token, _, err := jwtSvc.Issue(s)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	return req
}

func TestSessionAPI(t *testing.T) {
	m, jwtSvc := newTestAuth()

	t.Run("no cookie", func(t *testing.T) {
		rec := serve(t, m.SessionAPI(okHandler), httptest.NewRequest(http.MethodGet, "/api/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: "not-a-jwt"})
		rec := serve(t, m.SessionAPI(okHandler), req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unapproved partner", func(t *testing.T) {
		req := withSessionCookie(t, jwtSvc, service.PartnerSession{PartnerID: 3, Name: "ana", Approved: false})
		rec := serve(t, m.SessionAPI(okHandler), req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("approved partner", func(t *testing.T) {
		req := withSessionCookie(t, jwtSvc, service.PartnerSession{PartnerID: 3, Name: "ana", Approved: true})
		rec := serve(t, m.SessionAPI(okHandler), req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "partner", rec.Body.String())
	})
}

func TestSessionPage_RedirectsWithStatus(t *testing.T) {
	m, jwtSvc := newTestAuth()

	rec := serve(t, m.SessionPage(okHandler), httptest.NewRequest(http.MethodGet, "/reports/export.xlsx", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, LoginPath, loc.Path)
	assert.Equal(t, StatusUnauthenticated, loc.Query().Get("status"))
	assert.Equal(t, "/reports/export.xlsx", loc.Query().Get("next"))

	req := withSessionCookie(t, jwtSvc, service.PartnerSession{PartnerID: 3, Name: "ana"})
	rec = serve(t, m.SessionPage(okHandler), req)
	require.Equal(t, http.StatusFound, rec.Code)
	loc, _ = url.Parse(rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, StatusUnapproved, loc.Query().Get("status"))
}

func TestAdminOnly(t *testing.T) {
	m, jwtSvc := newTestAuth()
	h := m.SessionAPI(m.AdminOnly(okHandler))

	rec := serve(t, h, withSessionCookie(t, jwtSvc, service.PartnerSession{PartnerID: 3, Name: "ana", Approved: true}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, h, withSessionCookie(t, jwtSvc, service.AdminSession{Name: "admin"}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerToken(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	cases := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"wrong scheme", "s3cret", "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", "s3cret", "Bearer nope", http.StatusUnauthorized},
		{"empty secret closes endpoint", "", "Bearer anything", http.StatusUnauthorized},
		{"valid", "s3cret", "Bearer s3cret", http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/inbound-email", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := serve(t, BearerToken(tc.secret, zap.NewNop())(ok), req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
