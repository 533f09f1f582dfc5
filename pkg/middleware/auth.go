package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/service"
	"os-tracker/pkg/utils"
)

const LoginPath = "/login"

// Значения ?status= для страницы входа.
const (
	StatusUnauthenticated = "unauthenticated"
	StatusExpired         = "expired"
	StatusUnapproved      = "unapproved"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	cookieName string
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		cookieName: cookieName,
		logger:     logger,
	}
}

// resolve читает и проверяет cookie сессии. Возвращает сессию или причину для ?status=.
func (m *AuthMiddleware) resolve(c echo.Context) (service.Session, string, error) {
	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, StatusUnauthenticated, apperrors.ErrUnauthorized
	}

	session, err := m.jwtService.Decode(cookie.Value)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			return nil, StatusExpired, err
		}
		return nil, StatusUnauthenticated, err
	}
	if !session.IsApproved() {
		return nil, StatusUnapproved, apperrors.ErrNotApproved
	}
	return session, "", nil
}

// SessionAPI - для JSON API: без действующей одобренной сессии отвечает 401.
func (m *AuthMiddleware) SessionAPI(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, _, err := m.resolve(c)
		if err != nil {
			m.logger.Debug("SessionAPI: доступ без сессии", zap.String("path", c.Path()), zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		c.SetRequest(c.Request().WithContext(utils.WithSession(c.Request().Context(), session)))
		return next(c)
	}
}

// SessionPage - для страниц и скачиваний: вместо 401 редирект на вход с причиной.
func (m *AuthMiddleware) SessionPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, status, err := m.resolve(c)
		if err != nil {
			q := url.Values{}
			q.Set("status", status)
			q.Set("next", c.Request().URL.RequestURI())
			return c.Redirect(http.StatusFound, LoginPath+"?"+q.Encode())
		}
		c.SetRequest(c.Request().WithContext(utils.WithSession(c.Request().Context(), session)))
		return next(c)
	}
}

// AdminOnly ставится после SessionAPI/SessionPage.
func (m *AuthMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}
		if !service.IsAdmin(session) {
			m.logger.Warn("AdminOnly: попытка доступа партнёра",
				zap.Uint64("partnerID", session.SubjectID()), zap.String("path", c.Path()))
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
		return next(c)
	}
}

// BearerToken защищает машинные эндпоинты (webhook, cron) общим секретом.
// Пустой секрет в конфигурации закрывает эндпоинт целиком.
func BearerToken(secret string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, logger)
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, logger)
			}

			if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				logger.Warn("BearerToken: неверный токен", zap.String("path", c.Path()), zap.String("ip", c.RealIP()))
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, logger)
			}
			return next(c)
		}
	}
}
