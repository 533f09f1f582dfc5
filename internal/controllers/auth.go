package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/services"
	"os-tracker/pkg/config"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/service"
	"os-tracker/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	cfg         config.JWTConfig
	logger      *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	jwtSvc service.JWTService,
	cfg config.JWTConfig,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		jwtSvc:      jwtSvc,
		cfg:         cfg,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных для входа"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	session, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Login: ошибка авторизации", zap.String("username", payload.Username), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.setSessionCookie(c, session); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, sessionDTO(session), "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterPartnerDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.authService.Register(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, res, "Заявка на регистрацию принята, ожидайте одобрения", http.StatusCreated)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	ctrl.clearSessionCookie(c)
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы.", http.StatusOK)
}

// Session отдаёт текущую сессию или null. Битый или просроченный cookie стирается.
// Сессия партнёра перечитывается из базы, чтобы одобрение подхватывалось без повторного входа.
func (ctrl *AuthController) Session(c echo.Context) error {
	cookie, err := c.Cookie(ctrl.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return utils.SuccessResponse(c, nil, "Сессия отсутствует", http.StatusOK)
	}

	session, err := ctrl.jwtSvc.Decode(cookie.Value)
	if err != nil {
		ctrl.logger.Debug("Session: cookie не прошёл проверку", zap.Error(err))
		ctrl.clearSessionCookie(c)
		return utils.SuccessResponse(c, nil, "Сессия отсутствует", http.StatusOK)
	}

	fresh, err := ctrl.authService.RefreshSession(c.Request().Context(), session)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			ctrl.clearSessionCookie(c)
			return utils.SuccessResponse(c, nil, "Сессия отсутствует", http.StatusOK)
		}
		return ctrl.errorResponse(c, err)
	}

	if fresh.IsApproved() != session.IsApproved() {
		if err := ctrl.setSessionCookie(c, fresh); err != nil {
			return ctrl.errorResponse(c, err)
		}
	}
	return utils.SuccessResponse(c, sessionDTO(fresh), "Сессия получена", http.StatusOK)
}

func (ctrl *AuthController) setSessionCookie(c echo.Context, session service.Session) error {
	token, expiresAt, err := ctrl.jwtSvc.Issue(session)
	if err != nil {
		ctrl.logger.Error("не удалось выпустить токен сессии", zap.Uint64("subjectID", session.SubjectID()), zap.Error(err))
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     ctrl.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   ctrl.cfg.SecureOnly,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (ctrl *AuthController) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     ctrl.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ctrl.cfg.SecureOnly,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionDTO(s service.Session) dto.SessionDTO {
	return dto.SessionDTO{
		ID:       s.SubjectID(),
		Username: s.Username(),
		Role:     s.Role(),
		Approved: s.IsApproved(),
	}
}
