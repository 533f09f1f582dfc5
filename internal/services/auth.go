package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/entities"
	"os-tracker/internal/repositories"
	"os-tracker/pkg/config"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/service"
	"os-tracker/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (service.Session, error)
	Register(ctx context.Context, payload dto.RegisterPartnerDTO) (*dto.PartnerResponseDTO, error)
	RefreshSession(ctx context.Context, session service.Session) (service.Session, error)
}

type AuthService struct {
	partnerRepo repositories.PartnerRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	cfg         *config.AuthConfig
	logger      *zap.Logger
}

func NewAuthService(
	partnerRepo repositories.PartnerRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		partnerRepo: partnerRepo,
		cacheRepo:   cacheRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Login проверяет учётные данные администратора (из конфигурации) или партнёра (из базы).
// Неодобренный партнёр тоже получает сессию, но с Approved=false: дальше его не пустит middleware.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (service.Session, error) {
	username := strings.TrimSpace(payload.Username)
	if err := s.checkLockout(ctx, username); err != nil {
		return nil, err
	}

	if s.cfg.AdminPasswordHash != "" && username == s.cfg.AdminUsername {
		if err := utils.ComparePasswords(s.cfg.AdminPasswordHash, payload.Password); err != nil {
			s.handleFailedLoginAttempt(ctx, username)
			return nil, apperrors.ErrInvalidCredentials
		}
		s.resetLoginAttempts(ctx, username)
		s.logger.Info("Вход администратора", zap.String("username", username))
		return service.AdminSession{ID: 0, Name: username}, nil
	}

	partner, err := s.partnerRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.handleFailedLoginAttempt(ctx, username)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !partner.CanLogin() || utils.ComparePasswords(*partner.PasswordHash, payload.Password) != nil {
		s.handleFailedLoginAttempt(ctx, username)
		return nil, apperrors.ErrInvalidCredentials
	}

	s.resetLoginAttempts(ctx, username)
	s.logger.Info("Вход партнёра", zap.Uint64("partnerID", partner.ID), zap.Bool("approved", partner.Approved))
	return partnerSession(partner), nil
}

// Register - самостоятельная регистрация партнёра. Запись создаётся неодобренной.
func (s *AuthService) Register(ctx context.Context, payload dto.RegisterPartnerDTO) (*dto.PartnerResponseDTO, error) {
	username := strings.TrimSpace(payload.Username)
	if username == s.cfg.AdminUsername {
		return nil, fmt.Errorf("логин %q зарезервирован: %w", username, apperrors.ErrConflict)
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(payload.Email)

	partner := &entities.Partner{
		Name:         strings.TrimSpace(payload.Name),
		Username:     &username,
		PasswordHash: &hash,
		Email:        &email,
		Approved:     false,
	}
	if _, err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, err
	}

	s.logger.Info("Зарегистрирован новый партнёр", zap.Uint64("partnerID", partner.ID), zap.String("username", username))
	res := dto.NewPartnerResponse(partner)
	return &res, nil
}

// RefreshSession перечитывает флаг одобрения партнёра, чтобы одобренный после входа партнёр
// не перелогинивался.
func (s *AuthService) RefreshSession(ctx context.Context, session service.Session) (service.Session, error) {
	p, ok := service.AsPartner(session)
	if !ok {
		return session, nil
	}
	partner, err := s.partnerRepo.FindByID(ctx, p.PartnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return partnerSession(partner), nil
}

func partnerSession(p *entities.Partner) service.PartnerSession {
	return service.PartnerSession{
		PartnerID: p.ID,
		Name:      utils.DerefString(p.Username),
		Approved:  p.Approved,
	}
}

func (s *AuthService) checkLockout(ctx context.Context, username string) error {
	_, err := s.cacheRepo.Get(ctx, lockoutKey(username))
	switch {
	case err == nil:
		return apperrors.ErrTooManyAttempts
	case errors.Is(err, redis.Nil):
		return nil
	default:
		// Redis недоступен: вход не блокируем.
		s.logger.Warn("Не удалось проверить блокировку входа", zap.String("username", username), zap.Error(err))
		return nil
	}
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, username string) {
	key := attemptsKey(username)
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("Не удалось посчитать попытку входа", zap.String("username", username), zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		s.logger.Warn("Вход заблокирован после неудачных попыток", zap.String("username", username), zap.Int64("attempts", attempts))
		_ = s.cacheRepo.Set(ctx, lockoutKey(username), "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, key)
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, username string) {
	_ = s.cacheRepo.Del(ctx, attemptsKey(username), lockoutKey(username))
}

func attemptsKey(username string) string { return "login_attempts:" + strings.ToLower(username) }
func lockoutKey(username string) string   { return "lockout:" + strings.ToLower(username) }
