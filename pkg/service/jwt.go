package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"os-tracker/pkg/constants"
	apperrors "os-tracker/pkg/errors"
)

type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
	jwt.RegisteredClaims
}

type JWTService interface {
	Issue(session Session) (token string, expiresAt time.Time, err error)
	Decode(tokenString string) (Session, error)
	GetSessionTTL() time.Duration
}

type jwtService struct {
	secretKey  []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewJWTService(secretKey string, sessionTTL time.Duration) JWTService {
	return &jwtService{
		secretKey:  []byte(secretKey),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (s *jwtService) GetSessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *jwtService) Issue(session Session) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.sessionTTL)

	claims := &sessionClaims{
		Username: session.Username(),
		Role:     session.Role(),
		Approved: session.IsApproved(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(session.SubjectID(), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("не удалось подписать токен сессии: %w", err)
	}
	return signed, expiresAt, nil
}

// Decode проверяет подпись и срок и собирает конкретный тип сессии по полю role.
func (s *jwtService) Decode(tokenString string) (Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: некорректный subject", apperrors.ErrInvalidToken)
	}

	switch claims.Role {
	case constants.RoleAdmin:
		return AdminSession{ID: id, Name: claims.Username}, nil
	case constants.RolePartner:
		return PartnerSession{PartnerID: id, Name: claims.Username, Approved: claims.Approved}, nil
	default:
		return nil, apperrors.ErrInvalidSessionRole
	}
}
