package utils

import (
	"context"

	"os-tracker/pkg/contextkeys"
	apperrors "os-tracker/pkg/errors"
	"os-tracker/pkg/service"
)

func WithSession(ctx context.Context, session service.Session) context.Context {
	return context.WithValue(ctx, contextkeys.SessionKey, session)
}

func GetSessionFromCtx(ctx context.Context) (service.Session, error) {
	session, ok := ctx.Value(contextkeys.SessionKey).(service.Session)
	if !ok || session == nil {
		return nil, apperrors.ErrSessionNotFoundInContext
	}
	return session, nil
}
