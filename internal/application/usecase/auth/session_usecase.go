package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type LogoutUseCase struct {
	sessionRepo account.SessionRepository
	logger      logger.Logger
}

func NewLogoutUseCase(repo account.SessionRepository, log logger.Logger) *LogoutUseCase {
	return &LogoutUseCase{sessionRepo: repo, logger: log}
}

// Execute ends the session. Ending an unknown session is not an error.
func (uc *LogoutUseCase) Execute(ctx context.Context, sessionID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "EndSession")
	defer span.End()

	if err := uc.sessionRepo.Delete(ctx, sessionID); err != nil {
		span.RecordError(err)
		return apperror.NewInternal("failed to end session", err)
	}
	return nil
}

type CurrentSessionUseCase struct {
	sessionRepo account.SessionRepository
	logger      logger.Logger
}

func NewCurrentSessionUseCase(repo account.SessionRepository, log logger.Logger) *CurrentSessionUseCase {
	return &CurrentSessionUseCase{sessionRepo: repo, logger: log}
}

func (uc *CurrentSessionUseCase) Execute(ctx context.Context, sessionID uuid.UUID) (*account.Session, error) {
	ctx, span := tracer.Start(ctx, "CurrentSession")
	defer span.End()

	sess, err := uc.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, account.ErrSessionNotFound) {
			return nil, apperror.NewNotFound("session", sessionID.String())
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to load session", err)
	}
	return sess, nil
}
