package auth

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/auth"
	"github.com/khoahotran/career-compass/pkg/logger"
)

var tracer = otel.Tracer("auth_usecase")

// AuthOutput is returned by every operation that opens a session.
type AuthOutput struct {
	AccessToken string
	Session     *account.Session
}

// SessionIssuer persists a new session for an account and signs a token for it.
type SessionIssuer struct {
	sessions account.SessionRepository
	jwtSvc   *auth.JWTService
	ttl      time.Duration
	now      func() time.Time
	logger   logger.Logger
}

func NewSessionIssuer(sessions account.SessionRepository, jwtSvc *auth.JWTService, ttl time.Duration, log logger.Logger) *SessionIssuer {
	return &SessionIssuer{
		sessions: sessions,
		jwtSvc:   jwtSvc,
		ttl:      ttl,
		now:      time.Now,
		logger:   log,
	}
}

func (s *SessionIssuer) Issue(ctx context.Context, a *account.Account) (*AuthOutput, error) {
	sess := account.NewSession(*a, s.now().UTC(), s.ttl)
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("Failed to save session", err, zap.String("account_id", a.ID))
		return nil, apperror.NewInternal("failed to open session", err)
	}

	token, err := s.jwtSvc.GenerateToken(sess.ID, a.ID)
	if err != nil {
		s.logger.Error("Failed to generate token", err, zap.String("account_id", a.ID))
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, apperror.NewInternal("failed to generate token", err)
	}
	return &AuthOutput{AccessToken: token, Session: sess}, nil
}
