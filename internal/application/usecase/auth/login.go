package auth

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/auth"
	"github.com/khoahotran/career-compass/pkg/logger"
)

var ErrInvalidCredentials = errors.New("email or password is incorrect")

type LoginUseCase struct {
	accountRepo account.Repository
	seeder      *SeedAccountsUseCase
	issuer      *SessionIssuer
	logger      logger.Logger
}

func NewLoginUseCase(repo account.Repository, seeder *SeedAccountsUseCase, issuer *SessionIssuer, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		accountRepo: repo,
		seeder:      seeder,
		issuer:      issuer,
		logger:      log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	if _, err := uc.seeder.Execute(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	email := account.NormalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)

	a, err := uc.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			err = apperror.NewUnauthorized(ErrInvalidCredentials.Error(), ErrInvalidCredentials)
		} else {
			err = apperror.NewInternal("failed to look up account", err)
		}
		span.RecordError(err)
		return nil, err
	}

	if !auth.CheckPasswordHash(password, a.PasswordHash) {
		err := apperror.NewUnauthorized(ErrInvalidCredentials.Error(), ErrInvalidCredentials)
		span.RecordError(err)
		return nil, err
	}

	out, err := uc.issuer.Issue(ctx, a)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("account_id", a.ID))
	return out, nil
}
