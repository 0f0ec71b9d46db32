package auth

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/auth"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type RegisterUseCase struct {
	accountRepo account.Repository
	seeder      *SeedAccountsUseCase
	issuer      *SessionIssuer
	logger      logger.Logger
}

func NewRegisterUseCase(repo account.Repository, seeder *SeedAccountsUseCase, issuer *SessionIssuer, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		accountRepo: repo,
		seeder:      seeder,
		issuer:      issuer,
		logger:      log,
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	email := account.NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		err := apperror.NewInvalidInput("email and password are required", nil)
		span.RecordError(err)
		return nil, err
	}

	if _, err := uc.seeder.Execute(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if _, err := uc.accountRepo.FindByEmail(ctx, email); err == nil {
		err := apperror.NewConflict("account", "email", email)
		span.RecordError(err)
		return nil, err
	} else if !errors.Is(err, account.ErrAccountNotFound) {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to look up account", err)
	}

	id := account.DeriveID(email)
	if existing, err := uc.accountRepo.FindByID(ctx, id); err == nil {
		uc.logger.Warn("Derived account id already in use",
			zap.String("account_id", id),
			zap.String("new_email", email),
			zap.String("existing_email", existing.Email))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	a := &account.Account{ID: id, Email: email, Name: name, PasswordHash: hash}
	if err := uc.accountRepo.Insert(ctx, a); err != nil {
		if errors.Is(err, account.ErrDuplicateAccount) {
			err = apperror.NewConflict("account", "email", email)
		} else {
			err = apperror.NewInternal("failed to save account", err)
		}
		span.RecordError(err)
		return nil, err
	}
	uc.logger.Info("Registered account", zap.String("account_id", id))

	out, err := uc.issuer.Issue(ctx, a)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("account_id", id))
	return out, nil
}
