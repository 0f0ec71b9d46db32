package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/auth"
	"github.com/khoahotran/career-compass/pkg/logger"
)

// SeedAccountsUseCase returns the account collection, inserting the demo
// account first when the collection is empty.
type SeedAccountsUseCase struct {
	accountRepo account.Repository
	logger      logger.Logger
}

func NewSeedAccountsUseCase(repo account.Repository, log logger.Logger) *SeedAccountsUseCase {
	return &SeedAccountsUseCase{accountRepo: repo, logger: log}
}

func (uc *SeedAccountsUseCase) Execute(ctx context.Context) ([]*account.Account, error) {
	ctx, span := tracer.Start(ctx, "SeedAccounts")
	defer span.End()

	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to list accounts", err)
	}
	if len(accounts) > 0 {
		return accounts, nil
	}

	hash, err := auth.HashPassword(account.DemoPassword)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to hash demo password", err)
	}

	demo := &account.Account{
		ID:           account.DemoID,
		Email:        account.DemoEmail,
		Name:         account.DemoName,
		PasswordHash: hash,
	}
	// A concurrent seeder may have won; that is fine.
	if err := uc.accountRepo.Insert(ctx, demo); err != nil && !errors.Is(err, account.ErrDuplicateAccount) {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to seed demo account", err)
	} else if err == nil {
		uc.logger.Info("Seeded demo account", zap.String("email", account.DemoEmail))
	}

	accounts, err = uc.accountRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to list accounts", err)
	}
	return accounts, nil
}
