package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/career-compass/adapters/persistence"
	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/auth"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type fixture struct {
	accounts account.Repository
	sessions account.SessionRepository
	jwtSvc   *auth.JWTService
	seed     *SeedAccountsUseCase
	login    *LoginUseCase
	register *RegisterUseCase
	logout   *LogoutUseCase
	current  *CurrentSessionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewNopLogger()
	repos := persistence.NewMemoryRepositories()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	issuer := NewSessionIssuer(repos.Sessions, jwtSvc, time.Hour, log)
	seed := NewSeedAccountsUseCase(repos.Accounts, log)

	return &fixture{
		accounts: repos.Accounts,
		sessions: repos.Sessions,
		jwtSvc:   jwtSvc,
		seed:     seed,
		login:    NewLoginUseCase(repos.Accounts, seed, issuer, log),
		register: NewRegisterUseCase(repos.Accounts, seed, issuer, log),
		logout:   NewLogoutUseCase(repos.Sessions, log),
		current:  NewCurrentSessionUseCase(repos.Sessions, log),
	}
}

func TestSeedAccounts_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.seed.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, account.DemoID, first[0].ID)
	assert.Equal(t, account.DemoEmail, first[0].Email)
	assert.Equal(t, account.DemoName, first[0].Name)

	second, err := f.seed.Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestSeedAccounts_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.seed.Execute(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := f.accounts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSeedAccounts_NonEmptyUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.accounts.Insert(ctx, &account.Account{ID: "bob", Email: "bob@x.com", PasswordHash: "h"}))

	all, err := f.seed.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "bob", all[0].ID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "demo account", email: "demo@example.com", password: "password"},
		{name: "normalizes email and trims password", email: "  DEMO@Example.com ", password: " password "},
		{name: "wrong password", email: "demo@example.com", password: "Password", wantErr: apperror.ErrUnauthorized},
		{name: "unknown email", email: "nobody@example.com", password: "password", wantErr: apperror.ErrUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			out, err := f.login.Execute(ctx, LoginInput{Email: tc.email, Password: tc.password})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, account.DemoID, out.Session.Account.ID)
			assert.Empty(t, out.Session.Account.PasswordHash)

			claims, err := f.jwtSvc.ValidateToken(out.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, out.Session.ID, claims.SessionID)
			assert.Equal(t, account.DemoID, claims.AccountID)
		})
	}
}

func TestRegister_ThenLoginAndLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.register.Execute(ctx, RegisterInput{Email: "A@x.com", Name: " Ann ", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "axcom", out.Session.Account.ID)
	assert.Equal(t, "a@x.com", out.Session.Account.Email)
	assert.Equal(t, "Ann", out.Session.Account.Name)

	all, err := f.accounts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "demo account plus the new one")

	loggedIn, err := f.login.Execute(ctx, LoginInput{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.NotEqual(t, out.Session.ID, loggedIn.Session.ID)

	sess, err := f.current.Execute(ctx, loggedIn.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "axcom", sess.Account.ID)

	require.NoError(t, f.logout.Execute(ctx, loggedIn.Session.ID))
	_, err = f.current.Execute(ctx, loggedIn.Session.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// the other session survives, and so does the account
	_, err = f.current.Execute(ctx, out.Session.ID)
	assert.NoError(t, err)
	_, err = f.accounts.FindByEmail(ctx, "a@x.com")
	assert.NoError(t, err)

	assert.NoError(t, f.logout.Execute(ctx, loggedIn.Session.ID))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.register.Execute(ctx, RegisterInput{Email: "a@x.com", Name: "Ann", Password: "pw"})
	require.NoError(t, err)

	_, err = f.register.Execute(ctx, RegisterInput{Email: " A@X.COM", Name: "Other", Password: "pw2"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.register.Execute(ctx, RegisterInput{Email: "demo@example.com", Name: "Demo", Password: "x"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestRegister_DerivedIDCollisionStillRegisters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.register.Execute(ctx, RegisterInput{Email: "a.b@x.com", Name: "One", Password: "pw"})
	require.NoError(t, err)
	second, err := f.register.Execute(ctx, RegisterInput{Email: "ab@x.com", Name: "Two", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, first.Session.Account.ID, second.Session.Account.ID)
}

func TestRegister_RequiresEmailAndPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.register.Execute(context.Background(), RegisterInput{Email: "  ", Name: "x", Password: "pw"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = f.register.Execute(context.Background(), RegisterInput{Email: "a@x.com", Name: "x", Password: " "})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
