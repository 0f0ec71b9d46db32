package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/career-compass/adapters/event"
	planUC "github.com/khoahotran/career-compass/internal/application/usecase/plan"
	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/logger"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrate.New("file://../../migrations", dsn)
	require.NoError(t, err, "failed to create migrate instance")
	require.NoError(t, m.Up(), "failed to run migrations")

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresRepositoriesIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	pool := startPostgres(t)

	suite.Run(t, &RepositorySuite{factory: func(t *testing.T) (account.Repository, account.SessionRepository, plan.Repository) {
		_, err := pool.Exec(context.Background(), `TRUNCATE accounts, plans RESTART IDENTITY`)
		require.NoError(t, err)
		return NewPostgresAccountRepo(pool), NewMemorySessionRepo(), NewPostgresPlanRepo(pool)
	}})

	t.Run("CreatedPlanEqualsStoredPlan", func(t *testing.T) {
		ctx := context.Background()
		log := logger.NewNopLogger()
		repo := NewPostgresPlanRepo(pool)
		create := planUC.NewCreatePlanUseCase(repo, event.NoopPublisher{}, log)
		get := planUC.NewGetPlanUseCase(repo, log)

		created, err := create.Execute(ctx, planUC.CreatePlanInput{
			OwnerID:      "axcom",
			FullName:     "Ann",
			Interests:    []string{"data"},
			DesiredRoles: []string{"Data Engineer"},
			Visibility:   plan.VisibilityPublic,
		})
		require.NoError(t, err)

		fetched, err := get.Execute(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, fetched)
	})
}
