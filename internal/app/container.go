package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/career-compass/adapters/event"
	httpAdapter "github.com/khoahotran/career-compass/adapters/http"
	"github.com/khoahotran/career-compass/adapters/llm"
	"github.com/khoahotran/career-compass/adapters/media_storage"
	"github.com/khoahotran/career-compass/adapters/persistence"
	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/application/usecase/advisor"
	authUC "github.com/khoahotran/career-compass/internal/application/usecase/auth"
	"github.com/khoahotran/career-compass/internal/application/usecase/backup"
	planUC "github.com/khoahotran/career-compass/internal/application/usecase/plan"
	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/pkg/auth"
	"github.com/khoahotran/career-compass/pkg/logger"
)

// Container holds everything the binaries share: stores, adapters and use cases.
type Container struct {
	Config config.Config
	Logger logger.Logger

	Repos     *persistence.Repositories
	JWT       *auth.JWTService
	LLM       service.LLMService
	Publisher service.PlanEventPublisher

	SeedAccounts        *authUC.SeedAccountsUseCase
	Login               *authUC.LoginUseCase
	Register            *authUC.RegisterUseCase
	Logout              *authUC.LogoutUseCase
	CurrentSession      *authUC.CurrentSessionUseCase
	Advisor             *advisor.AdvisorUseCase
	CreatePlan          *planUC.CreatePlanUseCase
	ListPlans           *planUC.ListPlansUseCase
	GetPlan             *planUC.GetPlanUseCase
	UpdatePlan          *planUC.UpdatePlanUseCase
	DeletePlan          *planUC.DeletePlanUseCase
	GenerateSuggestions *planUC.GenerateSuggestionsUseCase
	ProcessPlanEvent    *planUC.ProcessPlanEventUseCase
	// Backup is nil when Cloudinary is not configured.
	Backup *backup.BackupUseCase

	closers []func()
}

func NewContainer(ctx context.Context, cfg config.Config, log logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}

	repos, err := persistence.NewRepositories(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	c.Repos = repos
	c.closers = append(c.closers, repos.Close)

	secret, err := jwtSecret(cfg, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.JWT = auth.NewJWTService(secret, cfg.Auth.TokenLifespan)

	publisher, closePublisher, err := event.NewPublisher(cfg, log)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init kafka: %w", err)
	}
	c.Publisher = publisher
	c.closers = append(c.closers, closePublisher)

	c.LLM = llm.NewLLMService(ctx, cfg, log)

	if cfg.CloudinaryEnabled() {
		uploader, err := media_storage.NewCloudinaryAdapter(cfg, log)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init cloudinary: %w", err)
		}
		c.Backup = backup.NewBackupUseCase(repos.Plans, uploader, cfg.Backup.Folder, cfg.Backup.Keep, log)
	}

	issuer := authUC.NewSessionIssuer(repos.Sessions, c.JWT, cfg.Auth.SessionTTL, log)
	c.SeedAccounts = authUC.NewSeedAccountsUseCase(repos.Accounts, log)
	c.Login = authUC.NewLoginUseCase(repos.Accounts, c.SeedAccounts, issuer, log)
	c.Register = authUC.NewRegisterUseCase(repos.Accounts, c.SeedAccounts, issuer, log)
	c.Logout = authUC.NewLogoutUseCase(repos.Sessions, log)
	c.CurrentSession = authUC.NewCurrentSessionUseCase(repos.Sessions, log)

	c.Advisor = advisor.NewAdvisorUseCase(c.LLM, log)
	c.CreatePlan = planUC.NewCreatePlanUseCase(repos.Plans, publisher, log)
	c.ListPlans = planUC.NewListPlansUseCase(repos.Plans, log)
	c.GetPlan = planUC.NewGetPlanUseCase(repos.Plans, log)
	c.UpdatePlan = planUC.NewUpdatePlanUseCase(repos.Plans, publisher, log)
	c.DeletePlan = planUC.NewDeletePlanUseCase(repos.Plans, publisher, log)
	c.GenerateSuggestions = planUC.NewGenerateSuggestionsUseCase(repos.Plans, c.Advisor, log)
	c.ProcessPlanEvent = planUC.NewProcessPlanEventUseCase(c.GenerateSuggestions, log)

	return c, nil
}

func (c *Container) Router() *gin.Engine {
	if c.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpAdapter.NewRouter(httpAdapter.RouterDeps{
		AuthHandler: httpAdapter.NewAuthHandler(c.Login, c.Register, c.Logout, c.CurrentSession, c.Logger),
		PlanHandler: httpAdapter.NewPlanHandler(
			c.CreatePlan,
			c.ListPlans,
			c.GetPlan,
			c.UpdatePlan,
			c.DeletePlan,
			c.GenerateSuggestions,
			c.Logger,
		),
		AdvisorHandler: httpAdapter.NewAdvisorHandler(c.Advisor, c.Logger),
		JWTService:     c.JWT,
		Sessions:       c.Repos.Sessions,
		AllowedOrigins: c.Config.CORS.AllowedOrigins,
		Logger:         c.Logger,
	})
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// jwtSecret refuses to run production without a secret. Elsewhere a random
// secret is generated, so tokens do not survive a restart.
func jwtSecret(cfg config.Config, log logger.Logger) (string, error) {
	if cfg.Auth.JWTSecret != "" {
		return cfg.Auth.JWTSecret, nil
	}
	if cfg.App.Env == "production" {
		return "", fmt.Errorf("JWT_SECRET is required in production")
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	log.Warn("JWT_SECRET not set; using a random secret for this process")
	return hex.EncodeToString(buf), nil
}
