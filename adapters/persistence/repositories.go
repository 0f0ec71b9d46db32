package persistence

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/logger"
)

// Repositories bundles the stores selected by storage.driver.
type Repositories struct {
	Accounts account.Repository
	Sessions account.SessionRepository
	Plans    plan.Repository

	closers []func()
}

func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Accounts: NewMemoryAccountRepo(),
		Sessions: NewMemorySessionRepo(),
		Plans:    NewMemoryPlanRepo(),
	}
}

func NewRepositories(cfg config.Config, log logger.Logger) (*Repositories, error) {
	log.Info("Initializing storage", zap.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.StorageMemory, "":
		log.Warn("Using in-memory storage; data is lost on restart")
		return NewMemoryRepositories(), nil

	case config.StorageRedis:
		rdb, err := NewRedisClient(cfg, log)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Accounts: NewRedisAccountRepo(rdb),
			Sessions: NewRedisSessionRepo(rdb),
			Plans:    NewRedisPlanRepo(rdb),
			closers:  []func(){func() { _ = rdb.Close() }},
		}, nil

	case config.StoragePostgres:
		pool, err := NewPostgresPool(cfg, log)
		if err != nil {
			return nil, err
		}
		repos := &Repositories{
			Accounts: NewPostgresAccountRepo(pool),
			Plans:    NewPostgresPlanRepo(pool),
			closers:  []func(){pool.Close},
		}
		if cfg.Redis.Addr == "" {
			log.Warn("No Redis configured; sessions are kept in memory")
			repos.Sessions = NewMemorySessionRepo()
			return repos, nil
		}
		rdb, err := NewRedisClient(cfg, log)
		if err != nil {
			pool.Close()
			return nil, err
		}
		repos.Sessions = NewRedisSessionRepo(rdb)
		repos.closers = append(repos.closers, func() { _ = rdb.Close() })
		return repos, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func (r *Repositories) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}
