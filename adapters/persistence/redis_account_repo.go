package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/career-compass/internal/domain/account"
)

const defaultKeyPrefix = "career_compass"

// insertOrdered appends a field to the order list and stores it in the hash in
// one step. It returns 0 when the field already exists. The order entry is
// written first: a failed RPUSH leaves nothing behind, and list readers skip
// order entries without a hash value.
var insertOrdered = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	return 0
end
redis.call("RPUSH", KEYS[2], ARGV[1])
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// storedAccount is the persisted shape; unlike account.Account it keeps the hash.
type storedAccount struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash"`
}

func toStoredAccount(a *account.Account) storedAccount {
	return storedAccount{ID: a.ID, Email: a.Email, Name: a.Name, PasswordHash: a.PasswordHash}
}

func (s storedAccount) toDomain() *account.Account {
	return &account.Account{ID: s.ID, Email: s.Email, Name: s.Name, PasswordHash: s.PasswordHash}
}

type redisAccountRepo struct {
	rdb      *redis.Client
	hashKey  string
	orderKey string
}

func NewRedisAccountRepo(rdb *redis.Client) account.Repository {
	return &redisAccountRepo{
		rdb:      rdb,
		hashKey:  defaultKeyPrefix + ":accounts",
		orderKey: defaultKeyPrefix + ":accounts:order",
	}
}

func (r *redisAccountRepo) List(ctx context.Context) ([]*account.Account, error) {
	emails, err := r.rdb.LRange(ctx, r.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read account order: %w", err)
	}
	if len(emails) == 0 {
		return []*account.Account{}, nil
	}

	values, err := r.rdb.HMGet(ctx, r.hashKey, emails...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	out := make([]*account.Account, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var sa storedAccount
		if err := json.Unmarshal([]byte(raw), &sa); err != nil {
			return nil, fmt.Errorf("failed to decode account: %w", err)
		}
		out = append(out, sa.toDomain())
	}
	return out, nil
}

func (r *redisAccountRepo) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	raw, err := r.rdb.HGet(ctx, r.hashKey, account.NormalizeEmail(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error when query account: %w", err)
	}
	var sa storedAccount
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}
	return sa.toDomain(), nil
}

func (r *redisAccountRepo) FindByID(ctx context.Context, id string) (*account.Account, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (r *redisAccountRepo) Insert(ctx context.Context, a *account.Account) error {
	key := account.NormalizeEmail(a.Email)
	payload, err := json.Marshal(toStoredAccount(a))
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	created, err := insertOrdered.Run(ctx, r.rdb, []string{r.hashKey, r.orderKey}, key, payload).Int()
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	if created == 0 {
		return account.ErrDuplicateAccount
	}
	return nil
}

type redisSessionRepo struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisSessionRepo(rdb *redis.Client) account.SessionRepository {
	return &redisSessionRepo{rdb: rdb, prefix: defaultKeyPrefix + ":session:", now: time.Now}
}

func (r *redisSessionRepo) key(id uuid.UUID) string {
	return r.prefix + id.String()
}

func (r *redisSessionRepo) Save(ctx context.Context, s *account.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(s.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *redisSessionRepo) Get(ctx context.Context, id uuid.UUID) (*account.Session, error) {
	raw, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, account.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var s account.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func (r *redisSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.rdb.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
