package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/career-compass/internal/domain/plan"
)

var errPlanIDExists = errors.New("plan id already exists")

const maxWatchRetries = 10

// replaceIfExists keeps Update from resurrecting a concurrently deleted plan.
var replaceIfExists = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

type redisPlanRepo struct {
	rdb      *redis.Client
	hashKey  string
	orderKey string
}

func NewRedisPlanRepo(rdb *redis.Client) plan.Repository {
	return &redisPlanRepo{
		rdb:      rdb,
		hashKey:  defaultKeyPrefix + ":plans",
		orderKey: defaultKeyPrefix + ":plans:order",
	}
}

func (r *redisPlanRepo) Insert(ctx context.Context, p *plan.CareerPlan) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	created, err := insertOrdered.Run(ctx, r.rdb, []string{r.hashKey, r.orderKey}, p.ID.String(), payload).Int()
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	if created == 0 {
		return errPlanIDExists
	}
	return nil
}

func (r *redisPlanRepo) Update(ctx context.Context, p *plan.CareerPlan) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plan for update: %w", err)
	}
	replaced, err := replaceIfExists.Run(ctx, r.rdb, []string{r.hashKey}, p.ID.String(), payload).Int()
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if replaced == 0 {
		return plan.ErrPlanNotFound
	}
	return nil
}

// UpdateSuggestions rewrites the stored JSON under WATCH so a concurrent
// owner edit is never overwritten with a stale copy.
func (r *redisPlanRepo) UpdateSuggestions(ctx context.Context, id uuid.UUID, paths, courses string, updatedAt time.Time) (*plan.CareerPlan, error) {
	var updated *plan.CareerPlan
	txf := func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, r.hashKey, id.String()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return plan.ErrPlanNotFound
			}
			return fmt.Errorf("failed to read plan: %w", err)
		}
		p := &plan.CareerPlan{}
		if err := json.Unmarshal(raw, p); err != nil {
			return fmt.Errorf("failed to decode plan: %w", err)
		}
		p.AISuggestedPaths = paths
		p.AIRecommendedCourses = courses
		p.UpdatedAt = updatedAt

		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal plan: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.hashKey, id.String(), payload)
			return nil
		})
		if err != nil {
			return err
		}
		updated = p
		return nil
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := r.rdb.Watch(ctx, txf, r.hashKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("failed to update plan suggestions: %w", redis.TxFailedErr)
}

func (r *redisPlanRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var removed *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, r.hashKey, id.String())
		pipe.LRem(ctx, r.orderKey, 0, id.String())
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete plan: %w", err)
	}
	return removed.Val() > 0, nil
}

func (r *redisPlanRepo) FindByID(ctx context.Context, id uuid.UUID) (*plan.CareerPlan, error) {
	raw, err := r.rdb.HGet(ctx, r.hashKey, id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, plan.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	p := &plan.CareerPlan{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return p, nil
}

func (r *redisPlanRepo) ListByOwner(ctx context.Context, userID string) ([]*plan.CareerPlan, error) {
	return r.scan(ctx, func(p *plan.CareerPlan) bool { return p.UserID == userID })
}

func (r *redisPlanRepo) ListPublic(ctx context.Context) ([]*plan.CareerPlan, error) {
	return r.scan(ctx, func(p *plan.CareerPlan) bool { return p.Visibility == plan.VisibilityPublic })
}

func (r *redisPlanRepo) ListAll(ctx context.Context) ([]*plan.CareerPlan, error) {
	return r.scan(ctx, func(*plan.CareerPlan) bool { return true })
}

// scan walks plans in insertion order and keeps those matching keep.
func (r *redisPlanRepo) scan(ctx context.Context, keep func(*plan.CareerPlan) bool) ([]*plan.CareerPlan, error) {
	ids, err := r.rdb.LRange(ctx, r.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read plan order: %w", err)
	}
	plans := make([]*plan.CareerPlan, 0)
	if len(ids) == 0 {
		return plans, nil
	}

	values, err := r.rdb.HMGet(ctx, r.hashKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read plans: %w", err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		p := &plan.CareerPlan{}
		if err := json.Unmarshal([]byte(raw), p); err != nil {
			return nil, fmt.Errorf("failed to decode plan: %w", err)
		}
		if keep(p) {
			plans = append(plans, p)
		}
	}
	return plans, nil
}
