package persistence

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/internal/domain/plan"
)

// The memory repositories keep an id → record map plus an insertion order
// slice. They back the default "memory" storage driver and the use case tests.

type memoryAccountRepo struct {
	mu      sync.RWMutex
	byEmail map[string]*account.Account
	order   []string
}

func NewMemoryAccountRepo() account.Repository {
	return &memoryAccountRepo{byEmail: make(map[string]*account.Account)}
}

func (r *memoryAccountRepo) List(_ context.Context) ([]*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*account.Account, 0, len(r.order))
	for _, email := range r.order {
		a := *r.byEmail[email]
		out = append(out, &a)
	}
	return out, nil
}

func (r *memoryAccountRepo) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byEmail[account.NormalizeEmail(email)]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memoryAccountRepo) FindByID(_ context.Context, id string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, email := range r.order {
		if a := r.byEmail[email]; a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (r *memoryAccountRepo) Insert(_ context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := account.NormalizeEmail(a.Email)
	if _, exists := r.byEmail[key]; exists {
		return account.ErrDuplicateAccount
	}
	cp := *a
	r.byEmail[key] = &cp
	r.order = append(r.order, key)
	return nil
}

type memorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*account.Session
	now      func() time.Time
}

func NewMemorySessionRepo() account.SessionRepository {
	return &memorySessionRepo{
		sessions: make(map[uuid.UUID]*account.Session),
		now:      time.Now,
	}
}

func (r *memorySessionRepo) Save(_ context.Context, s *account.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memorySessionRepo) Get(_ context.Context, id uuid.UUID) (*account.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, account.ErrSessionNotFound
	}
	if s.Expired(r.now()) {
		delete(r.sessions, id)
		return nil, account.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memorySessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

type memoryPlanRepo struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*plan.CareerPlan
	order []uuid.UUID
}

func NewMemoryPlanRepo() plan.Repository {
	return &memoryPlanRepo{byID: make(map[uuid.UUID]*plan.CareerPlan)}
}

func (r *memoryPlanRepo) Insert(_ context.Context, p *plan.CareerPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return errPlanIDExists
	}
	r.byID[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return nil
}

func (r *memoryPlanRepo) Update(_ context.Context, p *plan.CareerPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return plan.ErrPlanNotFound
	}
	r.byID[p.ID] = p.Clone()
	return nil
}

func (r *memoryPlanRepo) UpdateSuggestions(_ context.Context, id uuid.UUID, paths, courses string, updatedAt time.Time) (*plan.CareerPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, plan.ErrPlanNotFound
	}
	p.AISuggestedPaths = paths
	p.AIRecommendedCourses = courses
	p.UpdatedAt = updatedAt
	return p.Clone(), nil
}

func (r *memoryPlanRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return false, nil
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(x uuid.UUID) bool { return x == id })
	return true, nil
}

func (r *memoryPlanRepo) FindByID(_ context.Context, id uuid.UUID) (*plan.CareerPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, plan.ErrPlanNotFound
	}
	return p.Clone(), nil
}

func (r *memoryPlanRepo) ListByOwner(_ context.Context, userID string) ([]*plan.CareerPlan, error) {
	return r.filter(func(p *plan.CareerPlan) bool { return p.UserID == userID }), nil
}

func (r *memoryPlanRepo) ListPublic(_ context.Context) ([]*plan.CareerPlan, error) {
	return r.filter(func(p *plan.CareerPlan) bool { return p.Visibility == plan.VisibilityPublic }), nil
}

func (r *memoryPlanRepo) ListAll(_ context.Context) ([]*plan.CareerPlan, error) {
	return r.filter(func(*plan.CareerPlan) bool { return true }), nil
}

func (r *memoryPlanRepo) filter(keep func(*plan.CareerPlan) bool) []*plan.CareerPlan {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*plan.CareerPlan, 0)
	for _, id := range r.order {
		if p := r.byID[id]; keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}
