package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Demo identity seeded into an empty account collection.
const (
	DemoID       = "demo-user-id"
	DemoEmail    = "demo@example.com"
	DemoName     = "Demo User"
	DemoPassword = "password"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists with this email")
	ErrSessionNotFound  = errors.New("session not found")
)

// Account is the public view of a user. PasswordHash never leaves the store.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}

// Public returns a copy without password material.
func (a Account) Public() Account {
	a.PasswordHash = ""
	return a
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveID strips everything but ASCII letters and digits from the normalized
// email. Distinct emails can collide ("a.b@x.com" and "ab@x.com").
func DeriveID(email string) string {
	normalized := NormalizeEmail(email)
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Session is an authenticated login. One account may hold many sessions.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Account   Account   `json:"account"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewSession(a Account, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.New(),
		Account:   a.Public(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type Repository interface {
	// List returns every account in insertion order.
	List(ctx context.Context) ([]*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	// Insert fails with ErrDuplicateAccount when the normalized email exists.
	Insert(ctx context.Context, a *Account) error
}

type SessionRepository interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
