package plan

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Status is a free-standing label. No transition between values is enforced.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusReviewed  Status = "reviewed"
	StatusApproved  Status = "approved"
)

var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrInvalidVisibility = errors.New("invalid visibility")
	ErrInvalidStatus     = errors.New("invalid status")
)

func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusReviewed, StatusApproved:
		return true
	}
	return false
}

type CareerPlan struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               string     `json:"userId" validate:"required"`
	FullName             string     `json:"fullName"`
	Email                string     `json:"email"`
	CurrentRole          string     `json:"currentRole"`
	YearsExperience      int        `json:"yearsExperience" validate:"gte=0"`
	Interests            []string   `json:"interests"`
	CurrentSkills        string     `json:"currentSkills"`
	DesiredRoles         []string   `json:"desiredRoles"`
	CareerGoals          string     `json:"careerGoals"`
	AISuggestedPaths     string     `json:"aiSuggestedPaths"`
	AIRecommendedCourses string     `json:"aiRecommendedCourses"`
	Visibility           Visibility `json:"visibility"`
	Status               Status     `json:"status"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (p *CareerPlan) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if !p.Visibility.Valid() {
		return ErrInvalidVisibility
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (p *CareerPlan) Clone() *CareerPlan {
	c := *p
	c.Interests = slices.Clone(p.Interests)
	c.DesiredRoles = slices.Clone(p.DesiredRoles)
	return &c
}

// Patch carries the fields of a partial update. Nil means "leave unchanged".
// id, userId and createdAt are deliberately absent.
type Patch struct {
	FullName             *string
	Email                *string
	CurrentRole          *string
	YearsExperience      *int
	Interests            *[]string
	CurrentSkills        *string
	DesiredRoles         *[]string
	CareerGoals          *string
	AISuggestedPaths     *string
	AIRecommendedCourses *string
	Visibility           *Visibility
	Status               *Status
}

func (pt Patch) IsEmpty() bool {
	return pt == Patch{}
}

// Apply shallow-merges the patch over p and stamps UpdatedAt.
func (pt Patch) Apply(p *CareerPlan, now time.Time) {
	if pt.FullName != nil {
		p.FullName = *pt.FullName
	}
	if pt.Email != nil {
		p.Email = *pt.Email
	}
	if pt.CurrentRole != nil {
		p.CurrentRole = *pt.CurrentRole
	}
	if pt.YearsExperience != nil {
		p.YearsExperience = *pt.YearsExperience
	}
	if pt.Interests != nil {
		p.Interests = CleanList(*pt.Interests)
	}
	if pt.CurrentSkills != nil {
		p.CurrentSkills = *pt.CurrentSkills
	}
	if pt.DesiredRoles != nil {
		p.DesiredRoles = CleanList(*pt.DesiredRoles)
	}
	if pt.CareerGoals != nil {
		p.CareerGoals = *pt.CareerGoals
	}
	if pt.AISuggestedPaths != nil {
		p.AISuggestedPaths = *pt.AISuggestedPaths
	}
	if pt.AIRecommendedCourses != nil {
		p.AIRecommendedCourses = *pt.AIRecommendedCourses
	}
	if pt.Visibility != nil {
		p.Visibility = *pt.Visibility
	}
	if pt.Status != nil {
		p.Status = *pt.Status
	}
	p.UpdatedAt = now
}

// CleanList trims entries and drops empty ones. The result is never nil.
func CleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type Repository interface {
	Insert(ctx context.Context, p *CareerPlan) error
	// Update replaces the stored record with the same ID.
	Update(ctx context.Context, p *CareerPlan) error
	// UpdateSuggestions sets only the AI annotations and UpdatedAt on the
	// stored record and returns the result.
	UpdateSuggestions(ctx context.Context, id uuid.UUID, paths, courses string, updatedAt time.Time) (*CareerPlan, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*CareerPlan, error)
	ListByOwner(ctx context.Context, userID string) ([]*CareerPlan, error)
	ListPublic(ctx context.Context) ([]*CareerPlan, error)
	// ListAll returns every plan in insertion order.
	ListAll(ctx context.Context) ([]*CareerPlan, error)
}
