package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/career-compass/internal/domain/plan"
)

type postgresPlanRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPlanRepo(db *pgxpool.Pool) plan.Repository {
	return &postgresPlanRepo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var planColumns = []string{
	"id", "user_id", "full_name", "email", "current_role_title", "years_experience",
	"interests", "current_skills", "desired_roles", "career_goals",
	"ai_suggested_paths", "ai_recommended_courses", "visibility", "status",
	"created_at", "updated_at",
}

func scanPlan(row pgx.Row) (*plan.CareerPlan, error) {
	p := &plan.CareerPlan{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Email,
		&p.CurrentRole,
		&p.YearsExperience,
		&p.Interests,
		&p.CurrentSkills,
		&p.DesiredRoles,
		&p.CareerGoals,
		&p.AISuggestedPaths,
		&p.AIRecommendedCourses,
		&p.Visibility,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, plan.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to scan plan row: %w", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func scanPlans(rows pgx.Rows) ([]*plan.CareerPlan, error) {
	defer rows.Close()

	plans := make([]*plan.CareerPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan row during iteration: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan rows: %w", err)
	}
	return plans, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func (r *postgresPlanRepo) Insert(ctx context.Context, p *plan.CareerPlan) error {
	query, args, err := psql.Insert("plans").
		Columns(planColumns...).
		Values(
			p.ID, p.UserID, p.FullName, p.Email, p.CurrentRole, p.YearsExperience,
			nonNil(p.Interests), p.CurrentSkills, nonNil(p.DesiredRoles), p.CareerGoals,
			p.AISuggestedPaths, p.AIRecommendedCourses, p.Visibility, p.Status,
			p.CreatedAt, p.UpdatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build plan insert: %w", err)
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errPlanIDExists
		}
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// Update never touches user_id or created_at.
func (r *postgresPlanRepo) Update(ctx context.Context, p *plan.CareerPlan) error {
	query := `
		UPDATE plans SET
			full_name = $2, email = $3, current_role_title = $4, years_experience = $5,
			interests = $6, current_skills = $7, desired_roles = $8, career_goals = $9,
			ai_suggested_paths = $10, ai_recommended_courses = $11, visibility = $12,
			status = $13, updated_at = $14
		WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		p.ID, p.FullName, p.Email, p.CurrentRole, p.YearsExperience,
		nonNil(p.Interests), p.CurrentSkills, nonNil(p.DesiredRoles), p.CareerGoals,
		p.AISuggestedPaths, p.AIRecommendedCourses, p.Visibility,
		p.Status, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return plan.ErrPlanNotFound
	}
	return nil
}

func (r *postgresPlanRepo) UpdateSuggestions(ctx context.Context, id uuid.UUID, paths, courses string, updatedAt time.Time) (*plan.CareerPlan, error) {
	query, args, err := psql.Update("plans").
		Set("ai_suggested_paths", paths).
		Set("ai_recommended_courses", courses).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(planColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build plan suggestions update: %w", err)
	}
	return scanPlan(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresPlanRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete plan: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *postgresPlanRepo) FindByID(ctx context.Context, id uuid.UUID) (*plan.CareerPlan, error) {
	query, args, err := psql.Select(planColumns...).From("plans").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build plan query: %w", err)
	}
	return scanPlan(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresPlanRepo) ListByOwner(ctx context.Context, userID string) ([]*plan.CareerPlan, error) {
	return r.list(ctx, sq.Eq{"user_id": userID})
}

func (r *postgresPlanRepo) ListPublic(ctx context.Context) ([]*plan.CareerPlan, error) {
	return r.list(ctx, sq.Eq{"visibility": plan.VisibilityPublic})
}

func (r *postgresPlanRepo) ListAll(ctx context.Context) ([]*plan.CareerPlan, error) {
	return r.list(ctx, nil)
}

func (r *postgresPlanRepo) list(ctx context.Context, where sq.Sqlizer) ([]*plan.CareerPlan, error) {
	builder := psql.Select(planColumns...).From("plans").OrderBy("seq ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build plan list query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	return scanPlans(rows)
}
