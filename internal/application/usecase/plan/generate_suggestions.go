package plan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/usecase/advisor"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/logger"
)

// GenerateSuggestionsUseCase asks the advisor for both annotations and stores
// them on the plan.
type GenerateSuggestionsUseCase struct {
	planRepo plan.Repository
	advisor  *advisor.AdvisorUseCase
	now      func() time.Time
	logger   logger.Logger
}

func NewGenerateSuggestionsUseCase(repo plan.Repository, adv *advisor.AdvisorUseCase, log logger.Logger) *GenerateSuggestionsUseCase {
	return &GenerateSuggestionsUseCase{
		planRepo: repo,
		advisor:  adv,
		now:      time.Now,
		logger:   log,
	}
}

type GenerateSuggestionsInput struct {
	PlanID  uuid.UUID
	OwnerID string
}

// Execute writes only the two AI fields, so owner edits made while the
// advisor is running survive.
func (uc *GenerateSuggestionsUseCase) Execute(ctx context.Context, input GenerateSuggestionsInput) (*plan.CareerPlan, error) {
	ctx, span := tracer.Start(ctx, "GenerateSuggestions")
	defer span.End()

	existing, err := uc.planRepo.FindByID(ctx, input.PlanID)
	if err != nil {
		span.RecordError(err)
		return nil, fromRepoErr(err, input.PlanID, "failed to get plan")
	}
	if err := requireOwner(existing, input.OwnerID); err != nil {
		return nil, err
	}

	paths := uc.advisor.GenerateCareerPaths(ctx, advisor.CareerPathsInput{
		CurrentRole:     existing.CurrentRole,
		YearsExperience: existing.YearsExperience,
		Skills:          existing.CurrentSkills,
		Interests:       existing.Interests,
		DesiredRoles:    existing.DesiredRoles,
	})
	courses := uc.advisor.RecommendCourses(ctx, advisor.CoursesInput{
		Skills:       existing.CurrentSkills,
		DesiredRoles: existing.DesiredRoles,
	})

	updated, err := uc.planRepo.UpdateSuggestions(ctx, input.PlanID, paths, courses, stamp(uc.now))
	if err != nil {
		span.RecordError(err)
		return nil, fromRepoErr(err, input.PlanID, "failed to store suggestions")
	}
	uc.logger.Info("Stored plan suggestions", zap.String("plan_id", updated.ID.String()))
	return updated, nil
}
