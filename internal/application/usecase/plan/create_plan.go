package plan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type CreatePlanUseCase struct {
	planRepo  plan.Repository
	publisher service.PlanEventPublisher
	now       func() time.Time
	logger    logger.Logger
}

func NewCreatePlanUseCase(repo plan.Repository, publisher service.PlanEventPublisher, log logger.Logger) *CreatePlanUseCase {
	return &CreatePlanUseCase{
		planRepo:  repo,
		publisher: publisher,
		now:       time.Now,
		logger:    log,
	}
}

type CreatePlanInput struct {
	OwnerID              string
	FullName             string
	Email                string
	CurrentRole          string
	YearsExperience      int
	Interests            []string
	CurrentSkills        string
	DesiredRoles         []string
	CareerGoals          string
	AISuggestedPaths     string
	AIRecommendedCourses string
	Visibility           plan.Visibility
	// RequestSuggestions asks the worker to fill in the AI annotations.
	RequestSuggestions bool
}

func (uc *CreatePlanUseCase) Execute(ctx context.Context, input CreatePlanInput) (*plan.CareerPlan, error) {
	ctx, span := tracer.Start(ctx, "CreatePlan")
	defer span.End()

	if input.Visibility == "" {
		input.Visibility = plan.VisibilityPrivate
	}

	now := stamp(uc.now)
	newPlan := &plan.CareerPlan{
		ID:                   uuid.New(),
		UserID:               input.OwnerID,
		FullName:             input.FullName,
		Email:                input.Email,
		CurrentRole:          input.CurrentRole,
		YearsExperience:      input.YearsExperience,
		Interests:            plan.CleanList(input.Interests),
		CurrentSkills:        input.CurrentSkills,
		DesiredRoles:         plan.CleanList(input.DesiredRoles),
		CareerGoals:          input.CareerGoals,
		AISuggestedPaths:     input.AISuggestedPaths,
		AIRecommendedCourses: input.AIRecommendedCourses,
		Visibility:           input.Visibility,
		Status:               plan.StatusDraft,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := newPlan.Validate(); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	if err := uc.planRepo.Insert(ctx, newPlan); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to save plan", err)
	}
	span.SetAttributes(attribute.String("plan_id", newPlan.ID.String()))
	uc.logger.Info("Created plan", zap.String("plan_id", newPlan.ID.String()), zap.String("owner_id", newPlan.UserID))

	publishAsync(uc.publisher, uc.logger, service.PlanEvent{
		Type:               service.PlanCreated,
		PlanID:             newPlan.ID,
		OwnerID:            newPlan.UserID,
		RequestSuggestions: input.RequestSuggestions,
	})

	return newPlan, nil
}
