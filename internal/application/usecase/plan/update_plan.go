package plan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type UpdatePlanUseCase struct {
	planRepo  plan.Repository
	publisher service.PlanEventPublisher
	now       func() time.Time
	logger    logger.Logger
}

func NewUpdatePlanUseCase(repo plan.Repository, publisher service.PlanEventPublisher, log logger.Logger) *UpdatePlanUseCase {
	return &UpdatePlanUseCase{
		planRepo:  repo,
		publisher: publisher,
		now:       time.Now,
		logger:    log,
	}
}

type UpdatePlanInput struct {
	PlanID  uuid.UUID
	OwnerID string
	Patch   plan.Patch
	// RequestSuggestions asks the worker to regenerate the AI annotations.
	RequestSuggestions bool
}

func (uc *UpdatePlanUseCase) Execute(ctx context.Context, input UpdatePlanInput) (*plan.CareerPlan, error) {
	ctx, span := tracer.Start(ctx, "UpdatePlan")
	defer span.End()

	existing, err := uc.planRepo.FindByID(ctx, input.PlanID)
	if err != nil {
		span.RecordError(err)
		return nil, fromRepoErr(err, input.PlanID, "failed to get plan")
	}
	if err := requireOwner(existing, input.OwnerID); err != nil {
		return nil, err
	}

	updated, err := uc.apply(ctx, existing, input.Patch)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	publishAsync(uc.publisher, uc.logger, service.PlanEvent{
		Type:               service.PlanUpdated,
		PlanID:             updated.ID,
		OwnerID:            updated.UserID,
		RequestSuggestions: input.RequestSuggestions,
	})
	return updated, nil
}

// apply merges patch into existing and persists it. The stored record is only
// replaced when the merged plan is valid.
func (uc *UpdatePlanUseCase) apply(ctx context.Context, existing *plan.CareerPlan, patch plan.Patch) (*plan.CareerPlan, error) {
	if patch.Visibility != nil && !patch.Visibility.Valid() {
		return nil, apperror.NewInvalidInput("visibility must be private or public", plan.ErrInvalidVisibility)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperror.NewInvalidInput("status must be draft, submitted, reviewed or approved", plan.ErrInvalidStatus)
	}

	merged := existing.Clone()
	patch.Apply(merged, stamp(uc.now))
	if err := merged.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	if err := uc.planRepo.Update(ctx, merged); err != nil {
		return nil, fromRepoErr(err, merged.ID, "failed to update plan")
	}
	uc.logger.Info("Updated plan", zap.String("plan_id", merged.ID.String()))
	return merged, nil
}
