package plan

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type DeletePlanUseCase struct {
	planRepo  plan.Repository
	publisher service.PlanEventPublisher
	logger    logger.Logger
}

func NewDeletePlanUseCase(repo plan.Repository, publisher service.PlanEventPublisher, log logger.Logger) *DeletePlanUseCase {
	return &DeletePlanUseCase{planRepo: repo, publisher: publisher, logger: log}
}

type DeletePlanInput struct {
	PlanID  uuid.UUID
	OwnerID string
}

// Execute reports whether a plan was removed. An unknown id is not an error.
func (uc *DeletePlanUseCase) Execute(ctx context.Context, input DeletePlanInput) (bool, error) {
	ctx, span := tracer.Start(ctx, "DeletePlan")
	defer span.End()

	existing, err := uc.planRepo.FindByID(ctx, input.PlanID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return false, nil
		}
		span.RecordError(err)
		return false, apperror.NewInternal("failed to get plan", err)
	}
	if err := requireOwner(existing, input.OwnerID); err != nil {
		return false, err
	}

	removed, err := uc.planRepo.Delete(ctx, input.PlanID)
	if err != nil {
		span.RecordError(err)
		return false, apperror.NewInternal("failed to delete plan", err)
	}
	if !removed {
		return false, nil
	}
	uc.logger.Info("Deleted plan", zap.String("plan_id", input.PlanID.String()))

	publishAsync(uc.publisher, uc.logger, service.PlanEvent{
		Type:    service.PlanDeleted,
		PlanID:  input.PlanID,
		OwnerID: existing.UserID,
	})
	return true, nil
}
