package plan

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type ListPlansUseCase struct {
	planRepo plan.Repository
	logger   logger.Logger
}

func NewListPlansUseCase(repo plan.Repository, log logger.Logger) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: repo, logger: log}
}

// ByOwner returns the owner's plans in insertion order.
func (uc *ListPlansUseCase) ByOwner(ctx context.Context, ownerID string) ([]*plan.CareerPlan, error) {
	ctx, span := tracer.Start(ctx, "ListPlansByOwner")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", ownerID))

	plans, err := uc.planRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to list plans", err)
	}
	return plans, nil
}

// Public returns every public plan in insertion order.
func (uc *ListPlansUseCase) Public(ctx context.Context) ([]*plan.CareerPlan, error) {
	ctx, span := tracer.Start(ctx, "ListPublicPlans")
	defer span.End()

	plans, err := uc.planRepo.ListPublic(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to list public plans", err)
	}
	return plans, nil
}
