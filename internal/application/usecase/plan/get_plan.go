package plan

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type GetPlanUseCase struct {
	planRepo plan.Repository
	logger   logger.Logger
}

func NewGetPlanUseCase(repo plan.Repository, log logger.Logger) *GetPlanUseCase {
	return &GetPlanUseCase{planRepo: repo, logger: log}
}

func (uc *GetPlanUseCase) Execute(ctx context.Context, id uuid.UUID) (*plan.CareerPlan, error) {
	ctx, span := tracer.Start(ctx, "GetPlan")
	defer span.End()

	p, err := uc.planRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fromRepoErr(err, id, "failed to get plan")
	}
	return p, nil
}
