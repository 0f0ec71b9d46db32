package plan

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

// ProcessPlanEventUseCase is the worker side of plan events.
type ProcessPlanEventUseCase struct {
	generate *GenerateSuggestionsUseCase
	logger   logger.Logger
}

func NewProcessPlanEventUseCase(generate *GenerateSuggestionsUseCase, log logger.Logger) *ProcessPlanEventUseCase {
	return &ProcessPlanEventUseCase{generate: generate, logger: log}
}

func (uc *ProcessPlanEventUseCase) Execute(ctx context.Context, evt service.PlanEvent) error {
	l := uc.logger.With(zap.String("event_type", string(evt.Type)), zap.String("plan_id", evt.PlanID.String()))

	if evt.Type == service.PlanDeleted || !evt.RequestSuggestions {
		l.Debug("No suggestions requested, skip")
		return nil
	}

	_, err := uc.generate.Execute(ctx, GenerateSuggestionsInput{PlanID: evt.PlanID, OwnerID: evt.OwnerID})
	switch {
	case err == nil:
		l.Info("Stored generated suggestions")
		return nil
	case errors.Is(err, apperror.ErrNotFound):
		l.Warn("Plan not found, skip")
		return nil
	case errors.Is(err, apperror.ErrPermission):
		l.Warn("Event owner does not own plan, skip")
		return nil
	}
	return err
}
