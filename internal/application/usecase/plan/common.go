package plan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

var tracer = otel.Tracer("plan_usecase")

// fromRepoErr maps repository sentinels onto application errors.
func fromRepoErr(err error, id uuid.UUID, action string) error {
	if errors.Is(err, plan.ErrPlanNotFound) {
		return apperror.NewNotFound("plan", id.String())
	}
	return apperror.NewInternal(action, err)
}

// publishAsync sends evt on a background goroutine; failures are only logged.
func publishAsync(publisher service.PlanEventPublisher, log logger.Logger, evt service.PlanEvent) {
	go func() {
		if err := publisher.PublishPlanEvent(context.Background(), evt); err != nil {
			log.Error("Failed to publish plan event", err,
				zap.String("event_type", string(evt.Type)),
				zap.String("plan_id", evt.PlanID.String()))
		}
	}()
}

func requireOwner(p *plan.CareerPlan, ownerID string) error {
	if p.UserID != ownerID {
		return apperror.NewPermissionDenied("plan belongs to another account")
	}
	return nil
}

// stamp returns the current UTC time truncated to the microsecond precision of
// TIMESTAMPTZ.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Microsecond)
}
