package service

import (
	"context"

	"github.com/google/uuid"
)

type PlanEventType string

const (
	PlanCreated PlanEventType = "plan.created"
	PlanUpdated PlanEventType = "plan.updated"
	PlanDeleted PlanEventType = "plan.deleted"
)

// PlanEvent is published after a plan mutation.
type PlanEvent struct {
	Type               PlanEventType `json:"event_type"`
	PlanID             uuid.UUID     `json:"plan_id"`
	OwnerID            string        `json:"owner_id"`
	RequestSuggestions bool          `json:"request_suggestions"`
}

type PlanEventPublisher interface {
	PublishPlanEvent(ctx context.Context, evt PlanEvent) error
}
