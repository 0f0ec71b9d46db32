package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/pkg/logger"
)

// messageReader is the subset of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PlanEventHandler processes one decoded plan event.
type PlanEventHandler func(ctx context.Context, evt service.PlanEvent) error

type PlanEventConsumer struct {
	reader  messageReader
	handler PlanEventHandler
	log     logger.Logger
}

func NewPlanEventConsumer(brokers []string, groupID string, handler PlanEventHandler, log logger.Logger) *PlanEventConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    TopicPlanEvents,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &PlanEventConsumer{reader: reader, handler: handler, log: log}
}

// Run consumes until ctx is cancelled. Undecodable messages are committed and
// skipped; handler failures are logged and committed so one bad plan cannot
// stall the partition.
func (c *PlanEventConsumer) Run(ctx context.Context) error {
	c.log.Info("Worker listening", zap.String("topic", TopicPlanEvents))
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.log.Error("Failed to read message from Kafka", err)
			continue
		}

		var evt service.PlanEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			c.log.Warn("Skipping undecodable plan event", zap.Error(err), zap.ByteString("key", msg.Key))
			c.commit(ctx, msg)
			continue
		}

		c.log.Debug("Processing plan event",
			zap.String("event_type", string(evt.Type)),
			zap.String("plan_id", evt.PlanID.String()))

		if err := c.handler(ctx, evt); err != nil {
			c.log.Error("Failed to process plan event", err, zap.String("plan_id", evt.PlanID.String()))
		}
		c.commit(ctx, msg)
	}
}

func (c *PlanEventConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.log.Error("Failed to commit message", err)
	}
}

func (c *PlanEventConsumer) Close() error {
	return c.reader.Close()
}
