package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/pkg/logger"
)

const TopicPlanEvents = "plan.events"

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	PlanEventsWriter messageWriter
	log              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	planWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicPlanEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialized Kafka producer", zap.Strings("brokers", brokers), zap.String("topic", TopicPlanEvents))
	return &KafkaProducerClient{PlanEventsWriter: planWriter, log: log}, nil
}

// PublishPlanEvent keys messages by plan id so events of one plan stay ordered.
func (c *KafkaProducerClient) PublishPlanEvent(ctx context.Context, evt service.PlanEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal plan event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.PlanID.String()),
		Value: value,
	}
	if err := c.PlanEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write plan event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PlanEventsWriter != nil {
		if err := c.PlanEventsWriter.Close(); err != nil {
			c.log.Warn("Failed to close Kafka producer", zap.Error(err))
			return
		}
	}
	c.log.Info("Closed Kafka producer")
}

// NoopPublisher drops events when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPlanEvent(context.Context, service.PlanEvent) error { return nil }

// NewPublisher returns a Kafka producer when brokers are configured, NoopPublisher otherwise.
// The returned close func is always safe to call.
func NewPublisher(cfg config.Config, log logger.Logger) (service.PlanEventPublisher, func(), error) {
	if !cfg.KafkaEnabled() {
		log.Warn("Kafka brokers not configured; plan events are not published")
		return NoopPublisher{}, func() {}, nil
	}
	client, err := NewKafkaProducerClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}
