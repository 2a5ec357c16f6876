// Package kafka publishes auth events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hackhub/auth-service/internal/events"
)

const source = "auth-service"

// Producer writes auth events to Kafka. Publication is asynchronous and
// best-effort; delivery failures are logged, never surfaced to callers.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer creates a Producer for the given brokers and topic.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to deliver auth events",
					zap.Int("count", len(messages)), zap.Error(err))
			}
		},
	}
	return &Producer{writer: writer, logger: logger}
}

// Publish enqueues an auth event keyed by user id.
func (p *Producer) Publish(ctx context.Context, eventType events.EventType, userID string) {
	event := events.Event{
		ID:     uuid.New().String(),
		Type:   eventType,
		Source: source,
		UserID: userID,
		Time:   time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal auth event",
			zap.String("event_type", string(eventType)), zap.Error(err))
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: value,
	}); err != nil {
		p.logger.Error("Failed to publish auth event",
			zap.String("event_type", string(eventType)),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
