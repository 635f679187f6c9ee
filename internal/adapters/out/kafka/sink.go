// Package kafka publishes operator notifications to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const eventType = "fulfillment.notification"

// Envelope is the JSON value of every published message.
type Envelope struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	Level        string    `json:"level"`
	OrderID      string    `json:"order_id"`
	TrackingCode string    `json:"tracking_code,omitempty"`
	Message      string    `json:"message"`
	TraceID      string    `json:"trace_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sink implements ports.NotificationSink. Messages are keyed by order id so
// notifications for one order stay in one partition.
type Sink struct {
	w      messageWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewSink creates an asynchronous writer. Delivery failures are only logged;
// notifications never block or fail a business operation.
func NewSink(brokers []string, topic string, logger *slog.Logger) *Sink {
	logger = logger.With("component", "kafka_notifications", "topic", topic)

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to publish notifications", "count", len(messages), "error", err)
			}
		},
	}

	return newSink(w, logger)
}

func newSink(w messageWriter, logger *slog.Logger) *Sink {
	return &Sink{
		w:      w,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Sink) Notify(ctx context.Context, n ports.Notification) {
	value, err := json.Marshal(Envelope{
		EventID:      uuid.NewString(),
		Type:         eventType,
		Level:        string(n.Level),
		OrderID:      n.OrderID,
		TrackingCode: n.TrackingCode,
		Message:      n.Message,
		TraceID:      telemetry.TraceID(ctx),
		OccurredAt:   s.now(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode notification", "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(n.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(eventType)},
			{Key: "level", Value: []byte(n.Level)},
		},
	}

	if err = s.w.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish notification", "order_id", n.OrderID, "error", err)
	}
}

// Close flushes pending messages.
func (s *Sink) Close() error {
	return s.w.Close()
}
