package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	fkafka "fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSink_Notify_PublishesEnvelope(t *testing.T) {
	w := new(MockWriter)
	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	sink := fkafka.NewSinkWithWriter(w, discardLogger())
	sink.Notify(context.Background(), ports.Notification{
		Level:        ports.NotificationSuccess,
		OrderID:      "o-1",
		TrackingCode: "GHN42",
		Message:      "Order o-1 confirmed",
	})

	require.Len(t, sent, 1)
	assert.Equal(t, []byte("o-1"), sent[0].Key)

	var env fkafka.Envelope
	require.NoError(t, json.Unmarshal(sent[0].Value, &env))
	assert.Equal(t, "fulfillment.notification", env.Type)
	assert.Equal(t, "success", env.Level)
	assert.Equal(t, "o-1", env.OrderID)
	assert.Equal(t, "GHN42", env.TrackingCode)
	assert.Equal(t, "Order o-1 confirmed", env.Message)
	assert.NotEmpty(t, env.EventID)
	assert.False(t, env.OccurredAt.IsZero())
	w.AssertExpectations(t)
}

func TestSink_Notify_WriteErrorIsSwallowed(t *testing.T) {
	w := new(MockWriter)
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	sink := fkafka.NewSinkWithWriter(w, discardLogger())

	assert.NotPanics(t, func() {
		sink.Notify(context.Background(), ports.Notification{Level: ports.NotificationError, OrderID: "o-2"})
	})
	w.AssertExpectations(t)
}

func TestSink_Notify_IgnoresCancelledContext(t *testing.T) {
	w := new(MockWriter)
	w.On("WriteMessages", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), mock.Anything).
		Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fkafka.NewSinkWithWriter(w, discardLogger()).
		Notify(ctx, ports.Notification{Level: ports.NotificationWarning, OrderID: "o-3"})

	w.AssertExpectations(t)
}

func TestSink_Close(t *testing.T) {
	w := new(MockWriter)
	w.On("Close").Return(nil).Once()

	require.NoError(t, fkafka.NewSinkWithWriter(w, discardLogger()).Close())
	w.AssertExpectations(t)
}
