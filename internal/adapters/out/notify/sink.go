// Package notify delivers operator notifications.
package notify

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
)

// LogSink writes notifications to the structured log. Errors are logged at
// error level, warnings at warn and successes at info.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "notifications")}
}

func (s *LogSink) Notify(ctx context.Context, n ports.Notification) {
	level := slog.LevelInfo
	switch n.Level {
	case ports.NotificationWarning:
		level = slog.LevelWarn
	case ports.NotificationError:
		level = slog.LevelError
	case ports.NotificationSuccess:
	}

	s.logger.Log(ctx, level, n.Message,
		"level_name", string(n.Level),
		"order_id", n.OrderID,
		"tracking_code", n.TrackingCode,
	)
}

// Fanout passes every notification to all sinks in order.
type Fanout []ports.NotificationSink

func (f Fanout) Notify(ctx context.Context, n ports.Notification) {
	for _, sink := range f {
		sink.Notify(ctx, n)
	}
}
