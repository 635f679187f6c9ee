package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"fulfillment/internal/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestContextHandler_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger(&buf, slog.LevelInfo).With("component", "test")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(t.Context(), "op")
	defer span.End()

	logger.InfoContext(ctx, "shipment created", "tracking_code", "GHN123")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "shipment created", record["msg"])
	assert.Equal(t, "test", record["component"])
	assert.Equal(t, "GHN123", record["tracking_code"])
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), telemetry.TraceID(ctx))
}

func TestContextHandler_WithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger(&buf, slog.LevelInfo)

	logger.InfoContext(t.Context(), "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
	assert.Empty(t, telemetry.TraceID(t.Context()))
}

func TestParseLevel(t *testing.T) {
	level, err := telemetry.ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = telemetry.ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = telemetry.ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupTracer_WithoutExporter(t *testing.T) {
	shutdown, err := telemetry.SetupTracer(t.Context(), "fulfillment-test", "")
	require.NoError(t, err)

	assert.NoError(t, shutdown(context.Background()))
}
