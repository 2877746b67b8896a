package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "text")

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be dropped")
	assert.Contains(t, out, "should appear")
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")

	logger.Info("structured", "job_id", 7, "candidate_id", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "structured", entry["msg"])
	assert.EqualValues(t, 7, entry["job_id"])
	assert.EqualValues(t, 3, entry["candidate_id"])
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	logger := slog.Default()
	assert.Same(t, logger, WithTraceContext(context.Background(), logger))
}

func TestWithTraceContext_RecordingSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")
	WithTraceContext(ctx, logger).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestInitTracing_Disabled(t *testing.T) {
	tp, shutdown, err := InitTracing(context.Background(), TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, shutdown(context.Background()))
}
