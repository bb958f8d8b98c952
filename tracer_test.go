package authsdk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopTracer(t *testing.T) {
	tracer := &NoopTracer{}

	ctx := context.Background()
	spanCtx, span := tracer.StartSpan(ctx, "test_span")

	assert.Equal(t, ctx, spanCtx, "NoopTracer should return the context unchanged")

	_, ok := span.(*NoopSpan)
	require.True(t, ok, "Should return a NoopSpan")

	// Span methods should not panic
	span.SetTag("tag", "value")
	span.Finish()
}

func TestOpenTelemetryTracer(t *testing.T) {
	tp := noop.NewTracerProvider()
	tracer := NewOpenTelemetryTracer(tp.Tracer("test"))

	spanCtx, span := tracer.StartSpan(context.Background(), "test_span")

	require.NotNil(t, spanCtx, "StartSpan should return a derived context for nesting")

	_, ok := span.(*OpenTelemetrySpan)
	require.True(t, ok, "Should return an OpenTelemetrySpan")

	// Span methods should not panic
	span.SetTag("tag", "value")
	span.Finish()
}
