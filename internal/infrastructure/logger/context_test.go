package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextRoundTrip(t *testing.T) {
	log := zap.NewNop()
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
}

func TestFromContextMissingLoggerIsNoop(t *testing.T) {
	log := FromContext(context.Background())
	require.NotNil(t, log)
	// Safe to use without further checks
	log.Info("ignored")
}

func TestWithTenantIDEnrichesLoggerAndContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, log := WithTenantID(context.Background(), zap.New(core), "0198b2fa-aaaa-7000-8000-000000000001")
	log.Info("cart expired")

	assert.Equal(t, "0198b2fa-aaaa-7000-8000-000000000001", GetTenantID(ctx))
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "0198b2fa-aaaa-7000-8000-000000000001",
		recorded.All()[0].ContextMap()["tenant_id"])

	// The enriched logger is also what FromContext now returns
	assert.Same(t, log, FromContext(ctx))
}

func TestRequestAndUserIDAccessors(t *testing.T) {
	log := zap.NewNop()

	ctx, _ := WithRequestID(context.Background(), log, "req-123")
	ctx, _ = WithUserID(ctx, log, "user-9")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "user-9", GetUserID(ctx))
	assert.Empty(t, GetTenantID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestWithTraceContext(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "checkout.place_order")
	defer span.End()

	core, recorded := observer.New(zapcore.InfoLevel)
	WithTraceContext(ctx, zap.New(core)).Info("order placed")

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestWithTraceContextNoSpanIsUnchanged(t *testing.T) {
	log := zap.NewNop()
	assert.Same(t, log, WithTraceContext(context.Background(), log))
}
