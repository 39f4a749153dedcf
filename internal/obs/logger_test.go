package obs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "loud", App: "result-watch"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}

func TestWithTrace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := zap.New(core)

	WithTrace(context.Background(), l).Info("plain")

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	WithTrace(ctx, l).Info("traced")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0].ContextMap(), "trace_id")
	assert.Equal(t, sc.TraceID().String(), entries[1].ContextMap()["trace_id"])
	assert.Equal(t, sc.SpanID().String(), entries[1].ContextMap()["span_id"])
	assert.Equal(t, true, entries[1].ContextMap()["sampled"])
}

func TestComponent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Component(zap.New(core), "monitor.runner").Info("hi")
	assert.Equal(t, "monitor.runner", logs.All()[0].ContextMap()["component"])
}

func TestBootstrapMetricsServer_Disabled(t *testing.T) {
	ms := BootstrapMetricsServer("", nil, zap.NewNop())
	assert.Nil(t, ms)
	assert.NoError(t, ShutdownMetricsServer(context.Background(), ms))
}
