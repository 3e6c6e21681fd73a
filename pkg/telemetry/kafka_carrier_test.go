package telemetry_test

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/command_router/pkg/telemetry"
)

func TestHeaderCarrier_SetReplacesExisting(t *testing.T) {
	headers := []kafka.Header{{Key: "subject", Value: []byte("on")}}
	c := telemetry.NewHeaderCarrier(&headers)

	c.Set("subject", "off")
	c.Set("traceparent", "00-abc")

	require.Len(t, headers, 2)
	require.Equal(t, "off", c.Get("subject"))
	require.Equal(t, "00-abc", c.Get("traceparent"))
	require.Equal(t, []string{"subject", "traceparent"}, c.Keys())
	require.Empty(t, c.Get("missing"))
}

func TestHeaderCarrier_TraceContextRoundTrip(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "forward")
	defer span.End()

	var headers []kafka.Header
	prop := propagation.TraceContext{}
	prop.Inject(ctx, telemetry.NewHeaderCarrier(&headers))
	require.NotEmpty(t, headers)

	extracted := prop.Extract(context.Background(), telemetry.NewHeaderCarrier(&headers))
	sc := trace.SpanContextFromContext(extracted)
	require.True(t, sc.IsValid())
	require.Equal(t, span.SpanContext().TraceID(), sc.TraceID())
}
