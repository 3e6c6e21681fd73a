package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestTracingOptions_Defaults(t *testing.T) {
	o := TracingOptions{SampleRatio: 7}.normalized()
	require.Equal(t, DefaultServiceName, o.ServiceName)
	require.Equal(t, DefaultEndpoint, o.Endpoint)
	require.Equal(t, 1.0, o.SampleRatio)

	require.Equal(t, 0.0, TracingOptions{SampleRatio: -1}.normalized().SampleRatio)
}

func TestTracingOptions_ResourceCarriesInstance(t *testing.T) {
	res := TracingOptions{ServiceName: "router-a", InstanceID: "adapter-7"}.normalized().resource()

	got := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		got[kv.Key] = kv.Value.Emit()
	}
	require.Equal(t, "router-a", got["service.name"])
	require.Equal(t, ServiceNamespace, got["service.namespace"])
	require.Equal(t, "adapter-7", got["service.instance.id"])
}

func TestTracingOptions_SamplerFollowsParent(t *testing.T) {
	s := TracingOptions{SampleRatio: 0}.normalized().sampler()

	// корневой спан при доле 0 не пишется
	root := s.ShouldSample(sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: trace.TraceID{1}})
	require.Equal(t, sdktrace.Drop, root.Decision)

	// а продолжение трейса отправителя — пишется
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{1},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx := trace.ContextWithRemoteSpanContext(context.Background(), parent)
	child := s.ShouldSample(sdktrace.SamplingParameters{ParentContext: ctx, TraceID: trace.TraceID{1}})
	require.Equal(t, sdktrace.RecordAndSample, child.Decision)
}
