package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const (
	// DefaultServiceName — имя сервиса в ресурсе трейсов.
	DefaultServiceName = "command-router"
	// DefaultEndpoint — OTLP/HTTP коллектор из docker-compose.
	DefaultEndpoint = "jaeger:4318"
	// ServiceNamespace — общее пространство имён с адаптерами протоколов.
	ServiceNamespace = "hono"
)

// TracingOptions — параметры экспорта трейсов роутера.
type TracingOptions struct {
	ServiceName string
	Endpoint    string
	SampleRatio float64 // доля корневых трейсов, [0..1]
	InstanceID  string  // экземпляр адаптера, если роутер встроен в него
}

func (o TracingOptions) normalized() TracingOptions {
	if o.ServiceName == "" {
		o.ServiceName = DefaultServiceName
	}
	if o.Endpoint == "" {
		o.Endpoint = DefaultEndpoint
	}
	if o.SampleRatio < 0 {
		o.SampleRatio = 0
	}
	if o.SampleRatio > 1 {
		o.SampleRatio = 1
	}
	return o
}

func (o TracingOptions) resource() *resource.Resource {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(o.ServiceName),
		semconv.ServiceNamespace(ServiceNamespace),
		attribute.String("messaging.system", "kafka"),
	}
	if o.InstanceID != "" {
		attrs = append(attrs, semconv.ServiceInstanceID(o.InstanceID))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

// sampler — решение родителя из traceparent заголовка команды приоритетнее доли:
// трейс, начатый приложением-отправителем, не рвётся на роутере.
func (o TracingOptions) sampler() sdktrace.Sampler {
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.SampleRatio))
}

// SetupTracing — OTLP/HTTP экспорт, глобальный провайдер и пропагатор W3C TraceContext + Baggage
// (им же Forward пишет traceparent во внутренние топики). Возвращает Shutdown провайдера.
func SetupTracing(ctx context.Context, opts TracingOptions) (func(context.Context) error, error) {
	opts = opts.normalized()

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(opts.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(opts.sampler()),
		sdktrace.WithResource(opts.resource()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}
