//go:build otel && !gopls

package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Сборка с тегом `otel`: id берутся из активного спана. Для записи из Kafka это спан,
// продолживший traceparent из заголовков команды, поэтому логи роутера и адаптера
// склеиваются по одному trace_id.

func activeSpan(ctx context.Context) (trace.SpanContext, bool) {
	sc := trace.SpanContextFromContext(ctx)
	return sc, sc.IsValid()
}

func TraceIDFromContext(ctx context.Context) (string, bool) {
	if sc, ok := activeSpan(ctx); ok {
		return sc.TraceID().String(), true
	}
	return "", false
}

func SpanIDFromContext(ctx context.Context) (string, bool) {
	if sc, ok := activeSpan(ctx); ok {
		return sc.SpanID().String(), true
	}
	return "", false
}
