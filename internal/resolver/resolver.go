package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/metrics"
	"github.com/Gunvolt24/command_router/pkg/telemetry"
	"github.com/Gunvolt24/command_router/pkg/validate"
)

// Проверка, что TargetResolver удовлетворяет порту резолвера.
var _ ports.TargetResolver = (*TargetResolver)(nil)

// TargetResolver — тонкая обёртка над сервисом маппинга: таймаут, трассировка, метрика.
// Ошибки не ретраит, их обрабатывает пайплайн.
type TargetResolver struct {
	mapper  ports.CommandTargetMapper
	timeout time.Duration
	tracer  trace.Tracer
}

// New — конструктор. timeout <= 0 — без собственного таймаута (только контекст вызывающего).
func New(mapper ports.CommandTargetMapper, timeout time.Duration) *TargetResolver {
	return &TargetResolver{
		mapper:  mapper,
		timeout: timeout,
		tracer:  otel.Tracer(telemetry.TracerName),
	}
}

// Resolve ищет адаптер устройства. Истечение таймаута → domain.ErrResolveTimeout.
func (r *TargetResolver) Resolve(ctx context.Context, tenantID, deviceID string) (domain.Target, error) {
	if err := validate.DeviceID(deviceID); err != nil {
		return domain.Target{}, fmt.Errorf("%w: %w", domain.ErrUnroutableCommand, err)
	}

	ctx, span := r.tracer.Start(ctx, "resolve command target",
		trace.WithAttributes(
			attribute.String("tenant_id", tenantID),
			attribute.String("device_id", deviceID),
		),
	)
	defer span.End()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	target, err := r.mapper.GetTarget(ctx, tenantID, deviceID)
	if err == nil && target.AdapterInstanceID == "" {
		err = domain.ErrTargetNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrResolveTimeout) {
		err = fmt.Errorf("%w: %w", domain.ErrResolveTimeout, err)
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
	} else {
		span.SetAttributes(
			attribute.String("adapter_instance_id", target.AdapterInstanceID),
			attribute.Bool("via_gateway", target.ViaGateway()),
		)
	}
	metrics.ResolveDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return domain.Target{}, err
	}
	return target, nil
}
