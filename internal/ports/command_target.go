package ports

import (
	"context"
	"time"

	"github.com/Gunvolt24/command_router/internal/domain"
)

// CommandTargetMapper — внешний сервис, знающий, к какому экземпляру адаптера подключено устройство.
type CommandTargetMapper interface {
	GetTarget(ctx context.Context, tenantID, deviceID string) (domain.Target, error)
}

// TargetResolver — обёртка над CommandTargetMapper, которую вызывает пайплайн.
// Не ретраит: политику повторов выбирает вызывающая сторона.
type TargetResolver interface {
	Resolve(ctx context.Context, tenantID, deviceID string) (domain.Target, error)
}

// DeviceConnectionService — регистрация подключений устройств адаптерами.
type DeviceConnectionService interface {
	SetAdapterInstance(ctx context.Context, tenantID, deviceID, adapterInstanceID string, ttl time.Duration) error
	RemoveAdapterInstance(ctx context.Context, tenantID, deviceID, adapterInstanceID string) (bool, error)
	SetLastKnownGateway(ctx context.Context, tenantID, deviceID, gatewayID string) error
}
