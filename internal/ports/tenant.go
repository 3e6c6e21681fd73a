package ports

import (
	"context"

	"github.com/Gunvolt24/command_router/internal/domain"
)

// TenantClient — проверка тенанта перед созданием консьюмера команд.
// Неизвестный или отключённый тенант → domain.ErrTenantNotFound.
type TenantClient interface {
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

// TenantRepository — реестр тенантов. GetByID возвращает (nil, nil), если записи нет.
type TenantRepository interface {
	GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	Upsert(ctx context.Context, tenant *domain.Tenant) error
	ListEnabled(ctx context.Context, limit int) ([]*domain.Tenant, error)
}

// TenantCache — кэш тенантов.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий сущности.
type TenantCache interface {
	// Get — (tenant, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, tenantID string) (*domain.Tenant, bool)
	Set(ctx context.Context, tenant *domain.Tenant) error
	// WarmUp — массовая загрузка кэша (например, при старте).
	WarmUp(ctx context.Context, tenants []*domain.Tenant) error
}
