package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/validate"
)

// Проверка, что TenantService годится как клиент тенантов для фабрики консьюмеров.
var _ ports.TenantClient = (*TenantService)(nil)

// TenantService — прикладная логика реестра тенантов (без знаний о транспорте).
type TenantService struct {
	repo  ports.TenantRepository
	cache ports.TenantCache
	log   ports.Logger
}

// NewTenantService — DI-конструктор.
func NewTenantService(repo ports.TenantRepository, cache ports.TenantCache, log ports.Logger) *TenantService {
	return &TenantService{repo: repo, cache: cache, log: log}
}

// GetTenant — сначала кэш, при промахе БД с записью в кэш.
// Неизвестный или отключённый тенант → domain.ErrTenantNotFound.
func (s *TenantService) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if tenant, found := s.cache.Get(ctx, tenantID); found {
		if !tenant.Enabled {
			return nil, fmt.Errorf("%w: %s is disabled", domain.ErrTenantNotFound, tenantID)
		}
		return tenant, nil
	}

	start := time.Now()
	tenant, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByID failed tenant=%s err=%v", tenantID, err)
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTenantNotFound, tenantID)
	}

	// Кэшируем и отключённых: повторные запросы не пойдут в БД до истечения TTL
	if setErr := s.cache.Set(ctx, tenant); setErr != nil {
		s.log.Warnf(ctx, "cache.Set failed tenant=%s err=%v", tenantID, setErr)
	}
	s.log.Infof(ctx, "db fetch tenant=%s took=%s", tenantID, time.Since(start))

	if !tenant.Enabled {
		return nil, fmt.Errorf("%w: %s is disabled", domain.ErrTenantNotFound, tenantID)
	}
	return tenant, nil
}

// RegisterTenant — создать или включить/выключить тенанта.
func (s *TenantService) RegisterTenant(ctx context.Context, tenantID string, enabled bool) (*domain.Tenant, error) {
	if err := validate.TenantID(tenantID); err != nil {
		return nil, err
	}

	tenant := &domain.Tenant{ID: tenantID, Enabled: enabled, CreatedAt: time.Now().UTC()}
	if err := s.repo.Upsert(ctx, tenant); err != nil {
		s.log.Errorf(ctx, "repo.Upsert failed tenant=%s err=%v", tenantID, err)
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}
	if err := s.cache.Set(ctx, tenant); err != nil {
		s.log.Warnf(ctx, "cache.Set failed tenant=%s err=%v", tenantID, err)
	}

	s.log.Infof(ctx, "tenant registered id=%s enabled=%t", tenantID, enabled)
	return tenant, nil
}

// WarmUpCache — прогрев кэша последними N включёнными тенантами.
// Если n <= 0, прогрев не выполняется (но это не ошибка).
func (s *TenantService) WarmUpCache(ctx context.Context, n int) error {
	if n <= 0 {
		s.log.Warnf(ctx, "cache warm-up skipped: n <= 0 (n=%d)", n)
		return nil
	}

	start := time.Now()
	list, err := s.repo.ListEnabled(ctx, n)
	if err != nil {
		s.log.Errorf(ctx, "repo.ListEnabled failed n=%d err=%v", n, err)
		return err
	}
	if warmUpErr := s.cache.WarmUp(ctx, list); warmUpErr != nil {
		s.log.Warnf(ctx, "cache.WarmUp failed err=%v", warmUpErr)
	}
	s.log.Infof(ctx, "cache warmed with %d tenants in %s", len(list), time.Since(start))
	return nil
}
