package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/metrics"
)

// Проверка, что TenantCache удовлетворяет интерфейсу кэша тенантов.
var _ ports.TenantCache = (*TenantCache)(nil)

type entry struct {
	id        string
	tenant    *domain.Tenant
	expiresAt time.Time
}

// TenantCache — LRU с TTL. Срок жизни считается от Set и не продлевается чтением:
// отключение тенанта в реестре становится видно не позже чем через ttl.
type TenantCache struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	cache map[string]*list.Element

	mu sync.Mutex
}

// NewTenantCache — capacity <= 0 трактуется как 1, ttl <= 0 — без истечения.
func NewTenantCache(capacity int, ttl time.Duration) *TenantCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &TenantCache{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
	}
}

func (c *TenantCache) Get(_ context.Context, tenantID string) (*domain.Tenant, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[tenantID]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(c.ll.Len()))
		return nil, false
	}
	c.ll.MoveToFront(elem)

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneTenant(ent.tenant), true
}

func (c *TenantCache) Set(_ context.Context, tenant *domain.Tenant) error {
	if tenant == nil || tenant.ID == "" {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[tenant.ID]; ok {
		ent := elem.Value.(*entry)
		ent.tenant = cloneTenant(tenant)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		id:        tenant.ID,
		tenant:    cloneTenant(tenant),
		expiresAt: c.expiryFrom(now),
	})
	c.cache[tenant.ID] = elem
	metrics.CacheSize.Set(float64(c.ll.Len()))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

// Delete убирает тенанта из кэша (например, после его отключения).
func (c *TenantCache) Delete(_ context.Context, tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[tenantID]; ok {
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(c.ll.Len()))
	}
}

func (c *TenantCache) WarmUp(ctx context.Context, tenants []*domain.Tenant) error {
	for _, t := range tenants {
		if err := c.Set(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Len — количество записей (включая ещё не вычищенные просроченные).
func (c *TenantCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
