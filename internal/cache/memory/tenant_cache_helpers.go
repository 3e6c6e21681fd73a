package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/pkg/metrics"
)

// evictLRU — удаляет наименее используемый элемент.
func (c *TenantCache) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("evicted").Inc()
		metrics.CacheSize.Set(float64(c.ll.Len()))
	}
}

// removeElement — удаляет элемент из списка и индекса.
func (c *TenantCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	if ent, ok := elem.Value.(*entry); ok {
		delete(c.cache, ent.id)
	}
	c.ll.Remove(elem)
}

func (c *TenantCache) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *TenantCache) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpiredFromBack — удаляет просроченные элементы с хвоста до первого актуального.
// Хвост — давно не читавшиеся записи, поэтому просроченные обычно там.
func (c *TenantCache) pruneExpiredFromBack(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for {
		back := c.ll.Back()
		if back == nil {
			return
		}
		ent := back.Value.(*entry)
		if !now.After(ent.expiresAt) {
			return
		}
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("expired").Inc()
		metrics.CacheSize.Set(float64(c.ll.Len()))
	}
}

// cloneTenant — копия, чтобы изменения снаружи не попадали в кэш.
func cloneTenant(t *domain.Tenant) *domain.Tenant {
	if t == nil {
		return nil
	}
	cloned := *t
	return &cloned
}
