package cache

import (
	"context"
	"sync"
	"time"

	"github.com/org-hierarchy-api/internal/dto"
)

// MemoryCache — внутрипроцессная реализация Provider;
// используется, когда Redis не сконфигурирован
type MemoryCache struct {
	mu        sync.RWMutex
	tree      []dto.DepartmentTreeNode
	ttl       time.Duration
	expiresAt time.Time
}

// NewMemoryCache создаёт кэш в памяти с заданным временем жизни
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl}
}

func (c *MemoryCache) GetTree(_ context.Context) ([]dto.DepartmentTreeNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.tree == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.tree, true
}

func (c *MemoryCache) SetTree(_ context.Context, tree []dto.DepartmentTreeNode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tree = tree
	c.expiresAt = time.Now().Add(c.ttl)
}

func (c *MemoryCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tree = nil
}
