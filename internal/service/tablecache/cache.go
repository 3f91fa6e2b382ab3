// Package tablecache memoizes worksheet reads for a fixed time window.
package tablecache

import (
	"context"
	"time"

	"coop_crm/internal/domain"
	"coop_crm/internal/model"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// DefaultTTL mirrors the 600-second read window the dashboard has always used.
const DefaultTTL = 600 * time.Second

// Cache serves per-worksheet table snapshots, refetching from the store when
// the entry is older than the TTL. It is an injected service, not a global.
type Cache struct {
	store  domain.Store
	mem    *gocache.Cache
	logger *zap.Logger
}

func New(store domain.Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:  store,
		mem:    gocache.New(ttl, ttl),
		logger: logger,
	}
}

// Table returns the cached snapshot of a worksheet, fetching on miss.
func (c *Cache) Table(ctx context.Context, worksheet string) (*model.Table, error) {
	if x, found := c.mem.Get(worksheet); found {
		if t, ok := x.(*model.Table); ok {
			return t, nil
		}
	}
	t, err := c.store.GetTable(ctx, worksheet)
	if err != nil {
		return nil, err
	}
	c.mem.Set(worksheet, t, gocache.DefaultExpiration)
	return t, nil
}

// InvalidateAll drops every cached worksheet. Every mutating path calls this
// before returning so the next read reflects the write.
func (c *Cache) InvalidateAll() {
	c.mem.Flush()
	c.logger.Debug("table cache flushed")
}
