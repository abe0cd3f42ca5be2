package optimizer

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
)

const (
	defaultCatalogSize = 16
	defaultCatalogTTL  = time.Minute

	catalogKey = "catalog"
)

// catalogCache holds the most recent item snapshot with time-based
// expiration, so back-to-back recommendation calls don't re-read the whole
// catalog from storage.
type catalogCache struct {
	lru *expirable.LRU[string, []domain.Item]
}

func newCatalogCache(size int, ttl time.Duration) *catalogCache {
	if size <= 0 {
		size = defaultCatalogSize
	}
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &catalogCache{
		lru: expirable.NewLRU[string, []domain.Item](size, nil, ttl),
	}
}

func (c *catalogCache) Get() ([]domain.Item, bool) {
	return c.lru.Get(catalogKey)
}

func (c *catalogCache) Set(items []domain.Item) {
	c.lru.Add(catalogKey, items)
}

// Clear drops the snapshot. Called after catalog mutations so the next
// evaluation sees the new items.
func (c *catalogCache) Clear() {
	c.lru.Purge()
}
