package pricecache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/domain"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/logger"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/metrics"
)

// DefaultTTL is the staleness window after which a city snapshot is
// refreshed in the background
const DefaultTTL = 30 * time.Second

// Source provides the bulk price feed used to populate city snapshots
type Source interface {
	ListPricesForCity(ctx context.Context, cityName string) ([]domain.Price, error)
}

// citySnapshot holds one city's prices keyed by item ID. Snapshots are
// immutable once published: refreshes and write-throughs install a new
// snapshot rather than mutating the map, so readers may keep using one
// after the cache lock is released.
//
// fetchedAt is zero for snapshots created by write-throughs alone. Such a
// snapshot carries the written price but says nothing about the rest of the
// city, so it never counts as warm.
type citySnapshot struct {
	prices    map[string]float64
	fetchedAt time.Time
}

func (s *citySnapshot) fresh(now time.Time, ttl time.Duration) bool {
	return !s.fetchedAt.IsZero() && now.Sub(s.fetchedAt) <= ttl
}

// clone copies the snapshot's prices so the original stays immutable
func (s *citySnapshot) clone() *citySnapshot {
	next := &citySnapshot{
		prices:    make(map[string]float64, len(s.prices)+1),
		fetchedAt: s.fetchedAt,
	}
	for id, price := range s.prices {
		next.prices[id] = price
	}
	return next
}

// Cache is a read-through price cache scoped per city. Reads never block on
// a refresh: Peek returns the last-known value immediately and, when the
// snapshot is older than the staleness window, triggers one background
// refresh for that city. Concurrent refreshes for the same city collapse
// into a single in-flight fetch.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu         sync.RWMutex
	cities     map[string]*citySnapshot
	refreshing map[string]bool

	group singleflight.Group
}

// Option configures a Cache
type Option func(*Cache)

// WithClock injects a clock, used by tests to control staleness
// deterministically
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a price cache over the given source. A ttl of zero falls back
// to DefaultTTL.
func New(source Source, ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		source:     source,
		ttl:        ttl,
		now:        time.Now,
		cities:     make(map[string]*citySnapshot),
		refreshing: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Peek returns the cached price for (itemID, cityName) without blocking.
// A stale or missing snapshot triggers a coalesced background refresh; the
// caller still gets the last-known value (or a miss) immediately.
func (c *Cache) Peek(itemID, cityName string) (float64, bool) {
	c.mu.RLock()
	snap := c.cities[cityName]
	c.mu.RUnlock()

	if snap == nil || !snap.fresh(c.now(), c.ttl) {
		c.refreshAsync(cityName)
	}

	if snap == nil {
		metrics.PriceCacheMisses.WithLabelValues(cityName).Inc()
		return 0, false
	}
	price, ok := snap.prices[itemID]
	if !ok {
		metrics.PriceCacheMisses.WithLabelValues(cityName).Inc()
		return 0, false
	}
	metrics.PriceCacheHits.WithLabelValues(cityName).Inc()
	return price, true
}

// refreshAsync starts one detached refresh for the city unless one is
// already pending, so a burst of stale reads does not fan out into a
// goroutine per read
func (c *Cache) refreshAsync(cityName string) {
	c.mu.Lock()
	if c.refreshing[cityName] {
		c.mu.Unlock()
		return
	}
	c.refreshing[cityName] = true
	c.mu.Unlock()

	go func() {
		// Detached from the caller: the read must not block
		_ = c.Refresh(context.Background(), cityName)

		c.mu.Lock()
		delete(c.refreshing, cityName)
		c.mu.Unlock()
	}()
}

// Refresh fetches the full price list for a city and replaces its snapshot.
// Concurrent calls for the same city share one fetch; the extra callers wait
// for that fetch and return its error.
func (c *Cache) Refresh(ctx context.Context, cityName string) error {
	_, err, _ := c.group.Do(cityName, func() (interface{}, error) {
		prices, err := c.source.ListPricesForCity(ctx, cityName)
		if err != nil {
			logger.FromContext(ctx).Warn("Price cache refresh failed", "city", cityName, "error", err)
			return nil, err
		}

		snap := &citySnapshot{
			prices:    make(map[string]float64, len(prices)),
			fetchedAt: c.now(),
		}
		for _, p := range prices {
			snap.prices[p.ItemID] = p.Price
		}

		c.mu.Lock()
		c.cities[cityName] = snap
		c.mu.Unlock()

		metrics.PriceCacheRefreshes.WithLabelValues(cityName).Inc()
		return nil, nil
	})
	return err
}

// Ensure guarantees the city has a snapshot populated from the feed,
// fetching one synchronously when it does not. A snapshot created by
// write-throughs alone does not count, since it misses every other price in
// the city. Staleness of a feed-populated snapshot is left to Peek's
// background refresh so warm readers never block.
func (c *Cache) Ensure(ctx context.Context, cityName string) error {
	c.mu.RLock()
	snap := c.cities[cityName]
	c.mu.RUnlock()

	if snap != nil && !snap.fetchedAt.IsZero() {
		return nil
	}
	return c.Refresh(ctx, cityName)
}

// Put writes a single just-committed price through to the city snapshot so
// readers see it before the next refresh. The snapshot is replaced, not
// mutated, and a snapshot Put creates from nothing stays cold until a real
// refresh fills in the rest of the city.
func (c *Cache) Put(p domain.Price) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next *citySnapshot
	if old := c.cities[p.CityName]; old != nil {
		next = old.clone()
	} else {
		next = &citySnapshot{prices: make(map[string]float64, 1)}
	}
	next.prices[p.ItemID] = p.Price
	c.cities[p.CityName] = next
}

// Invalidate drops a single (item, city) entry after a price deletion
func (c *Cache) Invalidate(itemID, cityName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.cities[cityName]
	if old == nil {
		return
	}
	next := old.clone()
	delete(next.prices, itemID)
	c.cities[cityName] = next
}

// InvalidateCity drops a whole city snapshot, forcing the next Peek to start
// cold
func (c *Cache) InvalidateCity(cityName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cities, cityName)
}

// Reset drops every snapshot. Used after catalog-wide mutations such as an
// item deletion, which cascades price rows in storage.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cities = make(map[string]*citySnapshot)
}
