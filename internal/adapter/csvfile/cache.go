package csvfile

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// DatasetLoader loads a cleaned dataset from a path.
type DatasetLoader interface {
	Load(ctx context.Context, path string) (*domain.Dataset, error)
}

// CachedLoader wraps a DatasetLoader with a per-path LRU cache. Entries live
// until evicted or invalidated; with revalidation enabled, an entry older than
// the interval is reloaded when the file's modification time has changed.
type CachedLoader struct {
	inner      DatasetLoader
	cache      *lruCache
	group      singleflight.Group
	clock      clockwork.Clock
	revalidate time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// Option configures a CachedLoader.
type Option func(*CachedLoader)

// WithRevalidation checks the file's modification time at most once per interval.
func WithRevalidation(interval time.Duration) Option {
	return func(c *CachedLoader) { c.revalidate = interval }
}

// WithClock replaces the real clock, for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(c *CachedLoader) { c.clock = clock }
}

// NewCachedLoader creates a cache decorator around a loader.
func NewCachedLoader(inner DatasetLoader, maxEntries int, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *CachedLoader {
	c := &CachedLoader{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the cached dataset for path, reading the file on a miss.
// Concurrent misses for the same path share a single read. Failed loads are
// not cached; when a revalidation reload fails the previous dataset is served.
func (c *CachedLoader) Load(ctx context.Context, path string) (*domain.Dataset, error) {
	var seen *domain.Dataset
	if e, ok := c.cache.get(path); ok {
		seen = e.dataset
		if !c.stale(path, e) {
			c.metrics.CacheLookups.WithLabelValues("hit").Inc()
			return e.dataset, nil
		}
		c.metrics.CacheLookups.WithLabelValues("stale").Inc()
		c.logger.Info("dataset changed on disk, reloading", "path", path)
	} else {
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	v, err, _ := c.group.Do(path, func() (any, error) {
		// Another caller may have finished the load since our lookup.
		if e, ok := c.cache.get(path); ok && e.dataset != seen {
			return e.dataset, nil
		}
		ds, err := c.inner.Load(ctx, path)
		if err != nil {
			if seen == nil {
				return nil, err
			}
			// A broken rewrite keeps the last good copy until the next check.
			c.logger.Warn("dataset reload failed, serving previous copy", "path", path, "error", err)
			c.cache.markChecked(path, c.clock.Now())
			return seen, nil
		}
		c.cache.put(path, cacheEntry{dataset: ds, checkedAt: c.clock.Now()})
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Dataset), nil
}

// Invalidate drops the cached dataset for path.
func (c *CachedLoader) Invalidate(path string) {
	c.cache.delete(path)
}

// Purge drops every cached dataset.
func (c *CachedLoader) Purge() {
	c.cache.purge()
}

func (c *CachedLoader) stale(path string, e cacheEntry) bool {
	if c.revalidate <= 0 {
		return false
	}
	now := c.clock.Now()
	if now.Sub(e.checkedAt) < c.revalidate {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		// Keep serving the last good copy.
		c.logger.Warn("dataset revalidation failed", "path", path, "error", err)
		c.cache.markChecked(path, now)
		return false
	}
	if !info.ModTime().Equal(e.dataset.ModTime) {
		return true
	}
	c.cache.markChecked(path, now)
	return false
}

type cacheEntry struct {
	dataset   *domain.Dataset
	checkedAt time.Time
}

// lruCache holds the datasets of a handful of paths. Eviction scans for the
// least recently used slot, which is fine at this size.
type lruCache struct {
	mu         sync.Mutex
	maxEntries int
	tick       uint64
	slots      map[string]*slot
}

type slot struct {
	value    cacheEntry
	lastUsed uint64
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		slots:      make(map[string]*slot, maxEntries),
	}
}

func (c *lruCache) get(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sl, ok := c.slots[key]
	if !ok {
		return cacheEntry{}, false
	}
	c.touch(sl)
	return sl.value, true
}

func (c *lruCache) put(key string, value cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sl, ok := c.slots[key]; ok {
		sl.value = value
		c.touch(sl)
		return
	}
	if len(c.slots) >= c.maxEntries {
		c.evictOldest()
	}
	sl := &slot{value: value}
	c.touch(sl)
	c.slots[key] = sl
}

func (c *lruCache) markChecked(key string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sl, ok := c.slots[key]; ok {
		sl.value.checkedAt = at
	}
}

func (c *lruCache) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, key)
}

func (c *lruCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.slots)
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}

func (c *lruCache) touch(sl *slot) {
	c.tick++
	sl.lastUsed = c.tick
}

func (c *lruCache) evictOldest() {
	var (
		oldest    string
		oldestUse uint64
		found     bool
	)
	for key, sl := range c.slots {
		if !found || sl.lastUsed < oldestUse {
			oldest, oldestUse, found = key, sl.lastUsed, true
		}
	}
	if found {
		delete(c.slots, oldest)
	}
}
