// Package imagecache is a bounded, least-recently-used image store.
// A miss is never an error: the caller recomputes and puts the result.
package imagecache

import (
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Garsondee/BoardView/internal/telemetry"
)

// DefaultSize bounds caches created with a non-positive size.
const DefaultSize = 1024

// Entry is a cached bitmap. A stale entry stays in place until it is
// replaced, so eviction order is not disturbed by invalidation.
type Entry struct {
	Image         *image.RGBA
	NeedsUpdating bool
}

// Cache maps K to composited images. It is used from the render
// goroutine only and takes no locks of its own beyond the LRU's.
type Cache[K comparable] struct {
	entries *lru.Cache[K, *Entry]
	hits    metric.Int64Counter
	misses  metric.Int64Counter
	attrs   []attribute.KeyValue
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	hits   metric.Int64Counter
	misses metric.Int64Counter
	name   string
}

// WithMetrics counts hits and misses on m, tagged with the cache name.
func WithMetrics(m *telemetry.Metrics, name string) Option {
	return func(o *options) {
		if m == nil {
			return
		}
		o.hits = m.CacheHits
		o.misses = m.CacheMisses
		o.name = name
	}
}

// New creates a cache holding at most size entries.
func New[K comparable](size int, opts ...Option) (*Cache[K], error) {
	if size <= 0 {
		size = DefaultSize
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	l, err := lru.New[K, *Entry](size)
	if err != nil {
		return nil, err
	}
	c := &Cache[K]{entries: l, hits: o.hits, misses: o.misses}
	if o.name != "" {
		c.attrs = []attribute.KeyValue{attribute.String("cache", o.name)}
	}
	return c, nil
}

// Get returns a fresh entry for k. Stale entries count as misses.
func (c *Cache[K]) Get(k K) (*Entry, bool) {
	e, ok := c.entries.Get(k)
	if !ok || e.NeedsUpdating {
		telemetry.Inc(c.misses, c.attrs...)
		return nil, false
	}
	telemetry.Inc(c.hits, c.attrs...)
	return e, true
}

// Peek returns the entry for k, stale or not, without touching recency.
func (c *Cache[K]) Peek(k K) (*Entry, bool) {
	return c.entries.Peek(k)
}

// Put stores img under k as a fresh entry.
func (c *Cache[K]) Put(k K, img *image.RGBA) *Entry {
	e := &Entry{Image: img}
	c.entries.Add(k, e)
	return e
}

// MarkStale flags the given keys so their next Get misses.
func (c *Cache[K]) MarkStale(keys ...K) {
	for _, k := range keys {
		if e, ok := c.entries.Peek(k); ok {
			e.NeedsUpdating = true
		}
	}
}

// Remove drops k.
func (c *Cache[K]) Remove(k K) {
	c.entries.Remove(k)
}

// Clear drops every entry.
func (c *Cache[K]) Clear() {
	c.entries.Purge()
}

// Len is the number of stored entries, stale ones included.
func (c *Cache[K]) Len() int {
	return c.entries.Len()
}
