package hws

import (
	"sync"
	"sync/atomic"
	"time"
)

// PageCache holds the rendered public page per PageKey with a TTL. The
// editor invalidates it whenever the override store is written.
//
// Invalidate never takes the cache lock: it runs under the editor lock,
// while a render holds the cache lock and then takes the editor lock.
type PageCache struct {
	mu      sync.RWMutex
	pages   map[PageKey]cachedPage
	ttl     time.Duration
	render  func(PageKey) string
	gen     atomic.Uint64
	hits    atomic.Uint64
	renders atomic.Uint64
}

// PageKey selects one rendering of the public page.
type PageKey struct {
	Lang    string
	Trigger bool // show the floating editor trigger
}

type cachedPage struct {
	html    string
	gen     uint64
	fetched time.Time
}

// NewPageCache creates a PageCache that renders misses with render.
func NewPageCache(render func(PageKey) string, ttl time.Duration) *PageCache {
	return &PageCache{pages: make(map[PageKey]cachedPage), ttl: ttl, render: render}
}

func (c *PageCache) valid(p cachedPage, ok bool) bool {
	return ok && p.gen == c.gen.Load() && time.Since(p.fetched) < c.ttl
}

// Invalidate marks every cached page stale so the next read renders again.
func (c *PageCache) Invalidate() {
	c.gen.Add(1)
}

// Page returns the public page for k. It tries a read lock first and
// only takes the write lock to render.
func (c *PageCache) Page(k PageKey) string {
	c.mu.RLock()
	if p, ok := c.pages[k]; c.valid(p, ok) {
		c.mu.RUnlock()
		c.hits.Add(1)
		return p.html
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pages[k]; c.valid(p, ok) {
		c.hits.Add(1)
		return p.html
	}
	gen := c.gen.Load()
	html := c.render(k)
	c.pages[k] = cachedPage{html: html, gen: gen, fetched: time.Now()}
	c.renders.Add(1)
	return html
}

// Stats reports cache hits and renders since creation.
func (c *PageCache) Stats() (hits, renders uint64) {
	return c.hits.Load(), c.renders.Load()
}
