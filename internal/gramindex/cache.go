package gramindex

import (
	"container/list"
	"sync"
)

// DefaultCacheSize is the number of compiled queries kept by default.
const DefaultCacheSize = 256

// queryCache is a least-recently-used map from gramquery.ID to compiled
// SQL. Safe for concurrent use. A capacity below one disables caching.
type queryCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // Front is most recently used
	entries  map[string]*list.Element
}

type cacheEntry struct {
	id       string
	compiled compiledQuery
}

func newQueryCache(capacity int) *queryCache {
	return &queryCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

func (c *queryCache) get(id string) (compiledQuery, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[id]
	if !ok {
		return compiledQuery{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).compiled, true
}

func (c *queryCache) put(id string, compiled compiledQuery) {
	if c.capacity < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[id]; ok {
		el.Value.(*cacheEntry).compiled = compiled
		c.order.MoveToFront(el)
		return
	}
	c.entries[id] = c.order.PushFront(&cacheEntry{id: id, compiled: compiled})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).id)
	}
}

func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
