package fanout

import (
	"container/list"
	"sort"
	"strings"
	"sync"
	"time"
)

// resultCache is an explicit bounded ordered map: entries expire after a
// TTL and the oldest-inserted entry is evicted first when full. Eviction
// is deterministic so it stays testable. A single mutex guards mutation;
// reads take the read lock since the mutation rate is low.
type resultCache struct {
	mu      sync.RWMutex
	maxSize int
	ttl     time.Duration
	entries map[string]*list.Element
	order   *list.List // front = oldest inserted
}

type cacheItem struct {
	key        string
	result     *Result
	insertedAt time.Time
}

func newResultCache(maxSize int, ttl time.Duration) *resultCache {
	return &resultCache{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// cacheKey is derived from the sorted term set plus the type filter, so
// term order does not fragment the cache.
func cacheKey(termList []string, typeFilter string) string {
	sorted := make([]string, len(termList))
	copy(sorted, termList)
	sort.Strings(sorted)
	return strings.Join(sorted, " ") + "|" + typeFilter
}

func (c *resultCache) get(key string) (*Result, bool) {
	c.mu.RLock()
	el, ok := c.entries[key]
	if !ok {
		c.mu.RUnlock()
		return nil, false
	}
	item := el.Value.(*cacheItem)
	expired := time.Since(item.insertedAt) > c.ttl
	c.mu.RUnlock()

	if expired {
		c.mu.Lock()
		// Re-check: another goroutine may have replaced the entry.
		if el, ok := c.entries[key]; ok && time.Since(el.Value.(*cacheItem).insertedAt) > c.ttl {
			c.order.Remove(el)
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return item.result, true
}

func (c *resultCache) put(key string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
	for len(c.entries) >= c.maxSize {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheItem).key)
	}
	c.entries[key] = c.order.PushBack(&cacheItem{
		key:        key,
		result:     result,
		insertedAt: time.Now(),
	})
}

func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *resultCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}
