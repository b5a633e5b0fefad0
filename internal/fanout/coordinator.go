// Package fanout runs one logical search against any number of reference
// corpus adapters, tolerating per-adapter failures and timeouts.
package fanout

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/docbotd/docbot/internal/docset"
)

// Defaults for the coordinator; overridable through New.
const (
	DefaultTimeout   = 2 * time.Second
	DefaultCacheSize = 100
	DefaultCacheTTL  = 5 * time.Minute

	// sequentialThreshold: with this many adapters or fewer, searches run
	// sequentially; above it they fan out concurrently.
	sequentialThreshold = 3
)

var errTimeout = errors.New("fanout: adapter timed out")

// Searcher is the capability set a reference corpus exposes to the
// coordinator. Each corpus variant hides its internals behind it.
type Searcher interface {
	ID() string
	MultiTermSearch(ctx context.Context, termList []string, typeFilter string, limit int) ([]docset.ScoredEntry, error)
	ExactMatch(ctx context.Context, name, typeFilter string) ([]docset.Entry, error)
	ListTypes(ctx context.Context) ([]string, error)
}

var _ Searcher = (*docset.Adapter)(nil)

// Result is a merged fan-out outcome with partial-failure metadata.
type Result struct {
	Entries            []docset.ScoredEntry `json:"entries"`
	SuccessfulSearches int                  `json:"successfulSearches"`
	FailedSearches     int                  `json:"failedSearches"`
	FromCache          bool                 `json:"fromCache,omitempty"`
}

// Coordinator fans a multi-term search out across its registered adapters.
// Adapter searches are assumed side-effect-free, so a search that loses
// its timeout race is discarded rather than cancelled.
type Coordinator struct {
	mu       sync.RWMutex
	adapters map[string]Searcher
	order    []string

	timeout time.Duration
	cache   *resultCache
	logger  *slog.Logger
}

// New creates a coordinator. Zero values fall back to the defaults.
func New(logger *slog.Logger, timeout time.Duration, cacheSize int, cacheTTL time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Coordinator{
		adapters: make(map[string]Searcher),
		timeout:  timeout,
		cache:    newResultCache(cacheSize, cacheTTL),
		logger:   logger,
	}
}

// Add registers an adapter under its stable id, replacing any previous
// adapter with the same id, and invalidates the cache.
func (c *Coordinator) Add(a Searcher) {
	c.mu.Lock()
	if _, ok := c.adapters[a.ID()]; !ok {
		c.order = append(c.order, a.ID())
	}
	c.adapters[a.ID()] = a
	c.mu.Unlock()
	c.cache.purge()
}

// Remove unregisters the adapter with the given id.
func (c *Coordinator) Remove(id string) {
	c.mu.Lock()
	delete(c.adapters, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.cache.purge()
}

// IDs returns the registered adapter ids in registration order.
func (c *Coordinator) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// CacheLen reports the number of cached fan-out results.
func (c *Coordinator) CacheLen() int { return c.cache.len() }

// Search runs the term list against every adapter and merges the hits.
// A failed or timed-out adapter is logged and excluded; it never aborts
// its siblings. Results are cached by sorted term set and type filter.
func (c *Coordinator) Search(ctx context.Context, termList []string, typeFilter string, limit int) *Result {
	if len(termList) == 0 {
		return &Result{}
	}

	key := cacheKey(termList, typeFilter)
	if cached, ok := c.cache.get(key); ok {
		hit := *cached
		hit.FromCache = true
		return &hit
	}

	adapters := c.snapshot()
	var outcomes []adapterOutcome
	if len(adapters) <= sequentialThreshold {
		outcomes = c.searchSequential(ctx, adapters, termList, typeFilter, limit)
	} else {
		outcomes = c.searchConcurrent(ctx, adapters, termList, typeFilter, limit)
	}

	res := &Result{}
	for _, out := range outcomes {
		if out.err != nil {
			res.FailedSearches++
			c.logger.Warn("fanout: adapter search failed",
				slog.String("adapter", out.id),
				slog.String("error", out.err.Error()))
			continue
		}
		res.SuccessfulSearches++
		res.Entries = append(res.Entries, out.entries...)
	}

	sort.SliceStable(res.Entries, func(i, j int) bool {
		return res.Entries[i].Score > res.Entries[j].Score
	})
	if limit > 0 && len(res.Entries) > limit {
		res.Entries = res.Entries[:limit]
	}

	if res.SuccessfulSearches > 0 {
		c.cache.put(key, res)
	}
	return res
}

type adapterOutcome struct {
	id      string
	entries []docset.ScoredEntry
	err     error
}

func (c *Coordinator) snapshot() []Searcher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Searcher, 0, len(c.order))
	for _, id := range c.order {
		if a, ok := c.adapters[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (c *Coordinator) searchSequential(ctx context.Context, adapters []Searcher, termList []string, typeFilter string, limit int) []adapterOutcome {
	out := make([]adapterOutcome, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, c.searchOne(ctx, a, termList, typeFilter, limit))
	}
	return out
}

func (c *Coordinator) searchConcurrent(ctx context.Context, adapters []Searcher, termList []string, typeFilter string, limit int) []adapterOutcome {
	resCh := make(chan adapterOutcome, len(adapters))
	for _, a := range adapters {
		go func(a Searcher) {
			resCh <- c.searchOne(ctx, a, termList, typeFilter, limit)
		}(a)
	}
	out := make([]adapterOutcome, 0, len(adapters))
	for range adapters {
		out = append(out, <-resCh)
	}
	return out
}

// searchOne races the adapter search against an independent timer. The
// first to settle wins; a late search result is dropped on the floor via
// the buffered channel rather than being cancelled.
func (c *Coordinator) searchOne(ctx context.Context, a Searcher, termList []string, typeFilter string, limit int) adapterOutcome {
	done := make(chan adapterOutcome, 1)
	go func() {
		entries, err := a.MultiTermSearch(ctx, termList, typeFilter, limit)
		done <- adapterOutcome{id: a.ID(), entries: entries, err: err}
	}()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out
	case <-timer.C:
		return adapterOutcome{id: a.ID(), err: errTimeout}
	case <-ctx.Done():
		return adapterOutcome{id: a.ID(), err: ctx.Err()}
	}
}
