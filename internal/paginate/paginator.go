// Package paginate serves arbitrarily large rendered results one page at a
// time, sized against a token budget rather than a fixed item count.
package paginate

import (
	"strings"
	"sync"

	"github.com/docbotd/docbot/internal/apperr"
)

// DefaultTokenBudget is the per-page budget in estimated tokens, sized for
// an LLM context window.
const DefaultTokenBudget = 20000

// charsPerToken is the estimation heuristic: one token per four characters.
const charsPerToken = 4

// itemSeparator joins multiple items rendered onto one page.
const itemSeparator = "\n\n---\n\n"

// Item is one pre-rendered result unit.
type Item struct {
	ID      string
	Content string
}

// Pagination is the navigation metadata attached to every page.
type Pagination struct {
	Page         int  `json:"page"`
	ItemsInPage  int  `json:"itemsInPage"`
	TotalItems   int  `json:"totalItems"`
	TotalPages   int  `json:"totalPages"`
	HasMore      bool `json:"hasMore"`
	NextPage     int  `json:"nextPage,omitempty"`
	PreviousPage int  `json:"previousPage,omitempty"`
	FirstItem    int  `json:"firstItem,omitempty"`
	LastItem     int  `json:"lastItem,omitempty"`
	IsChunked    bool `json:"isChunked,omitempty"`
	ChunkIndex   int  `json:"chunkIndex,omitempty"`
	TotalChunks  int  `json:"totalChunks,omitempty"`
}

// Page is one view over the item collection.
type Page struct {
	Content    string     `json:"content"`
	Pagination Pagination `json:"pagination"`
}

// pageSpec is one entry in the page map: either a run of whole items or a
// single chunk of an oversized item.
type pageSpec struct {
	content     string
	firstItem   int // 1-based, inclusive
	lastItem    int
	chunked     bool
	chunkIndex  int
	totalChunks int
}

// Paginator computes its page map lazily on first access and answers every
// subsequent query from it, so boundaries are never re-derived.
type Paginator struct {
	items       []Item
	budget      int // tokens; used when pageSize == 0
	pageSize    int // explicit items per page; 0 means budget-driven
	chunkSingle bool

	once  sync.Once
	pages []pageSpec
}

// New creates a budget-driven ("smart") paginator. A budget of zero means
// DefaultTokenBudget.
func New(items []Item, budget int) *Paginator {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	return &Paginator{items: items, budget: budget}
}

// NewFixed creates an ordinary fixed-size paginator with pageSize items
// per page.
func NewFixed(items []Item, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Paginator{items: items, pageSize: pageSize}
}

// NewChunked paginates a single oversized item: one page per chunk of its
// content, each under the budget. An item that fits the budget yields a
// single unchunked page.
func NewChunked(item Item, budget int) *Paginator {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	return &Paginator{items: []Item{item}, budget: budget, chunkSingle: true}
}

// TotalPages returns the number of pages in the page map.
func (p *Paginator) TotalPages() int {
	p.once.Do(p.build)
	return len(p.pages)
}

// Page returns the 1-based page n. A request outside the page map returns
// apperr.ErrPageNotFound; pages are never silently clamped.
func (p *Paginator) Page(n int) (*Page, error) {
	p.once.Do(p.build)
	if n < 1 || n > len(p.pages) {
		return nil, apperr.ErrPageNotFound
	}

	spec := p.pages[n-1]
	pg := &Page{
		Content: spec.content,
		Pagination: Pagination{
			Page:        n,
			ItemsInPage: spec.lastItem - spec.firstItem + 1,
			TotalItems:  len(p.items),
			TotalPages:  len(p.pages),
			HasMore:     n < len(p.pages),
			FirstItem:   spec.firstItem,
			LastItem:    spec.lastItem,
			IsChunked:   spec.chunked,
			ChunkIndex:  spec.chunkIndex,
			TotalChunks: spec.totalChunks,
		},
	}
	if n < len(p.pages) {
		pg.Pagination.NextPage = n + 1
	}
	if n > 1 {
		pg.Pagination.PreviousPage = n - 1
	}
	return pg, nil
}

func (p *Paginator) build() {
	switch {
	case p.chunkSingle:
		p.buildChunked()
	case p.pageSize > 0:
		p.buildFixed()
	default:
		p.buildSmart()
	}
}

func (p *Paginator) buildChunked() {
	if len(p.items) == 0 {
		return
	}
	item := p.items[0]
	chunks := SplitText(item.Content, p.budget)
	if len(chunks) == 1 {
		p.pages = append(p.pages, pageSpec{content: chunks[0], firstItem: 1, lastItem: 1})
		return
	}
	for ci, chunk := range chunks {
		p.pages = append(p.pages, pageSpec{
			content:     chunk,
			firstItem:   1,
			lastItem:    1,
			chunked:     true,
			chunkIndex:  ci + 1,
			totalChunks: len(chunks),
		})
	}
}

func (p *Paginator) buildFixed() {
	for start := 0; start < len(p.items); start += p.pageSize {
		end := start + p.pageSize
		if end > len(p.items) {
			end = len(p.items)
		}
		p.pages = append(p.pages, pageSpec{
			content:   renderItems(p.items[start:end]),
			firstItem: start + 1,
			lastItem:  end,
		})
	}
}

// buildSmart packs consecutive items into pages under the token budget.
// An item that alone exceeds the budget occupies its own pages, split into
// sequential chunks — unless it is the only item in the collection, in
// which case it is served whole as a single page.
func (p *Paginator) buildSmart() {
	var run []Item
	runStart := 0
	runTokens := 0
	sepTokens := EstimateTokens(itemSeparator)

	flush := func(end int) {
		if len(run) == 0 {
			return
		}
		p.pages = append(p.pages, pageSpec{
			content:   renderItems(run),
			firstItem: runStart + 1,
			lastItem:  end,
		})
		run = nil
		runTokens = 0
	}

	for i, item := range p.items {
		tokens := EstimateTokens(item.Content)

		if tokens > p.budget && len(p.items) > 1 {
			flush(i)
			chunks := SplitText(item.Content, p.budget)
			for ci, chunk := range chunks {
				p.pages = append(p.pages, pageSpec{
					content:     chunk,
					firstItem:   i + 1,
					lastItem:    i + 1,
					chunked:     true,
					chunkIndex:  ci + 1,
					totalChunks: len(chunks),
				})
			}
			runStart = i + 1
			continue
		}

		// The separator between items counts against the budget too;
		// per-item ceilings bound the rendered page's estimate from above.
		if len(run) > 0 {
			if runTokens+sepTokens+tokens > p.budget {
				flush(i)
				runStart = i
			} else {
				runTokens += sepTokens
			}
		}
		if len(run) == 0 {
			runStart = i
		}
		run = append(run, item)
		runTokens += tokens
	}
	flush(len(p.items))
}

func renderItems(items []Item) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Content
	}
	return strings.Join(parts, itemSeparator)
}
