// Package docservice coordinates the retrieval core: term extraction,
// local relevance scoring, fan-out reference search, fusion, inference,
// and pagination.
package docservice

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/docbotd/docbot/internal/apperr"
	"github.com/docbotd/docbot/internal/docindex"
	"github.com/docbotd/docbot/internal/docset"
	"github.com/docbotd/docbot/internal/fanout"
	"github.com/docbotd/docbot/internal/fusion"
	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/paginate"
	"github.com/docbotd/docbot/internal/terms"
)

// snapshot pairs a document collection with the index built over it. The
// two are always replaced together so in-flight queries never see a
// half-built index.
type snapshot struct {
	docs  []models.Document
	index *docindex.Index
}

// Service is the retrieval façade used by the MCP and HTTP layers.
type Service struct {
	current atomic.Pointer[snapshot]

	coord       *fanout.Coordinator
	tokenBudget int
	logger      *slog.Logger

	mu       sync.RWMutex
	adapters []*docset.Adapter
}

// NewService creates the service. tokenBudget of zero means the default
// pagination budget.
func NewService(coord *fanout.Coordinator, tokenBudget int, logger *slog.Logger) *Service {
	if tokenBudget <= 0 {
		tokenBudget = paginate.DefaultTokenBudget
	}
	s := &Service{coord: coord, tokenBudget: tokenBudget, logger: logger}
	s.current.Store(&snapshot{})
	return s
}

// SetDocuments replaces the document collection wholesale: a new index is
// built first, then the snapshot is swapped in atomically. If the build
// fails the documents are still installed; inference degrades to the
// unindexed scan rather than becoming unavailable.
func (s *Service) SetDocuments(docs []models.Document) {
	snap := &snapshot{docs: docs}
	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("docservice: index build failed, falling back to unindexed scan",
					slog.Any("panic", r))
			}
		}()
		snap.index = docindex.Build(docs)
	}()
	s.current.Store(snap)
	s.logger.Info("docservice: documents installed",
		slog.Int("documents", len(docs)),
		slog.Bool("indexed", snap.index != nil))
}

// Documents returns the current collection.
func (s *Service) Documents() []models.Document {
	return s.current.Load().docs
}

// AttachDocset opens the corpus at path, tags it with an optional
// language, and registers it with the fan-out coordinator.
func (s *Service) AttachDocset(path, language string) (*docset.Adapter, error) {
	a, err := docset.Open(path)
	if err != nil {
		return nil, err
	}
	if language != "" {
		a.SetLanguage(language)
	}
	s.mu.Lock()
	s.adapters = append(s.adapters, a)
	s.mu.Unlock()
	s.coord.Add(a)
	return a, nil
}

// Close closes every attached corpus.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, a := range s.adapters {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.adapters = nil
	return firstErr
}

// Search runs the full retrieval flow for a natural-language query:
// extraction, concurrent local and reference search, fusion. A query with
// no usable terms returns an empty response, never an error.
func (s *Service) Search(ctx context.Context, query string, limit int) *fusion.Response {
	termList := terms.Extract(query)
	if len(termList) == 0 {
		return &fusion.Response{Results: []models.SearchResult{}}
	}
	return fusion.Search(ctx, s.Documents(), s.coord, query, termList, limit)
}

// SearchPage renders the fused results as markdown and returns one page of
// it under the token budget.
func (s *Service) SearchPage(ctx context.Context, query string, limit, page int) (*paginate.Page, *fusion.Response, error) {
	resp := s.Search(ctx, query, limit)
	if len(resp.Results) == 0 && page == 1 {
		return &paginate.Page{Pagination: paginate.Pagination{Page: 1}}, resp, nil
	}

	items := make([]paginate.Item, len(resp.Results))
	for i, r := range resp.Results {
		items[i] = paginate.Item{ID: r.Identifier, Content: renderResult(r)}
	}
	pg, err := paginate.New(items, s.tokenBudget).Page(page)
	if err != nil {
		return nil, nil, err
	}
	return pg, resp, nil
}

// Infer answers a code-context query against the document index, falling
// back to a linear scan when no index is available.
func (s *Service) Infer(qctx models.QueryContext, limit int) []models.SearchResult {
	if limit <= 0 {
		limit = 10
	}
	snap := s.current.Load()

	var candidates []docindex.Candidate
	if snap.index != nil {
		candidates = snap.index.Infer(qctx)
	} else {
		candidates = docindex.Scan(snap.docs, qctx)
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]models.SearchResult, len(candidates))
	for i, c := range candidates {
		out[i] = models.SearchResult{
			Identifier:     c.Doc.Path,
			Title:          c.Doc.Title(),
			Description:    c.Doc.Meta.Description,
			SourceKind:     models.SourceProject,
			RelevanceScore: c.Score,
		}
	}
	return out
}

// SourceExplore is one corpus' contribution to an explore call.
type SourceExplore struct {
	Source string                `json:"source"`
	Result *docset.ExploreResult `json:"result"`
}

// Explore asks every attached corpus for the API surface under name.
// A failing corpus is logged and skipped.
func (s *Service) Explore(ctx context.Context, name string) []SourceExplore {
	var out []SourceExplore
	for _, a := range s.adapterSnapshot() {
		res, err := a.Explore(ctx, name)
		if err != nil {
			s.logger.Warn("docservice: explore failed",
				slog.String("adapter", a.ID()),
				slog.String("error", err.Error()))
			continue
		}
		if res.Total > 0 {
			out = append(out, SourceExplore{Source: a.ID(), Result: res})
		}
	}
	return out
}

// ExactLookup finds exact-name entries across every attached corpus.
func (s *Service) ExactLookup(ctx context.Context, name, typeFilter string) []docset.ScoredEntry {
	var out []docset.ScoredEntry
	for _, a := range s.adapterSnapshot() {
		entries, err := a.ExactMatch(ctx, name, typeFilter)
		if err != nil {
			s.logger.Warn("docservice: exact lookup failed",
				slog.String("adapter", a.ID()),
				slog.String("error", err.Error()))
			continue
		}
		for _, e := range entries {
			out = append(out, docset.ScoredEntry{
				Entry:    e,
				Source:   a.ID(),
				Language: a.Language(),
			})
		}
	}
	return out
}

// DocsetInfo describes one attached reference corpus.
type DocsetInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Language string   `json:"language,omitempty"`
	Types    []string `json:"types,omitempty"`
}

// Docsets lists the attached corpora with their entry types.
func (s *Service) Docsets(ctx context.Context) []DocsetInfo {
	var out []DocsetInfo
	for _, a := range s.adapterSnapshot() {
		info := DocsetInfo{ID: a.ID(), Name: a.Name(), Language: a.Language()}
		if types, err := a.ListTypes(ctx); err == nil {
			info.Types = types
		}
		out = append(out, info)
	}
	return out
}

// ReadDocument returns one page of a document's rendered content, split
// into sequential chunks when it alone exceeds the token budget.
func (s *Service) ReadDocument(path string, page int) (*paginate.Page, error) {
	doc := s.findDocument(path)
	if doc == nil {
		return nil, fmt.Errorf("docservice: %s: %w", path, apperr.ErrNotFound)
	}
	item := paginate.Item{ID: doc.Path, Content: renderDocument(doc)}
	return paginate.NewChunked(item, s.tokenBudget).Page(page)
}

// ListDocuments returns one fixed-size page of the document inventory.
func (s *Service) ListDocuments(page, pageSize int) (*paginate.Page, error) {
	docs := s.Documents()
	sorted := make([]models.Document, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	if len(sorted) == 0 && page == 1 {
		return &paginate.Page{Pagination: paginate.Pagination{Page: 1}}, nil
	}

	items := make([]paginate.Item, len(sorted))
	for i := range sorted {
		items[i] = paginate.Item{ID: sorted[i].Path, Content: renderListing(&sorted[i])}
	}
	return paginate.NewFixed(items, pageSize).Page(page)
}

// AlwaysApplyDocs returns documents flagged to be surfaced regardless of
// query, ordered by declared confidence.
func (s *Service) AlwaysApplyDocs() []models.Document {
	var out []models.Document
	for _, d := range s.Documents() {
		if d.Meta.AlwaysApply {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Meta.Confidence > out[j].Meta.Confidence
	})
	return out
}

func (s *Service) findDocument(path string) *models.Document {
	snap := s.current.Load()
	for i := range snap.docs {
		if snap.docs[i].Path == path {
			return &snap.docs[i]
		}
	}
	return nil
}

func (s *Service) adapterSnapshot() []*docset.Adapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*docset.Adapter, len(s.adapters))
	copy(out, s.adapters)
	return out
}
