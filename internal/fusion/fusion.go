// Package fusion merges project-document hits and fan-out reference hits
// into one ranked, de-duplicated result list.
package fusion

import (
	"context"
	"sort"

	"github.com/docbotd/docbot/internal/docset"
	"github.com/docbotd/docbot/internal/fanout"
	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/relevance"
)

// projectBoost guarantees project documentation outranks generic reference
// entries at equal raw relevance.
const projectBoost = 5

// Quality filter bounds.
const (
	strongScore    = 50
	strongMinCount = 5
	floorScore     = 10
	topShare       = 0.1
)

// Response carries the fused list plus fan-out metadata.
type Response struct {
	Results            []models.SearchResult `json:"results"`
	SuccessfulSearches int                   `json:"successfulSearches"`
	FailedSearches     int                   `json:"failedSearches"`
}

// Search runs local-document search and fan-out reference search as two
// independent concurrent operations, joins them, and fuses the outcome.
func Search(ctx context.Context, docs []models.Document, coord *fanout.Coordinator, query string, termList []string, limit int) *Response {
	if limit <= 0 {
		limit = 20
	}

	localCh := make(chan []models.SearchResult, 1)
	remoteCh := make(chan *fanout.Result, 1)
	go func() { localCh <- searchProject(docs, termList, query) }()
	go func() { remoteCh <- coord.Search(ctx, termList, "", limit*2) }()

	local, remote := <-localCh, <-remoteCh

	results := fuse(local, remote.Entries)
	if len(results) > limit {
		results = results[:limit]
	}
	return &Response{
		Results:            results,
		SuccessfulSearches: remote.SuccessfulSearches,
		FailedSearches:     remote.FailedSearches,
	}
}

// searchProject scores every document and keeps those clearing the
// relevance floor. Scores here are raw (0-100); the boost is applied
// during fusion.
func searchProject(docs []models.Document, termList []string, query string) []models.SearchResult {
	var out []models.SearchResult
	for i := range docs {
		doc := &docs[i]
		ds := relevance.Score(doc, termList, query)
		if !ds.Relevant() {
			continue
		}
		out = append(out, models.SearchResult{
			Identifier:     doc.Path,
			Title:          doc.Title(),
			Description:    doc.Meta.Description,
			SourceKind:     models.SourceProject,
			RelevanceScore: ds.Score,
			Snippet:        relevance.Snippet(doc, termList, query),
			MatchedTerms:   ds.MatchedTerms,
		})
	}
	return out
}

// fuse normalizes both sources into one record shape, boosts project
// scores, de-duplicates reference entries, sorts, and quality-filters.
func fuse(local []models.SearchResult, remote []docset.ScoredEntry) []models.SearchResult {
	out := make([]models.SearchResult, 0, len(local)+len(remote))
	for _, r := range local {
		r.RelevanceScore *= projectBoost
		out = append(out, r)
	}
	out = append(out, dedupeReference(remote)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return qualityFilter(out)
}

// dedupeReference collapses reference entries sharing (name, type),
// preferring a variant whose corpus declares a language, else the higher
// score.
func dedupeReference(entries []docset.ScoredEntry) []models.SearchResult {
	best := make(map[string]docset.ScoredEntry, len(entries))
	var order []string
	for _, e := range entries {
		key := e.Name + "|" + e.Type
		cur, ok := best[key]
		if !ok {
			best[key] = e
			order = append(order, key)
			continue
		}
		if preferOver(e, cur) {
			best[key] = e
		}
	}

	out := make([]models.SearchResult, 0, len(order))
	for _, key := range order {
		e := best[key]
		out = append(out, models.SearchResult{
			Identifier:     e.Source + ":" + e.Type + ":" + e.Name,
			Title:          e.Name,
			SourceKind:     models.SourceReference,
			RelevanceScore: e.Score,
			ReferenceType:  e.Type,
		})
	}
	return out
}

func preferOver(candidate, current docset.ScoredEntry) bool {
	if (candidate.Language != "") != (current.Language != "") {
		return candidate.Language != ""
	}
	return candidate.Score > current.Score
}

// qualityFilter keeps only strong hits when there are enough of them;
// otherwise it keeps everything above a floor relative to the top score.
func qualityFilter(results []models.SearchResult) []models.SearchResult {
	if len(results) == 0 {
		return results
	}

	strong := 0
	for _, r := range results {
		if r.RelevanceScore >= strongScore {
			strong++
		}
	}
	if strong >= strongMinCount {
		out := results[:0:0]
		for _, r := range results {
			if r.RelevanceScore >= strongScore {
				out = append(out, r)
			}
		}
		return out
	}

	threshold := results[0].RelevanceScore * topShare
	if threshold < floorScore {
		threshold = floorScore
	}
	out := results[:0:0]
	for _, r := range results {
		if r.RelevanceScore >= threshold {
			out = append(out, r)
		}
	}
	return out
}
