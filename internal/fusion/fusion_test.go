package fusion

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbotd/docbot/internal/docset"
	"github.com/docbotd/docbot/internal/fanout"
	"github.com/docbotd/docbot/internal/models"
)

func ref(source, name, typ, lang string, score float64) docset.ScoredEntry {
	return docset.ScoredEntry{
		Entry:    docset.Entry{Name: name, Type: typ},
		Score:    score,
		Source:   source,
		Language: lang,
	}
}

func local(path string, score float64) models.SearchResult {
	return models.SearchResult{
		Identifier:     path,
		Title:          path,
		SourceKind:     models.SourceProject,
		RelevanceScore: score,
	}
}

func TestFuseProjectBoost(t *testing.T) {
	// Equal raw relevance: the project document must outrank the
	// reference entry after the boost.
	got := fuse(
		[]models.SearchResult{local("docs/guide.md", 30)},
		[]docset.ScoredEntry{ref("apple", "Guide", "Guide", "", 30)},
	)

	require.Len(t, got, 2)
	assert.Equal(t, models.SourceProject, got[0].SourceKind)
	assert.InDelta(t, 150, got[0].RelevanceScore, 1e-9)
	assert.Equal(t, models.SourceReference, got[1].SourceKind)
	assert.InDelta(t, 30, got[1].RelevanceScore, 1e-9)
}

func TestDedupeReferencePrefersLanguage(t *testing.T) {
	got := dedupeReference([]docset.ScoredEntry{
		ref("generic", "Array", "Struct", "", 80),
		ref("swift", "Array", "Struct", "swift", 60),
	})

	require.Len(t, got, 1)
	// Language-specific wins even at a lower score.
	assert.Equal(t, "swift:Struct:Array", got[0].Identifier)
	assert.Equal(t, "Struct", got[0].ReferenceType)
	assert.InDelta(t, 60, got[0].RelevanceScore, 1e-9)
}

func TestDedupeReferenceHigherScoreWins(t *testing.T) {
	got := dedupeReference([]docset.ScoredEntry{
		ref("a", "Array", "Struct", "", 70),
		ref("b", "Array", "Struct", "", 40),
		ref("a", "Array", "Method", "", 20),
	})

	// Same name with a different type is a distinct record, and the
	// identifiers must not collide even within one source.
	require.Len(t, got, 2)
	assert.Equal(t, "a:Struct:Array", got[0].Identifier)
	assert.Equal(t, "a:Method:Array", got[1].Identifier)
	assert.NotEqual(t, got[0].Identifier, got[1].Identifier)
}

func TestQualityFilterStrongHits(t *testing.T) {
	var in []models.SearchResult
	for i := 0; i < 6; i++ {
		in = append(in, local("strong", 60))
	}
	in = append(in, local("weak", 40))

	got := qualityFilter(in)

	assert.Len(t, got, 6)
	for _, r := range got {
		assert.GreaterOrEqual(t, r.RelevanceScore, float64(strongScore))
	}
}

func TestQualityFilterRelativeFloor(t *testing.T) {
	in := []models.SearchResult{
		local("top", 200),
		local("mid", 25),
		local("low", 15),
	}

	got := qualityFilter(in)

	// Threshold is 10% of the top score: 20.
	require.Len(t, got, 2)
	assert.Equal(t, "top", got[0].Identifier)
	assert.Equal(t, "mid", got[1].Identifier)
}

func TestQualityFilterAbsoluteFloor(t *testing.T) {
	in := []models.SearchResult{
		local("top", 50),
		local("low", 8),
	}

	got := qualityFilter(in)

	// 10% of 50 is below the absolute floor of 10.
	require.Len(t, got, 1)
	assert.Equal(t, "top", got[0].Identifier)
}

func TestSearchJoinsLocalAndRemote(t *testing.T) {
	docs := []models.Document{
		{
			Path: "docs/http.md",
			Body: strings.Repeat("request handling with urlsession ", 80),
			Meta: models.Metadata{Title: "HTTP Networking", Keywords: []string{"urlsession", "networking"}},
		},
	}

	coord := fanout.New(slog.New(slog.NewTextHandler(io.Discard, nil)), 0, 0, 0)
	coord.Add(&stubSearcher{entries: []docset.ScoredEntry{
		ref("apple", "URLSession", "Class", "swift", 60),
	}})

	res := Search(context.Background(), docs, coord, "urlsession networking", []string{"urlsession", "networking"}, 10)

	assert.Equal(t, 1, res.SuccessfulSearches)
	assert.Zero(t, res.FailedSearches)
	require.Len(t, res.Results, 2)

	kinds := map[string]bool{}
	for _, r := range res.Results {
		kinds[r.SourceKind] = true
	}
	assert.True(t, kinds[models.SourceProject])
	assert.True(t, kinds[models.SourceReference])
}

func TestSearchLimit(t *testing.T) {
	coord := fanout.New(slog.New(slog.NewTextHandler(io.Discard, nil)), 0, 0, 0)
	entries := make([]docset.ScoredEntry, 0, 30)
	for i := 0; i < 30; i++ {
		entries = append(entries, ref("src", "Name"+string(rune('a'+i)), "Class", "", float64(100-i)))
	}
	coord.Add(&stubSearcher{entries: entries})

	res := Search(context.Background(), nil, coord, "query", []string{"name"}, 5)

	assert.Len(t, res.Results, 5)
}

type stubSearcher struct {
	entries []docset.ScoredEntry
}

func (s *stubSearcher) ID() string { return "stub" }

func (s *stubSearcher) MultiTermSearch(ctx context.Context, termList []string, typeFilter string, limit int) ([]docset.ScoredEntry, error) {
	return s.entries, nil
}

func (s *stubSearcher) ExactMatch(ctx context.Context, name, typeFilter string) ([]docset.Entry, error) {
	return nil, nil
}

func (s *stubSearcher) ListTypes(ctx context.Context) ([]string, error) {
	return nil, nil
}
