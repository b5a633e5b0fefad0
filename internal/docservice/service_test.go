package docservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbotd/docbot/internal/apperr"
	"github.com/docbotd/docbot/internal/fanout"
	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(fanout.New(logger, 0, 0, 0), 0, logger)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func sampleDocs() []models.Document {
	return []models.Document{
		{
			Path: "docs/testing.md",
			Body: "# Testing\n\nWrite tests with jest and keep them fast.\n",
			Meta: models.Metadata{
				Title:        "Testing Guide",
				Description:  "How we test.",
				Keywords:     []string{"testing", "jest"},
				FilePatterns: []string{"*.test.js"},
			},
		},
		{
			Path: "docs/style.md",
			Body: "# Style\n\nNaming and formatting conventions.\n",
			Meta: models.Metadata{
				Title:       "Style Guide",
				AlwaysApply: true,
				Confidence:  0.6,
			},
		},
		{
			Path: "docs/security.md",
			Body: "# Security\n\nNever log secrets.\n",
			Meta: models.Metadata{
				Title:       "Security Rules",
				AlwaysApply: true,
				Confidence:  0.9,
			},
		},
	}
}

func TestSearchLocalDocs(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	resp := svc.Search(context.Background(), "jest testing", 10)

	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "docs/testing.md", resp.Results[0].Identifier)
	assert.Equal(t, models.SourceProject, resp.Results[0].SourceKind)
	assert.NotEmpty(t, resp.Results[0].Snippet)
}

func TestSearchStopWordsOnly(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	resp := svc.Search(context.Background(), "what is the", 10)

	assert.Empty(t, resp.Results)
	assert.Zero(t, resp.SuccessfulSearches)
}

func TestSearchWithDocset(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(nil)

	dir := testutil.TestDocset(t, "apple", []testutil.IndexEntry{
		{Name: "URLSession", Type: "Class", Path: "urlsession.html"},
	})
	_, err := svc.AttachDocset(dir, "swift")
	require.NoError(t, err)

	resp := svc.Search(context.Background(), "urlsession", 10)

	assert.Equal(t, 1, resp.SuccessfulSearches)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, models.SourceReference, resp.Results[0].SourceKind)
	assert.Equal(t, "apple:Class:URLSession", resp.Results[0].Identifier)
}

func TestAttachDocsetInvalidPath(t *testing.T) {
	svc := testService(t)

	_, err := svc.AttachDocset("/no/such/corpus.docset", "")
	assert.Error(t, err)
	assert.Empty(t, svc.Docsets(context.Background()))
}

func TestInferUsesIndex(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	got := svc.Infer(models.QueryContext{FilePath: "src/app.test.js"}, 5)

	require.Len(t, got, 1)
	assert.Equal(t, "docs/testing.md", got[0].Identifier)
	assert.Positive(t, got[0].RelevanceScore)
}

func TestInferEmptyContext(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	assert.Empty(t, svc.Infer(models.QueryContext{}, 5))
}

func TestInferLimit(t *testing.T) {
	docs := make([]models.Document, 0, 8)
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		docs = append(docs, models.Document{
			Path: "docs/" + p + ".md",
			Meta: models.Metadata{Keywords: []string{"shared"}},
		})
	}
	svc := testService(t)
	svc.SetDocuments(docs)

	got := svc.Infer(models.QueryContext{Query: "shared"}, 3)
	assert.Len(t, got, 3)
}

func TestReadDocument(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	pg, err := svc.ReadDocument("docs/style.md", 1)
	require.NoError(t, err)
	assert.Contains(t, pg.Content, "Style Guide")
	assert.Contains(t, pg.Content, "formatting conventions")
	assert.False(t, pg.Pagination.HasMore)
}

func TestReadDocumentMissing(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	_, err := svc.ReadDocument("docs/nope.md", 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestReadDocumentPageOutOfRange(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	_, err := svc.ReadDocument("docs/style.md", 99)
	assert.True(t, errors.Is(err, apperr.ErrPageNotFound))
}

func TestReadDocumentChunksLargeDoc(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Tiny budget so a modest document spans several chunk pages.
	svc := NewService(fanout.New(logger, 0, 0, 0), 50, logger)
	t.Cleanup(func() { svc.Close() })

	svc.SetDocuments([]models.Document{{
		Path: "docs/big.md",
		Body: strings.Repeat("line of documentation text\n", 40),
		Meta: models.Metadata{Title: "Big"},
	}})

	pg, err := svc.ReadDocument("docs/big.md", 1)
	require.NoError(t, err)
	assert.True(t, pg.Pagination.IsChunked)
	assert.Greater(t, pg.Pagination.TotalChunks, 1)
	assert.True(t, pg.Pagination.HasMore)
}

func TestSearchPage(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	pg, resp, err := svc.SearchPage(context.Background(), "jest testing", 10, 1)
	require.NoError(t, err)
	require.NotNil(t, pg)
	assert.Contains(t, pg.Content, "Testing Guide")
	assert.NotEmpty(t, resp.Results)

	_, _, err = svc.SearchPage(context.Background(), "jest testing", 10, 99)
	assert.True(t, errors.Is(err, apperr.ErrPageNotFound))
}

func TestListDocuments(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	pg, err := svc.ListDocuments(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, pg.Pagination.TotalItems)
	assert.Equal(t, 2, pg.Pagination.TotalPages)
	// Inventory is path-sorted.
	assert.Contains(t, pg.Content, "docs/security.md")
	assert.Contains(t, pg.Content, "docs/style.md")
	assert.NotContains(t, pg.Content, "docs/testing.md")
}

func TestAlwaysApplyDocs(t *testing.T) {
	svc := testService(t)
	svc.SetDocuments(sampleDocs())

	got := svc.AlwaysApplyDocs()

	require.Len(t, got, 2)
	// Highest confidence first.
	assert.Equal(t, "docs/security.md", got[0].Path)
	assert.Equal(t, "docs/style.md", got[1].Path)
}

func TestExploreAndDocsets(t *testing.T) {
	svc := testService(t)
	dir := testutil.TestDocset(t, "swift", []testutil.IndexEntry{
		{Name: "Array", Type: "Struct", Path: "array.html"},
		{Name: "Array.map", Type: "Method", Path: "array-map.html"},
	})
	_, err := svc.AttachDocset(dir, "swift")
	require.NoError(t, err)

	explored := svc.Explore(context.Background(), "Array")
	require.Len(t, explored, 1)
	assert.Equal(t, "swift", explored[0].Source)
	assert.Equal(t, 2, explored[0].Result.Total)

	// A name no corpus knows yields no sources at all.
	assert.Empty(t, svc.Explore(context.Background(), "Dictionary"))

	infos := svc.Docsets(context.Background())
	require.Len(t, infos, 1)
	assert.Equal(t, "swift", infos[0].ID)
	assert.Equal(t, "swift", infos[0].Language)
	assert.Equal(t, []string{"Method", "Struct"}, infos[0].Types)
}

func TestExactLookup(t *testing.T) {
	svc := testService(t)
	dir := testutil.TestDocset(t, "swift", []testutil.IndexEntry{
		{Name: "Array", Type: "Struct", Path: "array.html"},
	})
	_, err := svc.AttachDocset(dir, "swift")
	require.NoError(t, err)

	got := svc.ExactLookup(context.Background(), "Array", "")
	require.Len(t, got, 1)
	assert.Equal(t, "swift", got[0].Source)
	assert.Equal(t, "swift", got[0].Language)

	assert.Empty(t, svc.ExactLookup(context.Background(), "array", ""))
}
