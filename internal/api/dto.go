package api

import (
	"github.com/docbotd/docbot/internal/docservice"
	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/paginate"
)

// InferRequest is the request body for context-driven inference.
type InferRequest struct {
	Query       string `json:"query,omitempty" example:"how do I configure routing"`
	CodeSnippet string `json:"codeSnippet,omitempty" example:"app.get('/users', handler)"`
	FilePath    string `json:"filePath,omitempty" example:"src/routes/users.ts"`
	Limit       int    `json:"limit,omitempty" example:"10"`
}

// SearchResponse wraps fused search results with fan-out metadata.
type SearchResponse struct {
	Results            []models.SearchResult `json:"results" validate:"required"`
	SuccessfulSearches int                   `json:"successfulSearches"`
	FailedSearches     int                   `json:"failedSearches"`
}

// InferResponse wraps inference results.
type InferResponse struct {
	Results []models.SearchResult `json:"results" validate:"required"`
}

// ExploreResponse wraps per-corpus explore results.
type ExploreResponse struct {
	Name    string                     `json:"name" validate:"required"`
	Sources []docservice.SourceExplore `json:"sources" validate:"required"`
}

// DocsetListResponse wraps the attached corpus listing.
type DocsetListResponse struct {
	Docsets []docservice.DocsetInfo `json:"docsets" validate:"required"`
}

// PageResponse is the paginated content envelope (aliased from the
// pagination layer).
type PageResponse = paginate.Page
