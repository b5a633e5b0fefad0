package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/docbotd/docbot/internal/apperr"
	"github.com/docbotd/docbot/internal/docservice"
	"github.com/docbotd/docbot/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the URL (everything after /docs/).
// Supports encoded slashes from OpenAPI clients (e.g. guides%2Frouting.md).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func intQuery(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

// Search handles GET /api/search.
//
//	@Summary		Search project documentation and reference corpora
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	resp := h.svc.Search(r.Context(), q, intQuery(r, "limit"))
	writeJSON(w, http.StatusOK, SearchResponse{
		Results:            resp.Results,
		SuccessfulSearches: resp.SuccessfulSearches,
		FailedSearches:     resp.FailedSearches,
	})
}

// SearchPage handles GET /api/search/page.
//
//	@Summary		One rendered page of search results under the token budget
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			page	query		int		false	"Page number (default 1)"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	PageResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search/page [get]
func (h *Handler) SearchPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	page := intQuery(r, "page")
	if page == 0 {
		page = 1
	}
	pg, _, err := h.svc.SearchPage(r.Context(), q, intQuery(r, "limit"), page)
	if err != nil {
		if errors.Is(err, apperr.ErrPageNotFound) {
			writeError(w, http.StatusNotFound, "page not found")
			return
		}
		slog.Error("search page failed", slog.String("query", q), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, pg)
}

// Infer handles POST /api/infer.
//
//	@Summary		Infer relevant documents from a code context
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			body	body		InferRequest	true	"Query context"
//	@Success		200		{object}	InferResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/infer [post]
func (h *Handler) Infer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req InferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	results := h.svc.Infer(models.QueryContext{
		Query:       req.Query,
		CodeSnippet: req.CodeSnippet,
		FilePath:    req.FilePath,
	}, req.Limit)
	if results == nil {
		results = []models.SearchResult{}
	}
	writeJSON(w, http.StatusOK, InferResponse{Results: results})
}

// Explore handles GET /api/explore.
//
//	@Summary		Explore an API name across attached reference corpora
//	@Tags			reference
//	@Produce		json
//	@Param			name	query		string	true	"API name (e.g. URLSession)"
//	@Success		200		{object}	ExploreResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/explore [get]
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'name' is required")
		return
	}
	sources := h.svc.Explore(r.Context(), name)
	if sources == nil {
		sources = []docservice.SourceExplore{}
	}
	writeJSON(w, http.StatusOK, ExploreResponse{Name: name, Sources: sources})
}

// Docsets handles GET /api/docsets.
//
//	@Summary		List attached reference corpora
//	@Tags			reference
//	@Produce		json
//	@Success		200	{object}	DocsetListResponse
//	@Security		BearerAuth
//	@Router			/docsets [get]
func (h *Handler) Docsets(w http.ResponseWriter, r *http.Request) {
	docsets := h.svc.Docsets(r.Context())
	if docsets == nil {
		docsets = []docservice.DocsetInfo{}
	}
	writeJSON(w, http.StatusOK, DocsetListResponse{Docsets: docsets})
}

// ListDocs handles GET /api/docs.
//
//	@Summary		List project documentation, fixed-size pages
//	@Tags			docs
//	@Produce		json
//	@Param			page	query		int	false	"Page number (default 1)"
//	@Param			limit	query		int	false	"Items per page"
//	@Success		200		{object}	PageResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/docs [get]
func (h *Handler) ListDocs(w http.ResponseWriter, r *http.Request) {
	page := intQuery(r, "page")
	if page == 0 {
		page = 1
	}
	pg, err := h.svc.ListDocuments(page, intQuery(r, "limit"))
	if err != nil {
		if errors.Is(err, apperr.ErrPageNotFound) {
			writeError(w, http.StatusNotFound, "page not found")
			return
		}
		slog.Error("list docs failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, pg)
}

// ReadDoc handles GET /api/docs/*.
//
//	@Summary		Read one document, chunked against the token budget
//	@Tags			docs
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Param			page	query		int		false	"Chunk page (default 1)"
//	@Success		200		{object}	PageResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/docs/{path} [get]
func (h *Handler) ReadDoc(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	page := intQuery(r, "page")
	if page == 0 {
		page = 1
	}
	pg, err := h.svc.ReadDocument(path, page)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, apperr.ErrPageNotFound):
			writeError(w, http.StatusNotFound, "page not found")
		default:
			slog.Error("read doc failed", slog.String("path", path), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, pg)
}
