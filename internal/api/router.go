package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docbotd/docbot/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *docservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Search.
	r.Get("/search", h.Search)
	r.Get("/search/page", h.SearchPage)
	r.Post("/infer", h.Infer)

	// Reference corpora.
	r.Get("/explore", h.Explore)
	r.Get("/docsets", h.Docsets)

	// Project documentation.
	r.Get("/docs", h.ListDocs)
	r.Get("/docs/*", h.ReadDoc)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
