// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes docbot retrieval tools to LLM agents via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docbotd/docbot/internal/apperr"
	"github.com/docbotd/docbot/internal/docservice"
	"github.com/docbotd/docbot/internal/models"
)

// Server wraps the MCP server with docbot tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all docbot tools registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"docbot",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("search_documentation",
		mcp.WithDescription("Search project documentation and attached API reference "+
			"databases for a natural-language query. Results are ranked, de-duplicated, "+
			"and paginated against the response token budget."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 20)")),
		mcp.WithNumber("page", mcp.Description("Result page to return (default 1)")),
	), s.searchDocumentation)

	s.mcp.AddTool(mcp.NewTool("get_relevant_docs",
		mcp.WithDescription("Infer which project documents are relevant to a coding "+
			"context. Supply any subset of query, codeSnippet, and filePath; absent "+
			"fields contribute no signal."),
		mcp.WithString("query", mcp.Description("Natural-language task description")),
		mcp.WithString("codeSnippet", mcp.Description("Code the agent is working on")),
		mcp.WithString("filePath", mcp.Description("Path of the file being edited")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 10)")),
	), s.getRelevantDocs)

	s.mcp.AddTool(mcp.NewTool("explore_api",
		mcp.WithDescription("Explore an API name across attached reference databases: "+
			"returns the name itself plus every dot-prefixed member, grouped by entry type."),
		mcp.WithString("name", mcp.Required(), mcp.Description("API name, e.g. URLSession")),
	), s.exploreAPI)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read one project document. Documents larger than the "+
			"token budget are split into sequential chunk pages."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative document path (e.g. guides/routing.md)")),
		mcp.WithNumber("page", mcp.Description("Chunk page to return (default 1)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("list_documentation",
		mcp.WithDescription("List the project documentation inventory in fixed-size pages."),
		mcp.WithNumber("page", mcp.Description("Page to return (default 1)")),
		mcp.WithNumber("limit", mcp.Description("Items per page (default 10)")),
	), s.listDocumentation)

	s.mcp.AddTool(mcp.NewTool("list_docsets",
		mcp.WithDescription("List the attached API reference databases and their entry types."),
	), s.listDocsets)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchDocumentation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 0)
	page := req.GetInt("page", 1)

	pg, resp, err := s.svc.SearchPage(ctx, query, limit, page)
	if err != nil {
		if errors.Is(err, apperr.ErrPageNotFound) {
			return mcp.NewToolResultError("page not found"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"content":            pg.Content,
		"pagination":         pg.Pagination,
		"successfulSearches": resp.SuccessfulSearches,
		"failedSearches":     resp.FailedSearches,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRelevantDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qctx := models.QueryContext{
		Query:       req.GetString("query", ""),
		CodeSnippet: req.GetString("codeSnippet", ""),
		FilePath:    req.GetString("filePath", ""),
	}
	results := s.svc.Infer(qctx, req.GetInt("limit", 0))
	if results == nil {
		results = []models.SearchResult{}
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) exploreAPI(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sources := s.svc.Explore(ctx, name)
	if len(sources) == 0 {
		return mcp.NewToolResultText("no entries found for " + name), nil
	}
	out, _ := json.MarshalIndent(sources, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pg, err := s.svc.ReadDocument(path, req.GetInt("page", 1))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return mcp.NewToolResultError("not found: " + path), nil
		case errors.Is(err, apperr.ErrPageNotFound):
			return mcp.NewToolResultError("page not found"), nil
		default:
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	out, _ := json.MarshalIndent(pg, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocumentation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pg, err := s.svc.ListDocuments(req.GetInt("page", 1), req.GetInt("limit", 0))
	if err != nil {
		if errors.Is(err, apperr.ErrPageNotFound) {
			return mcp.NewToolResultError("page not found"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(pg, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocsets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docsets := s.svc.Docsets(ctx)
	if len(docsets) == 0 {
		return mcp.NewToolResultText("no reference databases attached"), nil
	}
	out, _ := json.MarshalIndent(docsets, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
