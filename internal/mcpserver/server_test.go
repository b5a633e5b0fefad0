package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docbotd/docbot/internal/docservice"
	"github.com/docbotd/docbot/internal/fanout"
	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/testutil"
)

func testServer(t *testing.T) (*Server, *docservice.Service) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := docservice.NewService(fanout.New(logger, 0, 0, 0), 0, logger)
	t.Cleanup(func() { svc.Close() })

	svc.SetDocuments([]models.Document{
		{
			Path: "guides/testing.md",
			Body: "# Testing\n\nWrite tests with jest.\n",
			Meta: models.Metadata{
				Title:        "Testing Guide",
				Keywords:     []string{"testing", "jest"},
				FilePatterns: []string{"*.test.js"},
			},
		},
	})

	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_documentation":
		result, err = srv.searchDocumentation(ctx, req)
	case "get_relevant_docs":
		result, err = srv.getRelevantDocs(ctx, req)
	case "explore_api":
		result, err = srv.exploreAPI(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "list_documentation":
		result, err = srv.listDocumentation(ctx, req)
	case "list_docsets":
		result, err = srv.listDocsets(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchDocumentation(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "search_documentation", map[string]interface{}{
		"query": "jest testing",
	})
	text := resultText(r)
	if !strings.Contains(text, "Testing Guide") {
		t.Errorf("result = %q, want Testing Guide hit", text)
	}
	if !strings.Contains(text, `"page": 1`) {
		t.Errorf("result missing pagination: %q", text)
	}
}

func TestSearchDocumentationMissingQuery(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "search_documentation", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error result for missing query")
	}
}

func TestGetRelevantDocs(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_relevant_docs", map[string]interface{}{
		"filePath": "src/app.test.js",
	})
	text := resultText(r)
	if !strings.Contains(text, "guides/testing.md") {
		t.Errorf("result = %q", text)
	}
}

func TestGetRelevantDocsEmptyContext(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_relevant_docs", map[string]interface{}{})
	if resultText(r) != "[]" {
		t.Errorf("result = %q, want empty array", resultText(r))
	}
}

func TestReadDocumentTool(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "read_document", map[string]interface{}{
		"path": "guides/testing.md",
	})
	if !strings.Contains(resultText(r), "Write tests with jest.") {
		t.Errorf("result = %q", resultText(r))
	}

	r = callTool(t, srv, "read_document", map[string]interface{}{
		"path": "guides/none.md",
	})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestListDocumentationTool(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_documentation", map[string]interface{}{})
	if !strings.Contains(resultText(r), "guides/testing.md") {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestExploreAPITool(t *testing.T) {
	srv, svc := testServer(t)
	dir := testutil.TestDocset(t, "swift", []testutil.IndexEntry{
		{Name: "Array", Type: "Struct", Path: "array.html"},
		{Name: "Array.map", Type: "Method", Path: "array-map.html"},
	})
	if _, err := svc.AttachDocset(dir, "swift"); err != nil {
		t.Fatalf("AttachDocset: %v", err)
	}

	r := callTool(t, srv, "explore_api", map[string]interface{}{"name": "Array"})
	text := resultText(r)
	if !strings.Contains(text, "Array.map") {
		t.Errorf("result = %q", text)
	}

	r = callTool(t, srv, "explore_api", map[string]interface{}{"name": "Dictionary"})
	if !strings.Contains(resultText(r), "no entries found") {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestListDocsetsTool(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "list_docsets", map[string]interface{}{})
	if !strings.Contains(resultText(r), "no reference databases attached") {
		t.Errorf("result = %q", resultText(r))
	}

	dir := testutil.TestDocset(t, "swift", []testutil.IndexEntry{
		{Name: "Array", Type: "Struct", Path: "array.html"},
	})
	if _, err := svc.AttachDocset(dir, "swift"); err != nil {
		t.Fatalf("AttachDocset: %v", err)
	}

	r = callTool(t, srv, "list_docsets", map[string]interface{}{})
	if !strings.Contains(resultText(r), `"swift"`) {
		t.Errorf("result = %q", resultText(r))
	}
}
