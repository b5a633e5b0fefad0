package docservice

import (
	"fmt"
	"strings"

	"github.com/docbotd/docbot/internal/models"
)

// renderResult formats one fused search hit as a markdown block.
func renderResult(r models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", r.Title)
	fmt.Fprintf(&b, "- Source: %s", r.SourceKind)
	if r.ReferenceType != "" {
		fmt.Fprintf(&b, " (%s)", r.ReferenceType)
	}
	fmt.Fprintf(&b, "\n- Relevance: %.1f\n", r.RelevanceScore)
	if r.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Description)
	}
	if r.Snippet != "" {
		fmt.Fprintf(&b, "\n> %s\n", r.Snippet)
	}
	if len(r.MatchedTerms) > 0 {
		fmt.Fprintf(&b, "\nMatched: %s\n", strings.Join(r.MatchedTerms, ", "))
	}
	return b.String()
}

// renderDocument formats a full document: title heading plus body.
func renderDocument(doc *models.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title())
	if doc.Meta.Description != "" {
		fmt.Fprintf(&b, "_%s_\n\n", doc.Meta.Description)
	}
	b.WriteString(doc.Body)
	return b.String()
}

// renderListing formats one inventory line for list operations.
func renderListing(doc *models.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **%s** (`%s`)", doc.Title(), doc.Path)
	if doc.Meta.Description != "" {
		fmt.Fprintf(&b, ": %s", doc.Meta.Description)
	}
	if len(doc.Meta.Keywords) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(doc.Meta.Keywords, ", "))
	}
	return b.String()
}
