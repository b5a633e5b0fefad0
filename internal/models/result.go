package models

// Source kinds for search results.
const (
	SourceProject   = "project"
	SourceReference = "reference"
)

// QueryContext carries the optional signals for document inference.
// Absent fields contribute nothing.
type QueryContext struct {
	Query       string `json:"query,omitempty"`
	CodeSnippet string `json:"codeSnippet,omitempty"`
	FilePath    string `json:"filePath,omitempty"`
}

// Empty reports whether the context carries no signal at all.
func (c QueryContext) Empty() bool {
	return c.Query == "" && c.CodeSnippet == "" && c.FilePath == ""
}

// SearchResult is the unified record emitted by fusion. Identifier is the
// document path for project results and name+type+source for reference
// results.
type SearchResult struct {
	Identifier     string   `json:"identifier"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	SourceKind     string   `json:"sourceKind"`
	RelevanceScore float64  `json:"relevanceScore"`
	Snippet        string   `json:"snippet,omitempty"`
	MatchedTerms   []string `json:"matchedTerms,omitempty"`
	ReferenceType  string   `json:"referenceType,omitempty"`
}
