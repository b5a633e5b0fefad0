package docset

// Entry is one (name, type, path) row from a reference corpus.
type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// ScoredEntry is a search hit with its accumulated score. Source carries
// the adapter id so identical entries from different corpora stay distinct.
type ScoredEntry struct {
	Entry
	Score         float64 `json:"score"`
	IsExactPhrase bool    `json:"isExactPhrase,omitempty"`
	Source        string  `json:"source,omitempty"`
	Language      string  `json:"language,omitempty"`
}

// Entry type buckets used by Explore, in display order. Types outside this
// list fall into the trailing Other bucket.
var TypeOrder = []string{
	"Framework", "Class", "Struct", "Method", "Property",
	"Function", "Protocol", "Enum", "Constant", "Sample", "Guide",
	"Other",
}

// TypeGroup is one Explore bucket.
type TypeGroup struct {
	Type    string  `json:"type"`
	Entries []Entry `json:"entries"`
}

// ExploreResult groups the entries under an API name by type.
type ExploreResult struct {
	Name   string      `json:"name"`
	Groups []TypeGroup `json:"groups"`
	Total  int         `json:"total"`
}
