package docindex

import (
	"strings"

	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/terms"
)

// Scan is the availability fallback used when no index could be built: a
// linear, un-indexed pass over the collection applying the same keyword,
// pattern, and extension signals. It trades precision (no build-time
// weights beyond the keyword table) for never being unavailable.
func Scan(docs []models.Document, qctx models.QueryContext) []Candidate {
	if qctx.Empty() {
		return nil
	}

	acc := newAccumulator()
	queryTerms := terms.Extract(qctx.Query)
	snippetLC := strings.ToLower(qctx.CodeSnippet)
	pathLC := strings.ToLower(qctx.FilePath)

	for i := range docs {
		doc := &docs[i]

		for _, term := range queryTerms {
			if s := keywordScoreScan(doc, term); s > 0 {
				acc.add(doc, s)
			}
		}

		if qctx.CodeSnippet != "" {
			for _, b := range codeBlocks(doc.Body) {
				for _, pat := range patternMentions(b.lang, b.code) {
					if containsPattern(qctx.CodeSnippet, snippetLC, pat) {
						acc.add(doc, patternQueryScore)
					}
				}
			}
		}

		if qctx.FilePath != "" {
			for _, m := range extensionRe.FindAllStringSubmatch(strings.ToLower(doc.Body), -1) {
				if strings.HasSuffix(pathLC, "."+m[1]) {
					acc.add(doc, extensionQueryScore)
				}
			}
			if matchesFilePatterns(doc.Meta.FilePatterns, qctx.FilePath) {
				acc.add(doc, filePatternQueryScore)
			}
		}
	}

	return acc.ranked()
}

func keywordScoreScan(doc *models.Document, term string) float64 {
	for _, kw := range doc.Meta.Keywords {
		if strings.ToLower(kw) == term {
			return weightKeyword
		}
	}
	if strings.ToLower(doc.Meta.Category) == term {
		return weightCategory
	}
	return 0
}
