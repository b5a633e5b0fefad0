// Package docindex builds in-memory inverted indices over a document
// collection and answers inference queries against them. An index is built
// once per collection and replaced wholesale on reload; queries aggregate
// the weights fixed at build time but never recompute them.
package docindex

import (
	"regexp"
	"sort"
	"strings"

	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/terms"
)

// Build-time weights. Extension hits are scored at query time.
const (
	weightKeyword  = 10
	weightCategory = 5
	weightImport   = 3
	weightHeading  = 2
	weightPattern  = 6

	patternQueryScore     = 8
	extensionQueryScore   = 3
	filePatternQueryScore = 10
)

// entry is one posting: a document plus the weight fixed at build time.
type entry struct {
	doc    *models.Document
	weight float64
}

// Candidate is a scored inference result. Scores from multiple matching
// signals sum; candidates are keyed by document path so one document never
// appears twice in a single pass.
type Candidate struct {
	Doc   *models.Document
	Score float64
}

// Index holds the four inverted indices over one document collection.
type Index struct {
	docs      []models.Document
	keyword   map[string][]entry
	topic     map[string][]entry
	pattern   map[string][]entry
	extension map[string][]entry
}

var extensionRe = regexp.MustCompile(`\*\.([a-z0-9]+)`)

// Build constructs the four indices over docs. The slice is retained; the
// caller must treat it as immutable until the index is discarded.
func Build(docs []models.Document) *Index {
	idx := &Index{
		docs:      docs,
		keyword:   make(map[string][]entry),
		topic:     make(map[string][]entry),
		pattern:   make(map[string][]entry),
		extension: make(map[string][]entry),
	}
	for i := range docs {
		idx.indexDocument(&docs[i])
	}
	return idx
}

// Docs returns the indexed collection.
func (idx *Index) Docs() []models.Document {
	return idx.docs
}

func (idx *Index) indexDocument(doc *models.Document) {
	for _, kw := range doc.Meta.Keywords {
		idx.add(idx.keyword, strings.ToLower(kw), doc, weightKeyword)
	}
	if doc.Meta.Category != "" {
		idx.add(idx.keyword, strings.ToLower(doc.Meta.Category), doc, weightCategory)
	}

	blocks := codeBlocks(doc.Body)
	for _, b := range blocks {
		for _, mod := range importTokens(b.code) {
			idx.add(idx.topic, mod, doc, weightImport)
		}
		for _, fw := range frameworkMentions(b.code) {
			idx.add(idx.topic, fw, doc, weightImport)
		}
		for _, pat := range patternMentions(b.lang, b.code) {
			idx.add(idx.pattern, pat, doc, weightPattern)
		}
	}

	for _, h := range headings(doc.Body) {
		for _, tok := range terms.Extract(h) {
			idx.add(idx.topic, tok, doc, weightHeading)
		}
	}

	for _, m := range extensionRe.FindAllStringSubmatch(strings.ToLower(doc.Body), -1) {
		idx.add(idx.extension, m[1], doc, extensionQueryScore)
	}
}

// add appends a posting, merging weight into an existing posting for the
// same document so build-time weights stay additive per (term, doc).
func (idx *Index) add(m map[string][]entry, key string, doc *models.Document, weight float64) {
	if key == "" {
		return
	}
	postings := m[key]
	for i := range postings {
		if postings[i].doc.Path == doc.Path {
			postings[i].weight += weight
			return
		}
	}
	m[key] = append(postings, entry{doc: doc, weight: weight})
}

// Infer scores the collection against a query context. Each present field
// searches its own indices; candidate scores accumulate additively. An
// empty context yields an empty result by contract.
func (idx *Index) Infer(qctx models.QueryContext) []Candidate {
	if qctx.Empty() {
		return nil
	}

	acc := newAccumulator()

	if qctx.Query != "" {
		for _, term := range terms.Extract(qctx.Query) {
			for _, e := range idx.keyword[term] {
				acc.add(e.doc, e.weight)
			}
			for _, e := range idx.topic[term] {
				acc.add(e.doc, e.weight)
			}
		}
	}

	if qctx.CodeSnippet != "" {
		snippetLC := strings.ToLower(qctx.CodeSnippet)
		for pat, postings := range idx.pattern {
			if !containsPattern(qctx.CodeSnippet, snippetLC, pat) {
				continue
			}
			for _, e := range postings {
				acc.add(e.doc, patternQueryScore)
			}
		}
	}

	if qctx.FilePath != "" {
		pathLC := strings.ToLower(qctx.FilePath)
		for ext, postings := range idx.extension {
			if !strings.HasSuffix(pathLC, "."+ext) {
				continue
			}
			for _, e := range postings {
				acc.add(e.doc, extensionQueryScore)
			}
		}
		for i := range idx.docs {
			doc := &idx.docs[i]
			if matchesFilePatterns(doc.Meta.FilePatterns, qctx.FilePath) {
				acc.add(doc, filePatternQueryScore)
			}
		}
	}

	return acc.ranked()
}

// accumulator sums candidate scores keyed by document path.
type accumulator struct {
	scores map[string]float64
	docs   map[string]*models.Document
}

func newAccumulator() *accumulator {
	return &accumulator{
		scores: make(map[string]float64),
		docs:   make(map[string]*models.Document),
	}
}

func (a *accumulator) add(doc *models.Document, score float64) {
	a.scores[doc.Path] += score
	a.docs[doc.Path] = doc
}

func (a *accumulator) ranked() []Candidate {
	out := make([]Candidate, 0, len(a.scores))
	for path, score := range a.scores {
		out = append(out, Candidate{Doc: a.docs[path], Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Doc.Path < out[j].Doc.Path
	})
	return out
}
