// Package relevance scores project documents against extracted query terms
// and produces context snippets for search results.
package relevance

import (
	"strings"

	"github.com/docbotd/docbot/internal/models"
)

// Scoring weights. Raw scores are normalized to a 0-100 scale at the end.
const (
	exactPhraseBonus = 20
	titleWeight      = 15
	descWeight       = 10
	keywordExact     = 12
	keywordPartial   = 8
	contentPerHit    = 2
	contentCap       = 10
	fuzzyWeight      = 5

	shortBodyLimit      = 2000
	shortBodyMultiplier = 1.1

	// MinScore is the relevance floor: documents scoring below it are
	// excluded so weak partial matches do not crowd out genuine hits.
	MinScore = 5.0
)

// DocScore is the outcome of scoring one document.
type DocScore struct {
	Score        float64
	MatchedTerms []string
}

// Relevant reports whether the score clears the inclusion floor.
func (s DocScore) Relevant() bool {
	return s.Score >= MinScore
}

// Score rates doc against the term list and the original query string.
// Per-term signals are additive; a term that matches nothing directly gets
// one bounded fuzzy chance. The sum is scaled by term coverage, nudged up
// for short documents, and normalized to 0-100.
func Score(doc *models.Document, termList []string, query string) DocScore {
	titleLC := strings.ToLower(doc.Meta.Title)
	descLC := strings.ToLower(doc.Meta.Description)
	bodyLC := strings.ToLower(doc.Body)

	var score float64

	queryLC := strings.ToLower(strings.TrimSpace(query))
	if queryLC != "" && (strings.Contains(titleLC, queryLC) || strings.Contains(bodyLC, queryLC)) {
		score += exactPhraseBonus
	}

	var matched []string
	for _, term := range termList {
		var ts float64
		if strings.Contains(titleLC, term) {
			ts += titleWeight
		}
		if strings.Contains(descLC, term) {
			ts += descWeight
		}
		ts += keywordScore(doc.Meta.Keywords, term)

		if occ := strings.Count(bodyLC, term); occ > 0 {
			hit := float64(occ) * contentPerHit
			if hit > contentCap {
				hit = contentCap
			}
			ts += hit
		}

		if ts == 0 && fuzzyMatch(doc, term) {
			ts = fuzzyWeight
		}
		if ts > 0 {
			matched = append(matched, term)
		}
		score += ts
	}

	if len(termList) > 0 {
		score *= 0.5 + float64(len(matched))/float64(len(termList))
	}
	if len(doc.Body) < shortBodyLimit {
		score *= shortBodyMultiplier
	}

	normalized := score / 10
	if normalized > 100 {
		normalized = 100
	}
	return DocScore{Score: normalized, MatchedTerms: matched}
}

// keywordScore returns the best keyword signal for a term: exact match wins
// over partial containment in either direction.
func keywordScore(keywords []string, term string) float64 {
	best := 0.0
	for _, kw := range keywords {
		kwLC := strings.ToLower(kw)
		switch {
		case kwLC == term:
			return keywordExact
		case strings.Contains(kwLC, term) || strings.Contains(term, kwLC):
			best = keywordPartial
		}
	}
	return best
}

// fuzzyMatch is the bounded fallback for terms that scored zero everywhere:
// it checks title words, keywords, and description words for substring
// containment or an edit distance of at most 2. Only terms longer than
// three characters qualify.
func fuzzyMatch(doc *models.Document, term string) bool {
	if len(term) <= 3 {
		return false
	}
	for _, word := range fuzzyCandidates(doc) {
		if len(word) <= 3 {
			continue
		}
		if strings.Contains(word, term) || strings.Contains(term, word) {
			return true
		}
		if levenshtein(term, word, 2) <= 2 {
			return true
		}
	}
	return false
}

func fuzzyCandidates(doc *models.Document) []string {
	var out []string
	collect := func(s string) {
		for _, w := range strings.Fields(strings.ToLower(s)) {
			out = append(out, strings.Trim(w, ".,;:!?()[]{}\"'`"))
		}
	}
	collect(doc.Meta.Title)
	collect(doc.Meta.Description)
	for _, kw := range doc.Meta.Keywords {
		out = append(out, strings.ToLower(kw))
	}
	return out
}

// levenshtein computes the edit distance between a and b, giving up early
// (returning max+1) once every path exceeds max.
func levenshtein(a, b string, max int) int {
	if abs(len(a)-len(b)) > max {
		return max + 1
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > max {
			return max + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
