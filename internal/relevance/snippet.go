package relevance

import (
	"strings"
	"unicode/utf8"

	"github.com/docbotd/docbot/internal/models"
)

const snippetLimit = 200

// Snippet extracts a short context window for a search hit. Preference
// order: a window around an exact-phrase match, the highest-scoring block
// adjacent to a heading, the metadata description, and finally the first
// non-heading paragraph. The result is capped at 200 characters with
// markdown emphasis stripped.
func Snippet(doc *models.Document, termList []string, query string) string {
	queryLC := strings.ToLower(strings.TrimSpace(query))
	bodyLC := strings.ToLower(doc.Body)

	if queryLC != "" {
		if idx := strings.Index(bodyLC, queryLC); idx >= 0 {
			return trimSnippet(phraseWindow(doc.Body, idx, len(queryLC)))
		}
	}

	if block := bestHeadingBlock(doc.Body, termList); block != "" {
		return trimSnippet(block)
	}

	if doc.Meta.Description != "" {
		return trimSnippet(doc.Meta.Description)
	}

	return trimSnippet(firstParagraph(doc.Body))
}

// phraseWindow centers a window of roughly snippetLimit characters on the
// match at idx, snapping the start to a word boundary.
func phraseWindow(body string, idx, matchLen int) string {
	start := idx - (snippetLimit-matchLen)/2
	if start < 0 {
		start = 0
	}
	if start > 0 {
		if sp := strings.LastIndexByte(body[:start+1], ' '); sp >= 0 {
			start = sp + 1
		}
	}
	start = runeStart(body, start)
	end := start + snippetLimit
	if end > len(body) {
		end = len(body)
	}
	return body[start:runeStart(body, end)]
}

// bestHeadingBlock splits the body at markdown headings and returns the
// block whose heading or text matches the most term occurrences.
func bestHeadingBlock(body string, termList []string) string {
	if len(termList) == 0 {
		return ""
	}
	var best string
	bestScore := 0

	lines := strings.Split(body, "\n")
	var heading string
	var block []string
	flush := func() {
		if len(block) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(block, "\n"))
		if text == "" {
			return
		}
		score := 0
		headingLC := strings.ToLower(heading)
		textLC := strings.ToLower(text)
		for _, term := range termList {
			if strings.Contains(headingLC, term) {
				score += 3
			}
			score += strings.Count(textLC, term)
		}
		if score > bestScore {
			bestScore = score
			best = text
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			flush()
			heading = strings.TrimSpace(line)
			block = block[:0]
			continue
		}
		block = append(block, line)
	}
	flush()
	return best
}

// firstParagraph returns the first paragraph that is not a heading.
func firstParagraph(body string) string {
	for _, para := range strings.Split(body, "\n\n") {
		p := strings.TrimSpace(para)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		return p
	}
	return ""
}

var emphasisReplacer = strings.NewReplacer("**", "", "__", "", "*", "", "_", "", "`", "")

func trimSnippet(s string) string {
	s = emphasisReplacer.Replace(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= snippetLimit {
		return s
	}
	cut := s[:runeStart(s, snippetLimit)]
	if sp := strings.LastIndexByte(cut, ' '); sp > snippetLimit/2 {
		cut = cut[:sp]
	}
	return cut + "..."
}

// runeStart backs idx up to the nearest rune boundary in s so a cut never
// splits a multi-byte rune.
func runeStart(s string, idx int) int {
	for idx > 0 && idx < len(s) && !utf8.RuneStart(s[idx]) {
		idx--
	}
	return idx
}
