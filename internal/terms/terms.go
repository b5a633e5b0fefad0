// Package terms tokenizes free-text queries into normalized search terms.
package terms

import "strings"

// stopWords are filtered out of every query; they carry no retrieval signal.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "can": {}, "do": {}, "does": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "how": {}, "i": {},
	"if": {}, "in": {}, "is": {}, "it": {}, "its": {}, "me": {},
	"my": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "use": {}, "using": {}, "was": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "why": {}, "with": {},
	"you": {}, "your": {},
}

// Extract tokenizes query into ordered, lowercase, alphanumeric terms.
// Punctuation is stripped, duplicates keep their first occurrence, and
// single-character or stop-word tokens are removed. Extract never fails;
// empty or whitespace-only input yields an empty list, which callers treat
// as "no signal".
func Extract(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !isAlphanumeric(r)
	})

	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) <= 1 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// IsStopWord reports whether the lowercase token is in the stop-word set.
func IsStopWord(tok string) bool {
	_, ok := stopWords[tok]
	return ok
}

func isAlphanumeric(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
}
