package paginate

import (
	"strings"
	"unicode/utf8"
)

// SplitText splits text into ordered chunks whose estimated token cost
// stays under budget. It is a pure function: greedy, preferring line
// boundaries, then word boundaries, then raw slicing. No chunk exceeds
// the budget except for an unavoidable single oversized token.
func SplitText(text string, budget int) []string {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	if EstimateTokens(text) <= budget {
		return []string{text}
	}
	charBudget := budget * charsPerToken

	var chunks []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if len(line) > charBudget {
			flush()
			chunks = append(chunks, splitWords(line, charBudget)...)
			continue
		}
		if b.Len()+len(line) > charBudget {
			flush()
		}
		b.WriteString(line)
	}
	flush()
	return chunks
}

// splitWords packs words greedily under the character budget, falling back
// to raw slicing for a single word that alone exceeds it.
func splitWords(line string, charBudget int) []string {
	var chunks []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
		}
	}

	for _, word := range strings.SplitAfter(line, " ") {
		if len(word) > charBudget {
			flush()
			for len(word) > charBudget {
				// Raw slicing must not split a multi-byte rune.
				cut := charBudget
				for cut > 0 && !utf8.RuneStart(word[cut]) {
					cut--
				}
				if cut == 0 {
					cut = charBudget
				}
				chunks = append(chunks, word[:cut])
				word = word[cut:]
			}
			if word != "" {
				b.WriteString(word)
			}
			continue
		}
		if b.Len()+len(word) > charBudget {
			flush()
		}
		b.WriteString(word)
	}
	flush()
	return chunks
}

// EstimateTokens approximates the token cost of text as ceil(chars/4).
func EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}
