package relevance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docbotd/docbot/internal/models"
)

func doc(title, desc string, keywords []string, body string) *models.Document {
	return &models.Document{
		Path: "docs/test.md",
		Body: body,
		Meta: models.Metadata{
			Title:       title,
			Description: desc,
			Keywords:    keywords,
		},
	}
}

func TestScoreKeywordOnly(t *testing.T) {
	// Long body keeps the short-document multiplier out of the arithmetic.
	longBody := strings.Repeat("filler text without the term. ", 100)
	d := doc("Guide", "", []string{"jest"}, longBody)

	got := Score(d, []string{"jest"}, "zzz qqq")

	// keywordExact 12, full coverage ×1.5, normalized /10.
	assert.InDelta(t, 1.8, got.Score, 1e-9)
	assert.Equal(t, []string{"jest"}, got.MatchedTerms)
}

func TestScoreExactPhraseBonus(t *testing.T) {
	d := doc("Testing Guide", "", nil, strings.Repeat("x ", 1200))

	with := Score(d, []string{"testing"}, "testing guide")
	without := Score(d, []string{"testing"}, "nomatch phrase")

	assert.Greater(t, with.Score, without.Score)
}

func TestScoreCoverageScaling(t *testing.T) {
	body := strings.Repeat("padding ", 300)
	d := doc("React Router", "", []string{"react", "router"}, body)

	both := Score(d, []string{"react", "router"}, "zz qq")
	one := Score(d, []string{"react", "missingterm"}, "zz qq")

	// Matching all terms scales by 1.5, matching half by 1.0, and the
	// matched term list reflects only real hits.
	assert.Greater(t, both.Score, one.Score)
	assert.Equal(t, []string{"react", "router"}, both.MatchedTerms)
	assert.Equal(t, []string{"react"}, one.MatchedTerms)
}

func TestScoreShortBodyMultiplier(t *testing.T) {
	short := doc("Guide", "", []string{"jest"}, "short")
	long := doc("Guide", "", []string{"jest"}, strings.Repeat("a", shortBodyLimit))

	s := Score(short, []string{"jest"}, "zz qq")
	l := Score(long, []string{"jest"}, "zz qq")

	assert.InDelta(t, s.Score, l.Score*shortBodyMultiplier, 1e-9)
}

func TestScoreContentCap(t *testing.T) {
	// 50 occurrences would be 100 raw without the per-term content cap.
	body := strings.Repeat("jest ", 50) + strings.Repeat("pad ", 600)
	d := doc("", "", nil, body)

	got := Score(d, []string{"jest"}, "zz qq")

	// contentCap 10 ×1.5 coverage /10.
	assert.InDelta(t, 1.5, got.Score, 1e-9)
}

func TestScoreFuzzyFallback(t *testing.T) {
	d := doc("Pagination", "", nil, "")

	// One character off, matched only through the fuzzy path.
	got := Score(d, []string{"paginaton"}, "zz qq")

	assert.Positive(t, got.Score)
	assert.Equal(t, []string{"paginaton"}, got.MatchedTerms)

	// Short terms never take the fuzzy path, even one edit away.
	short := doc("Walk", "", nil, "")
	none := Score(short, []string{"wlk"}, "zz qq")
	assert.Zero(t, none.Score)
}

func TestScoreNormalizationClamp(t *testing.T) {
	d := doc("jest jest", "jest", []string{"jest"}, "jest")
	got := Score(d, []string{"jest"}, "jest")
	assert.LessOrEqual(t, got.Score, 100.0)
}

func TestRelevantFloor(t *testing.T) {
	assert.False(t, DocScore{Score: MinScore - 0.1}.Relevant())
	assert.True(t, DocScore{Score: MinScore}.Relevant())
	assert.True(t, DocScore{Score: MinScore + 0.1}.Relevant())
}

func TestKeywordScore(t *testing.T) {
	assert.Equal(t, float64(keywordExact), keywordScore([]string{"jest"}, "jest"))
	assert.Equal(t, float64(keywordPartial), keywordScore([]string{"jest-config"}, "jest"))
	assert.Equal(t, float64(keywordPartial), keywordScore([]string{"test"}, "testing"))
	assert.Zero(t, keywordScore([]string{"vitest"}, "mocha"))
	// Exact beats partial even when a partial keyword comes first.
	assert.Equal(t, float64(keywordExact), keywordScore([]string{"jest-config", "jest"}, "jest"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("react", "react", 2))
	assert.Equal(t, 1, levenshtein("react", "reactt", 2))
	assert.Equal(t, 1, levenshtein("kitten", "sitten", 2))
	assert.Equal(t, 2, levenshtein("kitten", "sittin", 2))
	// Early exit: anything beyond max reports max+1.
	assert.Equal(t, 3, levenshtein("completely", "different", 2))
}
