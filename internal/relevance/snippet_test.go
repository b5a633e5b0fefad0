package relevance

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippetPhraseWindow(t *testing.T) {
	body := strings.Repeat("lead padding words here. ", 20) +
		"The useState hook manages local component state." +
		strings.Repeat(" trailing words after the match.", 20)
	d := doc("Hooks", "", nil, body)

	got := Snippet(d, []string{"usestate", "hook"}, "useState hook")

	assert.Contains(t, got, "useState hook")
	assert.LessOrEqual(t, len(got), snippetLimit+3)
}

func TestSnippetHeadingBlock(t *testing.T) {
	body := "# Intro\n\nNothing relevant here.\n\n## Error Handling\n\nWrap calls in try and retry on timeout errors.\n\n## Other\n\nUnrelated."
	d := doc("Guide", "", nil, body)

	got := Snippet(d, []string{"retry", "timeout"}, "no phrase match")

	assert.Contains(t, got, "retry on timeout")
	assert.NotContains(t, got, "Nothing relevant")
}

func TestSnippetDescriptionFallback(t *testing.T) {
	d := doc("Guide", "Short description of the guide.", nil, "body without hits")

	got := Snippet(d, []string{"zzz"}, "zzz")

	assert.Equal(t, "Short description of the guide.", got)
}

func TestSnippetFirstParagraphFallback(t *testing.T) {
	d := doc("Guide", "", nil, "# Heading\n\nFirst real paragraph.\n\nSecond paragraph.")

	got := Snippet(d, nil, "")

	assert.Equal(t, "First real paragraph.", got)
}

func TestSnippetStripsEmphasisAndCaps(t *testing.T) {
	d := doc("Guide", "Uses **bold** and _italic_ and `code` markers. "+strings.Repeat("word ", 60), nil, "")

	got := Snippet(d, []string{"zzz"}, "")

	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "`")
	assert.LessOrEqual(t, len(got), snippetLimit+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSnippetNeverSplitsRunes(t *testing.T) {
	// 100 three-byte runes with no spaces: the 200-byte cap lands mid-rune
	// unless the cut snaps back to a boundary.
	d := doc("Guide", strings.Repeat("世", 100), nil, "")

	got := Snippet(d, []string{"zzz"}, "")

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	// Same property for the phrase window path.
	body := strings.Repeat("界", 200) + " generics tutorial " + strings.Repeat("界", 200)
	d = doc("Guide", "", nil, body)

	got = Snippet(d, []string{"generics"}, "generics tutorial")

	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, "generics")
}
