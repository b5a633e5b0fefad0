package frontmatter

import (
	"testing"
)

func TestParseFullFrontmatter(t *testing.T) {
	data := []byte(`---
title: Testing Guide
description: How we test.
keywords:
  - testing
  - jest
category: quality
filePatterns:
  - "*.test.js"
alwaysApply: true
confidence: 0.8
---

# Heading

Body text.
`)
	res := Parse(data)

	if res.Meta.Title != "Testing Guide" {
		t.Errorf("title = %q", res.Meta.Title)
	}
	if res.Meta.Description != "How we test." {
		t.Errorf("description = %q", res.Meta.Description)
	}
	if len(res.Meta.Keywords) != 2 || res.Meta.Keywords[1] != "jest" {
		t.Errorf("keywords = %v", res.Meta.Keywords)
	}
	if res.Meta.Category != "quality" {
		t.Errorf("category = %q", res.Meta.Category)
	}
	if len(res.Meta.FilePatterns) != 1 || res.Meta.FilePatterns[0] != "*.test.js" {
		t.Errorf("filePatterns = %v", res.Meta.FilePatterns)
	}
	if !res.Meta.AlwaysApply {
		t.Error("alwaysApply = false, want true")
	}
	if res.Meta.Confidence != 0.8 {
		t.Errorf("confidence = %v", res.Meta.Confidence)
	}
	if res.Body != "# Heading\n\nBody text.\n" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestParseNoFrontmatter(t *testing.T) {
	res := Parse([]byte("# Just a Title\n\nContent."))

	if res.Body != "# Just a Title\n\nContent." {
		t.Errorf("body = %q", res.Body)
	}
	// Title falls back to the first H1.
	if res.Meta.Title != "Just a Title" {
		t.Errorf("title = %q", res.Meta.Title)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	data := []byte("---\n: : not yaml [\n---\nBody.")
	res := Parse(data)

	if res.Meta.Description != "" || len(res.Meta.Keywords) != 0 {
		t.Errorf("meta = %+v, want zero", res.Meta)
	}
	// Malformed front matter keeps the full content as body.
	if res.Body != string(data) {
		t.Errorf("body = %q", res.Body)
	}
}

func TestParseUnclosedFrontmatter(t *testing.T) {
	data := []byte("---\ntitle: Oops\nno closing delimiter")
	res := Parse(data)

	if res.Meta.Title != "" {
		t.Errorf("title = %q, want empty", res.Meta.Title)
	}
	if res.Body != string(data) {
		t.Errorf("body = %q", res.Body)
	}
}

func TestParseTitleFallbackSkipsSubheadings(t *testing.T) {
	res := Parse([]byte("## Minor\n\n# Major\n"))
	if res.Meta.Title != "Major" {
		t.Errorf("title = %q, want Major", res.Meta.Title)
	}
}

func TestParseEmpty(t *testing.T) {
	res := Parse(nil)
	if res.Body != "" || res.Meta.Title != "" {
		t.Errorf("got %+v", res)
	}
}
