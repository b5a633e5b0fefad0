// Package frontmatter extracts YAML front matter and the Markdown body
// from documentation files.
package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docbotd/docbot/internal/models"
)

// Result holds the output of parsing one documentation file.
type Result struct {
	Meta models.Metadata
	Body string
}

// Parse separates YAML front matter (between leading --- delimiters) from
// the Markdown body and decodes it into document metadata. A file without
// front matter, or with invalid YAML, yields an empty metadata record and
// the whole content as body; Parse never fails on malformed input.
func Parse(data []byte) *Result {
	meta, body := split(data)
	if meta.Title == "" {
		meta.Title = firstHeading(body)
	}
	return &Result{Meta: meta, Body: body}
}

func split(data []byte) (models.Metadata, string) {
	const delim = "---"
	var meta models.Metadata

	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return meta, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter; treat everything as body.
		return meta, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	if err := yaml.Unmarshal(yamlBlock, &meta); err != nil {
		return models.Metadata{}, string(data)
	}
	return meta, body
}

// firstHeading returns the text of the first H1 heading, or empty string.
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
