// Package models defines the domain types for docbot.
package models

import "time"

// Metadata holds the front-matter fields of a documentation file.
// All fields are optional; zero values mean "absent".
type Metadata struct {
	Title        string   `json:"title,omitempty" yaml:"title"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Keywords     []string `json:"keywords,omitempty" yaml:"keywords"`
	Category     string   `json:"category,omitempty" yaml:"category"`
	FilePatterns []string `json:"filePatterns,omitempty" yaml:"filePatterns"`
	AlwaysApply  bool     `json:"alwaysApply,omitempty" yaml:"alwaysApply"`
	Confidence   float64  `json:"confidence,omitempty" yaml:"confidence"`
}

// Document is one project documentation unit. It is immutable during an
// index build and replaced wholesale on reload.
type Document struct {
	Path       string    `json:"path"`
	Body       string    `json:"body"`
	Meta       Metadata  `json:"metadata"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Title returns the metadata title, falling back to the path.
func (d *Document) Title() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	return d.Path
}

// DocumentMeta is a lightweight representation returned by list operations.
type DocumentMeta struct {
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`
	ModifiedAt time.Time `json:"modified_at"`
}
