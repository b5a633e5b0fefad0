// Package storage defines the read-only documentation source abstraction.
// The retrieval core itself never touches the filesystem; documents reach
// it through this provider.
package storage

import "github.com/docbotd/docbot/internal/models"

// Provider is the interface for documentation file access. The docs tree
// is never written to; reload replaces the in-memory collection wholesale.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to the docs root).
	List(dir string) ([]models.DocumentMeta, error)
	// Read returns the raw bytes of the file at path (relative to the docs root).
	Read(path string) ([]byte, error)
}
