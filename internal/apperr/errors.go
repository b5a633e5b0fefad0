// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound signals a missing document or docset entry.
	ErrNotFound = errors.New("not found")
	// ErrPageNotFound signals a page request outside the page map.
	ErrPageNotFound = errors.New("page not found")
	// ErrNoIndex signals that the document index is unavailable and
	// inference fell back to an unindexed scan.
	ErrNoIndex = errors.New("index unavailable")
)
