// Package docset reads on-disk reference corpora. A corpus is a directory
// whose Contents/Resources subpath holds a SQLite file with a single
// searchIndex (name, type, path) table. The format is an interop contract
// shared with third-party documentation browsers and is never written to;
// every connection is opened read-only.
package docset

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// indexRelPath is where the lookup table lives inside a docset directory.
const indexRelPath = "Contents/Resources/docSet.dsidx"

// Adapter wraps one reference corpus behind the search capability set used
// by the fan-out coordinator.
type Adapter struct {
	id       string
	name     string
	language string
	conn     *sql.DB
}

// Open opens the corpus rooted at dir. The path may point at the docset
// directory or directly at the index file.
func Open(dir string) (*Adapter, error) {
	idxPath := dir
	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("docset: stat %s: %w", dir, err)
	} else if info.IsDir() {
		idxPath = filepath.Join(dir, indexRelPath)
	}

	conn, err := sql.Open("sqlite3", "file:"+idxPath+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("docset: open %s: %w", idxPath, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("docset: ping %s: %w", idxPath, err)
	}
	// Reject directories that do not carry the expected table.
	var n int
	if err := conn.QueryRow(`SELECT count(*) FROM searchIndex`).Scan(&n); err != nil {
		conn.Close()
		return nil, fmt.Errorf("docset: not a docset index %s: %w", idxPath, err)
	}

	base := strings.TrimSuffix(filepath.Base(dir), ".docset")
	return &Adapter{
		id:   strings.ToLower(base),
		name: base,
		conn: conn,
	}, nil
}

// ID returns the stable identifier the coordinator keys this adapter by.
func (a *Adapter) ID() string { return a.id }

// Name returns the display name of the corpus.
func (a *Adapter) Name() string { return a.name }

// Language returns the declared language of the corpus, if any.
func (a *Adapter) Language() string { return a.language }

// SetLanguage declares the corpus language, used by fusion to pick between
// duplicate reference entries.
func (a *Adapter) SetLanguage(lang string) { a.language = strings.ToLower(lang) }

// Close closes the underlying read-only connection.
func (a *Adapter) Close() error { return a.conn.Close() }
