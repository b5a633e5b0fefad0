// Package testutil provides shared test helpers for setting up docsets and docs trees.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/docbotd/docbot/internal/storage"
)

// IndexEntry is one searchIndex row for a test docset.
type IndexEntry struct {
	Name string
	Type string
	Path string
}

// TestDocset builds a temporary docset bundle with the given searchIndex
// rows and returns its path. The bundle is cleaned up with the test.
func TestDocset(t *testing.T, name string, entries []IndexEntry) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name+".docset")
	resources := filepath.Join(dir, "Contents", "Resources")
	if err := os.MkdirAll(resources, 0o755); err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(resources, "docSet.dsidx")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE searchIndex (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		type TEXT,
		path TEXT
	)`)
	if err != nil {
		t.Fatal(err)
	}

	stmt, err := db.Prepare(`INSERT INTO searchIndex (name, type, path) VALUES (?, ?, ?)`)
	if err != nil {
		t.Fatal(err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Name, e.Type, e.Path); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

// TestDocs creates a temporary docs directory with a storage.Provider.
func TestDocs(t *testing.T) (string, storage.Provider) {
	t.Helper()
	docsDir := t.TempDir()
	store, err := storage.NewFS(docsDir)
	if err != nil {
		t.Fatal(err)
	}
	return docsDir, store
}

// WriteDoc writes one markdown file under the docs root, creating parent
// directories as needed.
func WriteDoc(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
