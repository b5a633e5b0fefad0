// Package docs loads the project documentation tree into memory and keeps
// it fresh through a filesystem watcher. The loaded collection is handed
// to the retrieval core wholesale; the core itself never reads files.
package docs

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/docbotd/docbot/internal/checksum"
	"github.com/docbotd/docbot/internal/frontmatter"
	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/storage"
)

// Load reads every documentation file under the provider root and parses
// its front matter. Unreadable files are logged and skipped; a partially
// loaded collection beats none.
func Load(store storage.Provider, logger *slog.Logger) ([]models.Document, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("docs: list: %w", err)
	}

	out := make([]models.Document, 0, len(metas))
	for _, m := range metas {
		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("docs: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		res := frontmatter.Parse(data)
		out = append(out, models.Document{
			Path:       m.Path,
			Body:       res.Body,
			Meta:       res.Meta,
			ModifiedAt: m.ModifiedAt,
		})
	}
	return out, nil
}

// Fingerprint digests the collection listing so watcher-driven reloads can
// skip when nothing actually changed.
func Fingerprint(metas []models.DocumentMeta) string {
	var b strings.Builder
	for _, m := range metas {
		b.WriteString(m.Path)
		b.WriteByte(':')
		b.WriteString(m.Checksum)
		b.WriteByte('\n')
	}
	return checksum.Sum([]byte(b.String()))
}
