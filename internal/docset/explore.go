package docset

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Explore returns every entry equal to name or dot-prefixed by it
// (name, name.member, name.member.sub, ...), bucketed by entry type.
// Within the result, the exact name sorts first, then shorter names,
// then alphabetical order.
func (a *Adapter) Explore(ctx context.Context, name string) (*ExploreResult, error) {
	rows, err := a.conn.QueryContext(ctx, `
		SELECT name, type, path FROM searchIndex
		WHERE name = ? OR name LIKE ? ESCAPE '\'
	`, name, escapeLike(name)+".%")
	if err != nil {
		return nil, fmt.Errorf("docset %s: explore: %w", a.id, err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ei, ej := entries[i], entries[j]
		exactI, exactJ := ei.Name == name, ej.Name == name
		if exactI != exactJ {
			return exactI
		}
		if len(ei.Name) != len(ej.Name) {
			return len(ei.Name) < len(ej.Name)
		}
		return ei.Name < ej.Name
	})

	buckets := make(map[string][]Entry)
	for _, e := range entries {
		buckets[bucketFor(e.Type)] = append(buckets[bucketFor(e.Type)], e)
	}

	res := &ExploreResult{Name: name, Total: len(entries)}
	for _, t := range TypeOrder {
		if group, ok := buckets[t]; ok {
			res.Groups = append(res.Groups, TypeGroup{Type: t, Entries: group})
		}
	}
	return res, nil
}

func bucketFor(entryType string) string {
	for _, t := range TypeOrder {
		if strings.EqualFold(entryType, t) {
			return t
		}
	}
	return "Other"
}
