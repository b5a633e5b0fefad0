package docset

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Multi-term scoring weights.
const (
	allTermsBonus       = 50
	termExactScore      = 10
	termPrefixScore     = 7
	termSubstringScore  = 5
	extraTermBonus      = 3
	nameLengthPenalty   = 0.1
	exactPhraseBase     = 100
	candidateFetchLimit = 500
)

// ExactMatch returns entries whose name equals name, optionally filtered
// by type.
func (a *Adapter) ExactMatch(ctx context.Context, name, typeFilter string) ([]Entry, error) {
	query := `SELECT name, type, path FROM searchIndex WHERE name = ?`
	args := []any{name}
	if typeFilter != "" {
		query += ` AND type = ?`
		args = append(args, typeFilter)
	}
	rows, err := a.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("docset %s: exact match: %w", a.id, err)
	}
	return scanEntries(rows)
}

// Search returns entries whose name contains q, shortest names first, then
// alphabetically.
func (a *Adapter) Search(ctx context.Context, q, typeFilter string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT name, type, path FROM searchIndex WHERE name LIKE ? ESCAPE '\'`
	args := []any{"%" + escapeLike(q) + "%"}
	if typeFilter != "" {
		query += ` AND type = ?`
		args = append(args, typeFilter)
	}
	query += ` ORDER BY length(name), name LIMIT ?`
	args = append(args, limit)

	rows, err := a.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("docset %s: search: %w", a.id, err)
	}
	return scanEntries(rows)
}

// MultiTermSearch scores entries against a term list. Two passes run over
// one candidate fetch: an exact-phrase containment pass and a per-term
// pass. The merge de-duplicates by (name, type), keeping the higher score,
// drops entries that matched nothing, sorts descending, and truncates.
func (a *Adapter) MultiTermSearch(ctx context.Context, termList []string, typeFilter string, limit int) ([]ScoredEntry, error) {
	if len(termList) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	candidates, err := a.fetchCandidates(ctx, termList, typeFilter)
	if err != nil {
		return nil, err
	}

	phrase := strings.ToLower(strings.Join(termList, " "))
	seen := make(map[string]int, len(candidates)) // name|type -> index in out
	var out []ScoredEntry

	upsert := func(e Entry, score float64, exact bool) {
		key := e.Name + "|" + e.Type
		if i, ok := seen[key]; ok {
			if score > out[i].Score {
				out[i].Score = score
			}
			out[i].IsExactPhrase = out[i].IsExactPhrase || exact
			return
		}
		seen[key] = len(out)
		out = append(out, ScoredEntry{
			Entry:         e,
			Score:         score,
			IsExactPhrase: exact,
			Source:        a.id,
			Language:      a.language,
		})
	}

	for _, e := range candidates {
		nameLC := strings.ToLower(e.Name)

		if strings.Contains(nameLC, phrase) {
			upsert(e, exactPhraseBase-nameLengthPenalty*float64(len(e.Name)), true)
		}

		score, matchedCount := scoreTerms(nameLC, termList)
		if matchedCount == 0 {
			continue
		}
		if matchedCount == len(termList) {
			score += allTermsBonus
		}
		score += extraTermBonus * float64(matchedCount-1)
		score -= nameLengthPenalty * float64(len(e.Name))
		upsert(e, score, false)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// scoreTerms sums per-term position scores against a lowercase name.
func scoreTerms(nameLC string, termList []string) (float64, int) {
	var score float64
	matched := 0
	for _, term := range termList {
		switch {
		case nameLC == term:
			score += termExactScore
		case strings.HasPrefix(nameLC, term):
			score += termPrefixScore
		case strings.Contains(nameLC, term):
			score += termSubstringScore
		default:
			continue
		}
		matched++
	}
	return score, matched
}

// fetchCandidates pulls every row containing any term, capped so scoring
// stays in memory and bounded.
func (a *Adapter) fetchCandidates(ctx context.Context, termList []string, typeFilter string) ([]Entry, error) {
	conds := make([]string, 0, len(termList))
	args := make([]any, 0, len(termList)+2)
	for _, term := range termList {
		conds = append(conds, `name LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(term)+"%")
	}
	query := `SELECT name, type, path FROM searchIndex WHERE (` + strings.Join(conds, " OR ") + `)`
	if typeFilter != "" {
		query += ` AND type = ?`
		args = append(args, typeFilter)
	}
	query += ` LIMIT ?`
	args = append(args, candidateFetchLimit)

	rows, err := a.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("docset %s: multi-term search: %w", a.id, err)
	}
	return scanEntries(rows)
}

// ListTypes returns the distinct entry types present in the corpus.
func (a *Adapter) ListTypes(ctx context.Context) ([]string, error) {
	rows, err := a.conn.QueryContext(ctx, `SELECT DISTINCT type FROM searchIndex ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("docset %s: list types: %w", a.id, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Type, &e.Path); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// escapeLike escapes LIKE metacharacters so user terms match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
