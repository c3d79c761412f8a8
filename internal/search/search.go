package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/titansave/internal/index"
)

type Result struct {
	SaveKey       string
	FilePath      string
	Kind          string // index.KindBoss, index.KindKey or "" for a plain listing
	Ident         string
	Seq           int
	Valid         bool
	Deaths        int
	TimePlayedRaw int
	Mtime         int64
	Bosses        int // bosses slain in the save
	Keys          int // keys unlocked in the save
}

type Options struct {
	Query     string
	Kind      string // "" = both, "boss", "key"
	ValidOnly bool
	Limit     int
}

// isPlainTerm reports whether q can be used as an FTS5 prefix query without
// escaping. Anything else falls back to a LIKE scan.
func isPlainTerm(q string) bool {
	if q == "" {
		return false
	}
	for _, r := range q {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Search finds saves whose bosses or keys match the query, best match per
// save first.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if opts.Kind != "" && opts.Kind != index.KindBoss && opts.Kind != index.KindKey {
		return nil, fmt.Errorf("unknown kind %q (want %s or %s)", opts.Kind, index.KindBoss, index.KindKey)
	}

	// Fetch more results before dedup so we still have enough after
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var results []Result
	var err error
	if isPlainTerm(opts.Query) {
		results, err = searchFTS(db, opts)
	} else {
		results, err = searchLike(db, opts)
	}
	if err != nil {
		return nil, err
	}

	// Deduplicate: keep only the first hit per save
	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.SaveKey] {
			continue
		}
		seen[r.SaveKey] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

func filters(opts Options) ([]string, []any) {
	var conditions []string
	var args []any

	if opts.Kind != "" {
		conditions = append(conditions, "p.kind = ?")
		args = append(args, opts.Kind)
	}
	if opts.ValidOnly {
		conditions = append(conditions, "s.valid = 1")
	}
	return conditions, args
}

// progressCounts selects the per-kind progress totals of save s.
const progressCounts = `
	(SELECT COUNT(*) FROM progress c WHERE c.save_key = s.save_key AND c.kind = 'boss'),
	(SELECT COUNT(*) FROM progress c WHERE c.save_key = s.save_key AND c.kind = 'key')`

const resultColumns = `p.save_key, s.file_path, p.kind, p.ident, p.seq, s.valid, s.deaths, s.time_played_raw, s.mtime,` + progressCounts

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"progress_fts MATCH ?"}
	args := []any{`"` + opts.Query + `"*`}

	more, moreArgs := filters(opts)
	conditions = append(conditions, more...)
	args = append(args, moreArgs...)

	query := fmt.Sprintf(`
		SELECT %s
		FROM progress_fts
		JOIN progress p ON progress_fts.rowid = p.rowid
		JOIN saves s ON p.save_key = s.save_key
		WHERE %s
		ORDER BY bm25(progress_fts), s.mtime DESC
		LIMIT ?
	`, resultColumns, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"p.ident LIKE ? ESCAPE '\\'"}
	args := []any{"%" + escapeLike(opts.Query) + "%"}

	more, moreArgs := filters(opts)
	conditions = append(conditions, more...)
	args = append(args, moreArgs...)

	query := fmt.Sprintf(`
		SELECT %s
		FROM progress p
		JOIN saves s ON p.save_key = s.save_key
		WHERE %s
		ORDER BY s.mtime DESC, p.kind, p.seq
		LIMIT ?
	`, resultColumns, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ListAll returns one result per save, newest first. A non-empty Query
// filters on the save key.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	var conditions []string
	var args []any

	if opts.Query != "" {
		conditions = append(conditions, "s.save_key LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(opts.Query)+"%")
	}
	if opts.ValidOnly {
		conditions = append(conditions, "s.valid = 1")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	query := fmt.Sprintf(`
		SELECT s.save_key, s.file_path, '', '', 0, s.valid, s.deaths, s.time_played_raw, s.mtime,%s
		FROM saves s
		%s
		ORDER BY s.mtime DESC, s.save_key
		LIMIT ?
	`, progressCounts, where)
	args = append(args, limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.SaveKey, &r.FilePath, &r.Kind, &r.Ident, &r.Seq,
			&r.Valid, &r.Deaths, &r.TimePlayedRaw, &r.Mtime,
			&r.Bosses, &r.Keys,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
