package index

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Zuo-Peng/titansave/internal/savefile"
	"github.com/Zuo-Peng/titansave/internal/scan"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Invalid int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d invalid=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Invalid, s.Pruned, s.Errors)
}

// SaveKey derives the index key of a save found under a single root.
func SaveKey(root, path string) string {
	return saveKey(filepath.Base(root), root, path)
}

func saveKey(label, root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return label + ":" + filepath.ToSlash(rel)
}

// rootLabels names each root by its base name. Roots that share a base name
// get a hash of their cleaned path appended, so their keys cannot collide.
func rootLabels(roots []string) map[string]string {
	byBase := make(map[string]int)
	for _, root := range roots {
		byBase[filepath.Base(root)]++
	}

	labels := make(map[string]string, len(roots))
	for _, root := range roots {
		base := filepath.Base(root)
		if byBase[base] == 1 {
			labels[root] = base
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(filepath.Clean(root)))
		labels[root] = fmt.Sprintf("%s@%08x", base, h.Sum32())
	}
	return labels
}

// IndexAll scans roots for save files, re-parses the ones whose mtime or
// size changed, and prunes saves whose files are gone. Per-file failures are
// logged and counted, not returned.
func IndexAll(db *DB, roots, exts []string, opts ...savefile.Option) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoots(roots, exts)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	labels := rootLabels(roots)

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		key := saveKey(labels[fi.Root], fi.Root, fi.Path)

		needs, err := needsUpdate(db, key, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			log.Warn().Err(err).Str("save", key).Msg("read index stamp")
			continue
		}
		if !needs {
			seenKeys[key] = struct{}{}
			stats.Skipped++
			continue
		}

		save, err := savefile.Load(fi.Path, opts...)
		if err != nil {
			stats.Errors++
			log.Warn().Err(err).Str("path", fi.Path).Msg("parse save")
			continue
		}
		seenKeys[key] = struct{}{}
		if !save.Valid {
			stats.Invalid++
			log.Debug().Str("path", fi.Path).Msg("no checksum line")
		}

		if err := indexSave(db, key, fi, save); err != nil {
			stats.Errors++
			log.Warn().Err(err).Str("path", fi.Path).Msg("index save")
			continue
		}
		stats.Updated++
	}

	// prune saves whose files no longer exist
	pruned, err := pruneSaves(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	log.Debug().Stringer("stats", stats).Msg("index complete")
	return stats, nil
}

func needsUpdate(db *DB, saveKey string, mtime, size int64) (bool, error) {
	st, err := db.GetFileStamp(saveKey)
	if err != nil {
		return false, err
	}
	if st == nil {
		return true, nil // new save
	}
	return st.Mtime != mtime || st.Size != size, nil
}

func indexSave(db *DB, key string, fi scan.FileInfo, save *savefile.ParsedSave) error {
	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// old rows go in the same transaction, so a failed insert keeps them
	if err := deleteSave(tx, key); err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO saves (save_key, file_path, root, checksum, valid, time_played_raw, deaths,
		   kills_declared, has_kills, has_keys, mtime, size, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key,
		fi.Path,
		fi.Root,
		save.Checksum,
		save.Valid,
		save.TimePlayedRaw,
		save.Deaths,
		save.KillsDeclared,
		save.HasKills(),
		save.HasKeys(),
		fi.Mtime,
		fi.Size,
		time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO progress (save_key, kind, seq, ident) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, id := range save.BossesSlain {
		if _, err := stmt.Exec(key, KindBoss, i, id); err != nil {
			return err
		}
	}
	for i, id := range save.KeysUnlocked {
		if _, err := stmt.Exec(key, KindKey, i, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneSaves(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllSaveKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteSave(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
