package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS saves (
    save_key        TEXT PRIMARY KEY,
    file_path       TEXT NOT NULL,
    root            TEXT NOT NULL DEFAULT '',
    checksum        TEXT NOT NULL DEFAULT '',
    valid           INTEGER NOT NULL DEFAULT 0,
    time_played_raw INTEGER NOT NULL DEFAULT -1,
    deaths          INTEGER NOT NULL DEFAULT -1,
    kills_declared  INTEGER NOT NULL DEFAULT -1,
    has_kills       INTEGER NOT NULL DEFAULT 0,
    has_keys        INTEGER NOT NULL DEFAULT 0,
    mtime           INTEGER NOT NULL DEFAULT 0,
    size            INTEGER NOT NULL DEFAULT 0,
    indexed_at      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS progress (
    save_key TEXT NOT NULL,
    kind     TEXT NOT NULL,
    seq      INTEGER NOT NULL,
    ident    TEXT NOT NULL,
    PRIMARY KEY (save_key, kind, seq)
);

CREATE VIRTUAL TABLE IF NOT EXISTS progress_fts USING fts5(
    ident,
    content=progress,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS progress_ai AFTER INSERT ON progress BEGIN
    INSERT INTO progress_fts(rowid, ident) VALUES (new.rowid, new.ident);
END;

CREATE TRIGGER IF NOT EXISTS progress_ad AFTER DELETE ON progress BEGIN
    INSERT INTO progress_fts(progress_fts, rowid, ident) VALUES('delete', old.rowid, old.ident);
END;

CREATE TRIGGER IF NOT EXISTS progress_au AFTER UPDATE ON progress BEGIN
    INSERT INTO progress_fts(progress_fts, rowid, ident) VALUES('delete', old.rowid, old.ident);
    INSERT INTO progress_fts(rowid, ident) VALUES (new.rowid, new.ident);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

const (
	KindBoss = "boss"
	KindKey  = "key"
)

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return d, nil
}

// schemaVersion should be bumped whenever save parsing changes to force a
// full re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == nil && ver == schemaVersion {
		return nil
	}
	// force re-index by resetting all save mtime/size to 0
	if _, err := d.db.Exec("UPDATE saves SET mtime = 0, size = 0"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type FileStamp struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetFileStamp(saveKey string) (*FileStamp, error) {
	var st FileStamp
	err := d.db.QueryRow(
		"SELECT mtime, size FROM saves WHERE save_key = ?",
		saveKey,
	).Scan(&st.Mtime, &st.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (d *DB) AllSaveKeys() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT save_key FROM saves")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

func (d *DB) DeleteSave(saveKey string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteSave(tx, saveKey); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteSave(tx *sql.Tx, saveKey string) error {
	if _, err := tx.Exec("DELETE FROM progress WHERE save_key = ?", saveKey); err != nil {
		return err
	}
	_, err := tx.Exec("DELETE FROM saves WHERE save_key = ?", saveKey)
	return err
}

func (d *DB) SaveCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM saves").Scan(&n)
	return n, err
}

func (d *DB) ValidSaveCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM saves WHERE valid = 1").Scan(&n)
	return n, err
}

func (d *DB) ProgressCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM progress").Scan(&n)
	return n, err
}

type SaveRow struct {
	SaveKey       string
	FilePath      string
	Root          string
	Checksum      string
	Valid         bool
	TimePlayedRaw int
	Deaths        int
	KillsDeclared int
	HasKills      bool
	HasKeys       bool
	Mtime         int64
	Size          int64
	IndexedAt     string
}

const saveColumns = `save_key, file_path, root, checksum, valid, time_played_raw, deaths,
	kills_declared, has_kills, has_keys, mtime, size, indexed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSaveRow(r rowScanner) (SaveRow, error) {
	var s SaveRow
	err := r.Scan(&s.SaveKey, &s.FilePath, &s.Root, &s.Checksum, &s.Valid,
		&s.TimePlayedRaw, &s.Deaths, &s.KillsDeclared, &s.HasKills, &s.HasKeys,
		&s.Mtime, &s.Size, &s.IndexedAt)
	return s, err
}

func (d *DB) GetSaveByKey(saveKey string) (*SaveRow, error) {
	s, err := scanSaveRow(d.db.QueryRow(
		"SELECT "+saveColumns+" FROM saves WHERE save_key = ?",
		saveKey,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSaves returns saves newest file first. limit <= 0 means no limit.
func (d *DB) ListSaves(validOnly bool, limit int) ([]SaveRow, error) {
	query := "SELECT " + saveColumns + " FROM saves"
	if validOnly {
		query += " WHERE valid = 1"
	}
	query += " ORDER BY mtime DESC, save_key"
	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ?"

	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saves []SaveRow
	for rows.Next() {
		s, err := scanSaveRow(rows)
		if err != nil {
			return nil, err
		}
		saves = append(saves, s)
	}
	return saves, rows.Err()
}

type ProgressRow struct {
	SaveKey string
	Kind    string // KindBoss or KindKey
	Seq     int
	Ident   string
}

// GetProgress returns the bosses and keys of a save, each kind in document
// order.
func (d *DB) GetProgress(saveKey string) ([]ProgressRow, error) {
	rows, err := d.db.Query(
		"SELECT save_key, kind, seq, ident FROM progress WHERE save_key = ? ORDER BY kind, seq",
		saveKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProgressRow
	for rows.Next() {
		var p ProgressRow
		if err := rows.Scan(&p.SaveKey, &p.Kind, &p.Seq, &p.Ident); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
