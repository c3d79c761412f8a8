package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zuo-Peng/titansave/internal/savefile"
)

const testChecksum = "0123456789abcdef0123456789abcdef"

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "db", "test.db"))
	if err != nil {
		t.Fatalf("OpenDB returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func writeSave(t *testing.T, path, payload string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(payload+"\n"+testChecksum), 0o644); err != nil {
		t.Fatalf("write save: %v", err)
	}
}

func TestIndexAll(t *testing.T) {
	db := openTestDB(t)
	root := filepath.Join(t.TempDir(), "TitanSouls")
	exts := []string{".sav"}

	writeSave(t, filepath.Join(root, "slot1.sav"),
		`<Kills count="2"><Titan id="Knight"/><Titan id="Yeti"/></Kills><Key id="gate"/><time val="600"/><Deaths count="5"/>`)
	writeSave(t, filepath.Join(root, "slot2.sav"), `<Deaths count="nope"/>`)
	if err := os.WriteFile(filepath.Join(root, "slot3.sav"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	stats, err := IndexAll(db, []string{root}, exts)
	if err != nil {
		t.Fatalf("IndexAll returned error: %v", err)
	}
	if stats.Scanned != 3 || stats.Updated != 2 || stats.Errors != 1 || stats.Invalid != 1 {
		t.Fatalf("unexpected stats: %s", stats)
	}

	key := SaveKey(root, filepath.Join(root, "slot1.sav"))
	if key != "TitanSouls:slot1.sav" {
		t.Fatalf("unexpected key: %s", key)
	}
	save, err := db.GetSaveByKey(key)
	if err != nil || save == nil {
		t.Fatalf("GetSaveByKey: %v %v", save, err)
	}
	if !save.Valid || save.Deaths != 5 || save.TimePlayedRaw != 600 || !save.HasKeys || save.KillsDeclared != 2 {
		t.Fatalf("unexpected save row: %+v", save)
	}

	progress, err := db.GetProgress(key)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if len(progress) != 3 {
		t.Fatalf("unexpected progress: %+v", progress)
	}
	if progress[0].Kind != KindBoss || progress[0].Ident != "Knight" || progress[1].Ident != "Yeti" {
		t.Fatalf("bosses out of order: %+v", progress)
	}
	if progress[2].Kind != KindKey || progress[2].Ident != "gate" {
		t.Fatalf("unexpected key row: %+v", progress[2])
	}

	invalid, err := db.GetSaveByKey("TitanSouls:slot3.sav")
	if err != nil || invalid == nil || invalid.Valid {
		t.Fatalf("expected stored invalid save, got %+v %v", invalid, err)
	}

	// unchanged files are skipped on the second run
	stats, err = IndexAll(db, []string{root}, exts)
	if err != nil {
		t.Fatalf("IndexAll returned error: %v", err)
	}
	if stats.Skipped != 2 || stats.Updated != 0 || stats.Pruned != 0 {
		t.Fatalf("unexpected stats on re-run: %s", stats)
	}

	// removed files are pruned
	if err := os.Remove(filepath.Join(root, "slot1.sav")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	stats, err = IndexAll(db, []string{root}, exts)
	if err != nil {
		t.Fatalf("IndexAll returned error: %v", err)
	}
	if stats.Pruned != 1 {
		t.Fatalf("expected one pruned save, got %s", stats)
	}
	if n, _ := db.ProgressCount(); n != 0 {
		t.Fatalf("expected progress rows to be pruned, got %d", n)
	}
	if n, _ := db.SaveCount(); n != 1 {
		t.Fatalf("expected one save left, got %d", n)
	}
}

func TestIndexAllChangedFile(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	path := filepath.Join(root, "slot.sav")

	writeSave(t, path, `<Deaths count="1"/>`)
	if _, err := IndexAll(db, []string{root}, []string{".sav"}); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}

	writeSave(t, path, `<Deaths count="10"/><Key id="k"/>`)
	stats, err := IndexAll(db, []string{root}, []string{".sav"})
	if err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if stats.Updated != 1 {
		t.Fatalf("expected re-index of changed file, got %s", stats)
	}

	save, _ := db.GetSaveByKey(SaveKey(root, path))
	if save == nil || save.Deaths != 10 {
		t.Fatalf("unexpected save: %+v", save)
	}
}

func TestIndexAllFailedInsertKeepsOldRows(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	path := filepath.Join(root, "slot.sav")

	writeSave(t, path, `<Deaths count="1"/><Key id="k"/>`)
	if _, err := IndexAll(db, []string{root}, []string{".sav"}); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}

	if _, err := db.Raw().Exec(`CREATE TRIGGER reject_save BEFORE INSERT ON saves
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	writeSave(t, path, `<Deaths count="10"/>`)
	stats, err := IndexAll(db, []string{root}, []string{".sav"})
	if err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if stats.Errors != 1 || stats.Updated != 0 {
		t.Fatalf("expected the insert to fail, got %s", stats)
	}

	save, err := db.GetSaveByKey(SaveKey(root, path))
	if err != nil || save == nil || save.Deaths != 1 {
		t.Fatalf("expected previous row to survive, got %+v %v", save, err)
	}
	if n, _ := db.ProgressCount(); n != 1 {
		t.Fatalf("expected previous progress rows to survive, got %d", n)
	}
}

func TestIndexAllRootsWithSameName(t *testing.T) {
	db := openTestDB(t)
	base := t.TempDir()
	rootA := filepath.Join(base, "a", "saves")
	rootB := filepath.Join(base, "b", "saves")

	writeSave(t, filepath.Join(rootA, "slot1.sav"), `<Deaths count="1"/>`)
	writeSave(t, filepath.Join(rootB, "slot1.sav"), `<Deaths count="2"/>`)

	stats, err := IndexAll(db, []string{rootA, rootB}, []string{".sav"})
	if err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if stats.Updated != 2 {
		t.Fatalf("expected both saves indexed, got %s", stats)
	}
	if n, _ := db.SaveCount(); n != 2 {
		t.Fatalf("expected two saves, got %d", n)
	}

	keys, err := db.AllSaveKeys()
	if err != nil {
		t.Fatalf("AllSaveKeys: %v", err)
	}
	for key := range keys {
		if !strings.HasPrefix(key, "saves@") || !strings.HasSuffix(key, ":slot1.sav") {
			t.Fatalf("unexpected key: %s", key)
		}
	}

	labels := rootLabels([]string{rootA, rootB, filepath.Join(base, "TitanSouls")})
	if labels[rootA] == labels[rootB] {
		t.Fatalf("labels collide: %v", labels)
	}
	if got := labels[filepath.Join(base, "TitanSouls")]; got != "TitanSouls" {
		t.Fatalf("unique root should keep its name, got %s", got)
	}
}

func TestIndexAllStrictOrder(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeSave(t, filepath.Join(root, "slot.sav"), `<Titan id="A"/>`)

	stats, err := IndexAll(db, []string{root}, []string{".sav"}, savefile.WithStrictOrder())
	if err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if stats.Errors != 1 || stats.Updated != 0 {
		t.Fatalf("expected strict ordering failure, got %s", stats)
	}
}

func TestListSaves(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeSave(t, filepath.Join(root, "a.sav"), `<Deaths count="1"/>`)
	if err := os.WriteFile(filepath.Join(root, "b.sav"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := IndexAll(db, []string{root}, []string{".sav"}); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}

	all, err := db.ListSaves(false, 0)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListSaves(all): %v %v", all, err)
	}
	valid, err := db.ListSaves(true, 0)
	if err != nil || len(valid) != 1 || valid[0].Deaths != 1 {
		t.Fatalf("ListSaves(valid): %+v %v", valid, err)
	}
	limited, err := db.ListSaves(false, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("ListSaves(limit): %v %v", limited, err)
	}
}

func TestLoadParsedSave(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	path := filepath.Join(root, "slot.sav")
	writeSave(t, path, `<Kills count="3"><Titan id="A"/><Key id="k1"/><Titan id="B"/></Kills><time val="3600"/>`)

	if _, err := IndexAll(db, []string{root}, []string{".sav"}); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}

	want, err := savefile.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := db.LoadParsedSave(SaveKey(root, path))
	if err != nil || got == nil {
		t.Fatalf("LoadParsedSave: %v %v", got, err)
	}

	if got.Checksum != want.Checksum || got.TimePlayed() != want.TimePlayed() || got.Deaths != want.Deaths {
		t.Fatalf("scalar mismatch: got %+v want %+v", got, want)
	}
	if len(got.BossesSlain) != 2 || got.BossesSlain[0] != "A" || got.BossesSlain[1] != "B" {
		t.Fatalf("unexpected bosses: %v", got.BossesSlain)
	}
	if len(got.KeysUnlocked) != 1 || got.KeysUnlocked[0] != "k1" {
		t.Fatalf("unexpected keys: %v", got.KeysUnlocked)
	}

	missing, err := db.LoadParsedSave("nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown key, got %v %v", missing, err)
	}
}
