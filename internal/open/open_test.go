package open

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Zuo-Peng/titansave/internal/index"
)

func TestChecksumLine(t *testing.T) {
	cases := map[string]int{
		"abc":              1,
		"<a/>\nabc":        2,
		"<a>\n</a>\r\nabc": 3,
		"<a/>\nabc\n":      3,
	}
	for in, want := range cases {
		if got := checksumLine([]byte(in)); got != want {
			t.Errorf("checksumLine(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestEditorCommand(t *testing.T) {
	cases := []struct {
		editor string
		want   []string
	}{
		{"nvim", []string{"nvim", "+4", "s.sav"}},
		{"code", []string{"code", "--goto", "s.sav:4"}},
		{"less", []string{"less", "+4", "s.sav"}},
		{"nano", []string{"nano", "s.sav"}},
	}
	for _, c := range cases {
		cmd := editorCommand(c.editor, "s.sav", 4)
		if !reflect.DeepEqual(cmd.Args, c.want) {
			t.Errorf("editorCommand(%s) args = %v, want %v", c.editor, cmd.Args, c.want)
		}
	}
}

func TestOpenSaveUnknownKey(t *testing.T) {
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	err = OpenSave(db, "nope:slot.sav", false)
	if err == nil || !strings.Contains(err.Error(), "save not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestOpenSaveKeepsReadError(t *testing.T) {
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	root := filepath.Join(t.TempDir(), "saves")
	path := filepath.Join(root, "slot.sav")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("<Deaths count=\"1\"/>\n0123456789abcdef0123456789abcdef"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := index.IndexAll(db, []string{root}, []string{".sav"}); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	err = OpenSave(db, index.SaveKey(root, path), true)
	if !errors.Is(err, fs.ErrNotExist) || !strings.Contains(err.Error(), "read save") {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}
