package open

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/titansave/internal/index"
)

// OpenSave opens the file behind saveKey in $EDITOR, at the checksum line
// when atChecksum is set.
func OpenSave(db *index.DB, saveKey string, atChecksum bool) error {
	save, err := db.GetSaveByKey(saveKey)
	if err != nil {
		return fmt.Errorf("get save: %w", err)
	}
	if save == nil {
		return fmt.Errorf("save not found: %s", saveKey)
	}

	filePath := save.FilePath
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read save: %w", err)
	}

	lineNum := 1
	if atChecksum {
		lineNum = checksumLine(raw)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return openInEditor(editor, filePath, lineNum)
}

// checksumLine returns the 1-based number of the last line, where the
// checksum lives.
func checksumLine(raw []byte) int {
	return bytes.Count(raw, []byte{'\n'}) + 1
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}

func openInEditor(editor, filePath string, lineNum int) error {
	cmd := editorCommand(editor, filePath, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
