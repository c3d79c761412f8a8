package savefile

import (
	"strings"
	"unicode/utf8"
)

// checksumLen is the length in characters of an MD5 hex digest. The checksum
// line is only measured, never verified, so any alphabet is accepted.
const checksumLen = 32

// Split separates the trailing checksum line from the markup payload. The
// payload is the remaining lines joined without separators. A save whose last
// line, trimmed, is not exactly checksumLen characters long is reported invalid
// with empty checksum and payload.
func Split(content string) SplitResult {
	rows := strings.Split(content, "\n")
	if len(rows) == 0 {
		return SplitResult{}
	}

	last := strings.TrimSpace(rows[len(rows)-1])
	if utf8.RuneCountInString(last) != checksumLen {
		return SplitResult{}
	}

	return SplitResult{
		Checksum: last,
		Payload:  strings.Join(rows[:len(rows)-1], ""),
		Valid:    true,
	}
}
