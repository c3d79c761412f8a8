package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/titansave/internal/index"
	"github.com/Zuo-Peng/titansave/internal/savefile"
)

const (
	colorReset   = "\033[0m"
	colorLabel   = "\033[1;34m" // bold blue
	colorBoss    = "\033[1;32m" // bold green
	colorKey     = "\033[1;33m" // bold yellow
	colorDim     = "\033[2m"
	colorBad     = "\033[1;31m" // bold red
	colorBoldRed = "\033[1;31m" // keyword highlights
)

type Options struct {
	Width   int    // wrap width (0 = no wrap)
	Query   string // highlighted in boss and key identifiers
	NoColor bool
	Hit     *Hit // row to mark, nil for none
}

// Hit identifies one boss or key row of a report.
type Hit struct {
	Kind string // index.KindBoss or index.KindKey
	Seq  int
}

func (h *Hit) is(kind string, seq int) bool {
	return h != nil && h.Kind == kind && h.Seq == seq
}

// highlightKeywords wraps case-insensitive matches of query in bold red ANSI
// codes. Matching is done rune by rune on the original text, so case folding
// never shifts byte offsets.
func highlightKeywords(text, query string) string {
	n := utf8.RuneCountInString(query)
	if n == 0 {
		return text
	}

	var b strings.Builder
	for i := 0; i < len(text); {
		if end := runePrefixLen(text[i:], n); end > 0 && strings.EqualFold(text[i:i+end], query) {
			b.WriteString(colorBoldRed + text[i:i+end] + colorReset)
			i += end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}

// runePrefixLen returns the byte length of the first n runes of s, or -1 if
// s is shorter than n runes.
func runePrefixLen(s string, n int) int {
	i := 0
	for ; n > 0; n-- {
		if i >= len(s) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// stripANSI removes the escape sequences this package emits.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// FormatDuration prints d as h:mm:ss.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// RenderSave renders a parsed save as a text report.
func RenderSave(title string, save *savefile.ParsedSave, opts Options) string {
	out, _ := renderSave(title, save, opts)
	return out
}

// renderSave also returns the 0-based output line of opts.Hit, or -1.
func renderSave(title string, save *savefile.ParsedSave, opts Options) (string, int) {
	var b strings.Builder
	lines := 0
	hitLine := -1

	writeLine := func(s string) {
		if opts.NoColor {
			s = stripANSI(s)
		}
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lines++
		}
	}
	field := func(label, value string) {
		writeLine(fmt.Sprintf("%s%-10s%s %s", colorLabel, label, colorReset, value))
	}

	writeLine(fmt.Sprintf("%s--- %s ---%s", colorDim, title, colorReset))
	if save.Path != "" {
		field("file", save.Path)
	}

	if !save.Valid {
		field("status", colorBad+"invalid (no checksum line)"+colorReset)
		return b.String(), hitLine
	}
	field("status", "valid")
	field("checksum", colorDim+save.Checksum+colorReset)

	if save.HasTimePlayed() {
		field("played", fmt.Sprintf("%s %s(%d ticks)%s", FormatDuration(save.TimePlayed()), colorDim, save.TimePlayedRaw, colorReset))
	} else {
		field("played", colorDim+"-"+colorReset)
	}
	if save.HasDeaths() {
		field("deaths", fmt.Sprintf("%d", save.Deaths))
	} else {
		field("deaths", colorDim+"-"+colorReset)
	}

	writeLine("")
	switch {
	case !save.HasKills():
		field("bosses", colorDim+"(no kills recorded)"+colorReset)
	case save.KillsDeclared >= 0 && save.KillsDeclared != len(save.BossesSlain):
		field("bosses", fmt.Sprintf("%d %s(declared %d)%s", len(save.BossesSlain), colorDim, save.KillsDeclared, colorReset))
	default:
		field("bosses", fmt.Sprintf("%d", len(save.BossesSlain)))
	}
	for i, id := range save.BossesSlain {
		hit := opts.Hit.is(index.KindBoss, i)
		if hit {
			hitLine = lines
		}
		writeLine(progressRow(i, id, colorBoss, hit, opts.Query))
	}

	if !save.HasKeys() {
		field("keys", colorDim+"(none encountered)"+colorReset)
	} else {
		field("keys", fmt.Sprintf("%d", len(save.KeysUnlocked)))
	}
	for i, id := range save.KeysUnlocked {
		hit := opts.Hit.is(index.KindKey, i)
		if hit {
			hitLine = lines
		}
		writeLine(progressRow(i, id, colorKey, hit, opts.Query))
	}

	return b.String(), hitLine
}

// progressRow formats one numbered boss or key line.
func progressRow(i int, id, color string, hit bool, query string) string {
	marker := "  "
	if hit {
		marker = colorBoldRed + "> " + colorReset
	}
	return fmt.Sprintf("%s%s%2d.%s %s%s%s", marker, colorDim, i+1, colorReset, color, highlightKeywords(id, query), colorReset)
}

// RenderIndexed loads a save from the index and renders it. The second
// result is the report line of opts.Hit, or -1.
func RenderIndexed(db *index.DB, saveKey string, opts Options) (string, int, error) {
	save, err := db.LoadParsedSave(saveKey)
	if err != nil {
		return "", -1, err
	}
	if save == nil {
		return "", -1, fmt.Errorf("save not found: %s", saveKey)
	}
	out, hitLine := renderSave(saveKey, save, opts)
	return out, hitLine, nil
}
