package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/titansave/internal/render"
	"github.com/Zuo-Peng/titansave/internal/savefile"
	"github.com/Zuo-Peng/titansave/internal/search"
)

// linesPerItem is the number of terminal lines each save occupies.
const linesPerItem = 2

// renderList draws the visible slice of results, padded to height.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		msg := "No saves"
		if m.mode == modeSearch && m.filter.Query == "" {
			msg = "Type a boss or key"
		}
		return mutedStyle.Width(width).Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(msg)
	}

	lines := make([]string, 0, height)
	for i := m.offset; i < len(m.results) && len(lines)+linesPerItem <= height; i++ {
		lines = append(lines, listRows(m.results[i], width, i == m.cursor)...)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// listRows formats one save:
//
//	> 03-14 TitanSouls:slot1.sav
//	    boss #2 Yeti · 7 deaths · 1:02:03 · 3 bosses · 2 keys
func listRows(r search.Result, width int, selected bool) []string {
	date := "--.--"
	if r.Mtime > 0 {
		date = time.Unix(r.Mtime, 0).Format("01-02")
	}

	marker := "  "
	if selected {
		marker = cursorStyle.Render("> ")
	}
	title := runewidth.Truncate(date+" "+r.SaveKey, max(width-2, 0), "…")
	summary := runewidth.Truncate(saveSummary(r), max(width-4, 0), "…")

	return []string{
		marker + title,
		"    " + progressStyle(r.Kind, r.Valid).Render(summary),
	}
}

// saveSummary names the matched boss or key, if any, then the save's totals.
func saveSummary(r search.Result) string {
	if !r.Valid {
		return "invalid save"
	}

	parts := make([]string, 0, 5)
	if r.Kind != "" {
		parts = append(parts, fmt.Sprintf("%s #%d %s", r.Kind, r.Seq+1, r.Ident))
	}

	deaths := "? deaths"
	if r.Deaths != savefile.NotFound {
		deaths = plural(r.Deaths, "death", "deaths")
	}
	played := "-:--:--"
	if r.TimePlayedRaw >= 0 {
		played = render.FormatDuration((&savefile.ParsedSave{TimePlayedRaw: r.TimePlayedRaw}).TimePlayed())
	}

	parts = append(parts, deaths, played,
		plural(r.Bosses, "boss", "bosses"),
		plural(r.Keys, "key", "keys"))
	return strings.Join(parts, " · ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// scrollToCursor moves the list window so the cursor stays visible.
func (m *model) scrollToCursor() {
	visible := m.geo.visibleItems()
	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+visible:
		m.offset = m.cursor - visible + 1
	}
}
