package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/titansave/internal/index"
	"github.com/Zuo-Peng/titansave/internal/render"
	"github.com/Zuo-Peng/titansave/internal/search"
)

// previewMsg carries a report rendered off the update loop.
type previewMsg struct {
	id      string
	content string
	hitLine int
	err     error
}

// previewID names what a preview shows: a save, plus the progress row that
// matched when the result came from a search.
func previewID(r search.Result) string {
	if r.Kind == "" {
		return r.SaveKey
	}
	return fmt.Sprintf("%s#%s%d", r.SaveKey, r.Kind, r.Seq)
}

func renderPreview(db *index.DB, r search.Result, query string, width int) tea.Cmd {
	id := previewID(r)
	opts := render.Options{Width: width, Query: query}
	if r.Kind != "" {
		opts.Hit = &render.Hit{Kind: r.Kind, Seq: r.Seq}
	}
	return func() tea.Msg {
		content, hitLine, err := render.RenderIndexed(db, r.SaveKey, opts)
		return previewMsg{id: id, content: content, hitLine: hitLine, err: err}
	}
}

// jumpToHit scrolls the report so the matched row sits a third of the way
// down the panel.
func (m *model) jumpToHit() {
	if m.hitLine < 0 {
		return
	}
	m.preview.SetYOffset(max(m.hitLine-m.preview.Height/3, 0))
}
