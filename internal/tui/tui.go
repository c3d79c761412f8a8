package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/titansave/internal/index"
	"github.com/Zuo-Peng/titansave/internal/search"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota // bosses and keys matching the filter
	modeList                  // every save, filtered on its key
)

type copyTarget int

const (
	copyNone copyTarget = iota
	copyChecksum
	copyPath
)

// resultsMsg answers a fetch. gen is the filter generation it was issued
// for; replies to older generations are dropped.
type resultsMsg struct {
	gen     int
	results []search.Result
	err     error
}

// refreshMsg fires once typing has paused for debounceDelay.
type refreshMsg struct {
	gen int
}

type model struct {
	db     *index.DB
	mode   tuiMode
	keys   browserKeys
	filter search.Options
	gen    int

	input   textinput.Model
	help    help.Model
	preview viewport.Model
	shown   string // previewID of the report in the preview
	hitLine int    // report line of the matched row, -1 for none

	results []search.Result
	cursor  int
	offset  int

	geo          layout
	previewFocus bool
	ready        bool
	quitting     bool

	chosen *search.Result
	target copyTarget
}

func newModel(db *index.DB, mode tuiMode, query string, opts search.Options) model {
	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = promptStyle
	in.TextStyle = promptStyle
	in.Placeholder = "Boss or key..."
	if mode == modeList {
		in.Placeholder = "Filter saves..."
	}
	in.CharLimit = 256
	in.SetValue(query)
	in.Focus()

	opts.Query = query
	return model{
		db:      db,
		mode:    mode,
		keys:    newBrowserKeys(mode),
		filter:  opts,
		input:   in,
		help:    help.New(),
		preview: viewport.New(0, 0),
		hitLine: -1,
		geo:     layoutFor(0, 0),
	}
}

// Run browses the saves whose bosses or keys match query.
func Run(db *index.DB, query string, opts search.Options) error {
	return runProgram(db, newModel(db, modeSearch, query, opts))
}

// RunList browses every indexed save, newest first.
func RunList(db *index.DB, opts search.Options) error {
	return runProgram(db, newModel(db, modeList, "", opts))
}

func runProgram(db *index.DB, m model) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	fm := final.(model)
	if fm.chosen == nil {
		return nil
	}
	return copyChosen(db, fm.chosen.SaveKey, fm.target)
}

// copyChosen puts the checksum or file path of a save on the clipboard. It
// prints the value instead when no clipboard is available.
func copyChosen(db *index.DB, saveKey string, target copyTarget) error {
	save, err := db.GetSaveByKey(saveKey)
	if err != nil {
		return fmt.Errorf("get save: %w", err)
	}
	if save == nil {
		return fmt.Errorf("save not found: %s", saveKey)
	}

	text := save.FilePath
	if target == copyChecksum && save.Checksum != "" {
		text = save.Checksum
	}
	if err := clipboard.WriteAll(text); err != nil {
		fmt.Println(text)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", text)
	return nil
}

func (m model) Init() tea.Cmd {
	if m.mode == modeSearch && m.filter.Query == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.fetch())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.geo = layoutFor(msg.Width, msg.Height)
		m.preview.Width = m.geo.previewW
		m.preview.Height = m.geo.bodyH
		m.help.Width = msg.Width
		m.ready = true
		// reports are wrapped to the panel, so they must be rendered again
		m.shown = ""
		m.scrollToCursor()
		return m, m.loadPreview()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case refreshMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m, m.fetch()

	case resultsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.results, m.cursor, m.offset = msg.results, 0, 0
		m.shown, m.hitLine = "", -1
		switch {
		case msg.err != nil:
			m.results = nil
			m.preview.SetContent("Error: " + msg.err.Error())
		case len(m.results) == 0:
			m.preview.SetContent("")
		}
		return m, m.loadPreview()

	case previewMsg:
		r, ok := m.current()
		if !ok || previewID(r) != msg.id {
			return m, nil
		}
		m.shown = msg.id
		if msg.err != nil {
			m.hitLine = -1
			m.preview.SetContent("Preview error: " + msg.err.Error())
			return m, nil
		}
		m.hitLine = msg.hitLine
		m.preview.SetContent(msg.content)
		m.preview.GotoTop()
		m.jumpToHit()
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.CopyChecksum):
		return m.choose(copyChecksum)
	case key.Matches(msg, m.keys.CopyPath):
		return m.choose(copyPath)
	case key.Matches(msg, m.keys.Prev):
		return m.selectItem(m.cursor - 1)
	case key.Matches(msg, m.keys.Next):
		return m.selectItem(m.cursor + 1)
	case key.Matches(msg, m.keys.ScrollUp):
		m.previewFocus = true
		m.preview.LineUp(max(m.geo.bodyH/2, 1))
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.previewFocus = true
		m.preview.LineDown(max(m.geo.bodyH/2, 1))
		return m, nil
	case key.Matches(msg, m.keys.JumpToHit):
		m.jumpToHit()
		return m, nil
	case key.Matches(msg, m.keys.CycleKind):
		m.filter.Kind = nextKind(m.filter.Kind)
		return m.refilter()
	case key.Matches(msg, m.keys.ValidOnly):
		m.filter.ValidOnly = !m.filter.ValidOnly
		return m.refilter()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != m.filter.Query {
		m.filter.Query = q
		m.gen++
		gen := m.gen
		return m, tea.Batch(cmd, tea.Tick(debounceDelay, func(time.Time) tea.Msg {
			return refreshMsg{gen: gen}
		}))
	}
	return m, cmd
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	where, row := m.geo.locate(msg.X, msg.Y)
	switch where {
	case areaList:
		m.previewFocus = false
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			return m.selectItem(m.cursor - 1)
		case msg.Button == tea.MouseButtonWheelDown:
			return m.selectItem(m.cursor + 1)
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			return m.selectItem(m.offset + row/linesPerItem)
		}
	case areaPreview:
		m.previewFocus = true
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// nextKind cycles the kind filter: both, bosses, keys.
func nextKind(kind string) string {
	switch kind {
	case "":
		return index.KindBoss
	case index.KindBoss:
		return index.KindKey
	}
	return ""
}

// refilter starts a new generation and fetches it without debouncing.
func (m model) refilter() (tea.Model, tea.Cmd) {
	m.gen++
	return m, m.fetch()
}

func (m model) choose(target copyTarget) (tea.Model, tea.Cmd) {
	r, ok := m.current()
	if !ok {
		return m, nil
	}
	m.chosen = &r
	m.target = target
	m.quitting = true
	return m, tea.Quit
}

func (m model) selectItem(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.results) || i == m.cursor {
		return m, nil
	}
	m.cursor = i
	m.previewFocus = false
	m.scrollToCursor()
	return m, m.loadPreview()
}

func (m model) current() (search.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return search.Result{}, false
	}
	return m.results[m.cursor], true
}

// fetch queries the index for the current filter generation.
func (m model) fetch() tea.Cmd {
	db, mode, opts, gen := m.db, m.mode, m.filter, m.gen
	return func() tea.Msg {
		var results []search.Result
		var err error
		switch {
		case mode == modeList:
			results, err = search.ListAll(db, opts)
		case opts.Query != "":
			results, err = search.Search(db, opts)
		}
		return resultsMsg{gen: gen, results: results, err: err}
	}
}

func (m model) loadPreview() tea.Cmd {
	r, ok := m.current()
	if !ok || previewID(r) == m.shown {
		return nil
	}
	query := ""
	if m.mode == modeSearch {
		query = m.filter.Query
	}
	return renderPreview(m.db, r, query, m.geo.previewW)
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	list := panel(!m.previewFocus).
		Width(m.geo.listW).
		Height(m.geo.bodyH).
		Render(m.renderList(m.geo.listW, m.geo.bodyH))
	report := panel(m.previewFocus).
		Width(m.geo.previewW).
		Height(m.geo.bodyH).
		Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.filterRow(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, report),
		m.statusRow(),
	)
}

// filterRow is the input followed by badges for the active filters.
func (m model) filterRow() string {
	badges := []string{m.input.View()}
	switch m.filter.Kind {
	case index.KindBoss:
		badges = append(badges, badgeStyle.Render("bosses"))
	case index.KindKey:
		badges = append(badges, badgeStyle.Render("keys"))
	}
	if m.filter.ValidOnly {
		badges = append(badges, badgeStyle.Render("valid only"))
	}
	return strings.Join(badges, " ")
}

func (m model) statusRow() string {
	count := plural(len(m.results), "save", "saves")
	return statusStyle.Render(count + "  " + m.help.ShortHelpView(m.keys.ShortHelp()))
}
