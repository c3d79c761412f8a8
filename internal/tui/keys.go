package tui

import "github.com/charmbracelet/bubbles/key"

// browserKeys are the save browser's bindings. Printable keys belong to the
// filter input, so every action sits on a control or navigation key.
type browserKeys struct {
	Prev         key.Binding
	Next         key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	JumpToHit    key.Binding
	CycleKind    key.Binding
	ValidOnly    key.Binding
	CopyChecksum key.Binding
	CopyPath     key.Binding
	Quit         key.Binding
}

func newBrowserKeys(mode tuiMode) browserKeys {
	k := browserKeys{
		Prev:         key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev")),
		Next:         key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		ScrollUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("C-u", "report up")),
		ScrollDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("C-d", "report down")),
		JumpToHit:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("C-g", "to match")),
		CycleKind:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "boss/key")),
		ValidOnly:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "valid only")),
		CopyChecksum: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "copy checksum")),
		CopyPath:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("C-y", "copy path")),
		Quit:         key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
	// listings have no matched row and no kind to filter on
	if mode == modeList {
		k.JumpToHit.SetEnabled(false)
		k.CycleKind.SetEnabled(false)
	}
	return k
}

// ShortHelp lists the bindings shown in the status line.
func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.CopyChecksum, k.CopyPath, k.CycleKind, k.ValidOnly, k.JumpToHit, k.Quit}
}

func (k browserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.ScrollUp, k.ScrollDown},
		k.ShortHelp(),
	}
}
