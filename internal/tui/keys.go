package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PrevBrush key.Binding
	NextBrush key.Binding
	Paint     key.Binding
	Erase     key.Binding
	Pause     key.Binding
	Minimap   key.Binding
	Copy      key.Binding
	Save      key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "right")),
		PrevBrush: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev brush")),
		NextBrush: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next brush")),
		Paint:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "paint")),
		Erase:     key.NewBinding(key.WithKeys("x", "backspace", "delete"), key.WithHelp("x", "erase")),
		Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Minimap:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimap")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Paint, k.Erase, k.Pause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PrevBrush, k.NextBrush, k.Paint, k.Erase},
		{k.Pause, k.Minimap, k.Copy},
		{k.Save, k.Reload, k.Help, k.Quit},
	}
}
