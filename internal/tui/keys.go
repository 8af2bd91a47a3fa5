package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	QuitList  key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Delete    key.Binding
	Filter    key.Binding
	Focus     key.Binding
	Add       key.Binding
	Go        key.Binding
	Back      key.Binding
	Settings  key.Binding
	Reopen    key.Binding
	Swipe     key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Hide      key.Binding
	Refresh   key.Binding
	Clear     key.Binding
	Cancel    key.Binding
	Confirm   key.Binding
	Allow     key.Binding
	DontAllow key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		QuitList:  key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "use link")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Focus:     key.NewBinding(key.WithKeys("i", "tab"), key.WithHelp("i", "type link")),
		Add:       key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add")),
		Go:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go")),
		Back:      key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "back")),
		Settings:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "location settings")),
		Reopen:    key.NewBinding(key.WithKeys("ctrl+right"), key.WithHelp("ctrl+→", "reopen page")),
		Swipe:     key.NewBinding(key.WithKeys("esc", "ctrl+left"), key.WithHelp("esc", "close menu")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", " ", "f"), key.WithHelp("pgdn", "page down")),
		Hide:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear cache and close")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Allow:     key.NewBinding(key.WithKeys("y", "a"), key.WithHelp("y", "allow")),
		DontAllow: key.NewBinding(key.WithKeys("n", "d"), key.WithHelp("n", "don't allow")),
	}
}

func (k keyMap) listHelp(settings, reopen bool) []key.Binding {
	out := []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.Filter, k.Focus}
	if settings {
		out = append(out, k.Settings)
	}
	if reopen {
		out = append(out, k.Reopen)
	}
	return append(out, k.QuitList)
}

func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Go, k.Add, k.Back}
}

func (k keyMap) filterHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Back}
}

func (k keyMap) webViewHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Swipe}
}

func (k keyMap) menuHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Confirm, k.Hide, k.Refresh, k.Clear, k.Cancel}
}
