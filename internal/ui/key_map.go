package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	next    key.Binding
	submit  key.Binding
	dismiss key.Binding
	logout  key.Binding
	more    key.Binding
	less    key.Binding
	add     key.Binding
	remove  key.Binding
	reload  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field")),
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		logout:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		more:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "one more")),
		less:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "one less")),
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add flavor")),
		remove:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete flavor")),
		reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.next, k.submit},
		{k.more, k.less, k.add, k.remove, k.reload},
		{k.dismiss, k.logout, k.quit},
	}
}
