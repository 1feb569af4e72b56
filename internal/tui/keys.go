package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextDomain key.Binding
	PrevDomain key.Binding
	NewGame    key.Binding
	Stop       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextDomain: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next domain")),
		PrevDomain: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev domain")),
		NewGame:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new game")),
		Stop:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "end")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextDomain, k.NewGame, k.Stop, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextDomain, k.PrevDomain},
		{k.NewGame, k.Stop, k.Quit},
	}
}
