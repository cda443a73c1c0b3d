package canvas

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the canvas keybindings, grouped for the help bubble.
type keyMap struct {
	Fit    key.Binding
	Center key.Binding
	Add    key.Binding
	Delete key.Binding
	Unpin  key.Binding
	Search key.Binding
	Save   key.Binding
	Escape key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Fit:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit view")),
		Center: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "center selected")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add node")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete selected")),
		Unpin:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unpin all")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Save:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write file")),
		Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Add, k.Fit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fit, k.Center, k.Unpin},
		{k.Add, k.Delete, k.Save},
		{k.Search, k.Escape, k.Quit},
	}
}
