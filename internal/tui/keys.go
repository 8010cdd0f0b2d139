package tui

import "github.com/charmbracelet/bubbles/key"

// globalKeys work in both panes. Add, edit and delete belong to the focused
// component, which reports its own bindings.
type globalKeys struct {
	NextPane key.Binding
	PrevPane key.Binding
	Weighted key.Binding
	ClearAll key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newGlobalKeys() globalKeys {
	bind := func(help, desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
	}
	return globalKeys{
		NextPane: bind("tab", "next pane", "tab"),
		PrevPane: bind("shift+tab", "prev pane", "shift+tab"),
		Weighted: bind("w", "weighted on/off", "w"),
		ClearAll: bind("R", "clear all", "R"),
		Help:     bind("?", "more keys", "?"),
		Quit:     bind("q", "save & quit", "q", "ctrl+c"),
	}
}
