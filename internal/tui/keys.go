package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Up       key.Binding
	Down     key.Binding
	Reload   key.Binding
	PrevYear key.Binding
	NextYear key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	JumpPage key.Binding
	Open     key.Binding
	Back     key.Binding
	Filter   key.Binding
	Clear    key.Binding
	Add      key.Binding
	Give     key.Binding
	Delete   key.Binding
	Close    key.Binding
	Theme    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab:  key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev tab")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		PrevYear: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev year")),
		NextYear: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next year")),
		NextPage: key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev page")),
		JumpPage: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to page")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Filter:   key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f", "filter")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Give:     key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "contribute")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Close:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close period")),
		Theme:    key.NewBinding(key.WithKeys("enter", "t"), key.WithHelp("enter", "change theme")),
	}
}

// tabKeys returns the bindings shown in the status bar for tab.
func (k keyMap) tabKeys(tab int) []key.Binding {
	common := []key.Binding{k.NextTab, k.Help, k.Quit}
	var specific []key.Binding
	switch tab {
	case 0:
		specific = []key.Binding{k.PrevYear, k.NextYear, k.Reload}
	case 1:
		specific = []key.Binding{k.Open, k.NextPage, k.PrevPage, k.JumpPage, k.Filter, k.Add}
	case 2:
		specific = []key.Binding{k.Close, k.Reload}
	case 3:
		specific = []key.Binding{k.Add, k.Give, k.Delete}
	case 4:
		specific = []key.Binding{k.Theme}
	}
	return append(specific, common...)
}
