package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Refresh  key.Binding
	Filter   key.Binding
	Clear    key.Binding
	Create   key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Open     key.Binding
	Back     key.Binding

	// dialogs and forms
	Submit    key.Binding
	Confirm   key.Binding
	Deny      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Toggle    key.Binding
	Left      key.Binding
	Right     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextPage: key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "prev page")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Clear:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filter")),
		Create:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),

		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Confirm:   key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
		Deny:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Left:      key.NewBinding(key.WithKeys("left")),
		Right:     key.NewBinding(key.WithKeys("right")),
	}
}

// listHelp is the key help of a list screen.
type listHelp struct {
	keys      keyMap
	canCreate bool
	canOpen   bool
}

func (h listHelp) ShortHelp() []key.Binding {
	res := []key.Binding{h.keys.Up, h.keys.Down, h.keys.PrevPage, h.keys.NextPage, h.keys.Filter, h.keys.Edit, h.keys.Delete}
	if h.canCreate {
		res = append(res, h.keys.Create)
	}
	if h.canOpen {
		res = append(res, h.keys.Open)
	}
	return append(res, h.keys.NextTab, h.keys.Help, h.keys.Quit)
}

func (h listHelp) FullHelp() [][]key.Binding {
	open := h.keys.Open
	open.SetEnabled(h.canOpen)
	create := h.keys.Create
	create.SetEnabled(h.canCreate)

	return [][]key.Binding{
		{h.keys.Up, h.keys.Down, h.keys.PrevPage, h.keys.NextPage, h.keys.Refresh},
		{h.keys.Filter, h.keys.Clear, open},
		{create, h.keys.Edit, h.keys.Delete},
		{h.keys.NextTab, h.keys.PrevTab, h.keys.Help, h.keys.Quit},
	}
}

// formHelp is the key help of an open edit or create dialog.
type formHelp struct{ keys keyMap }

func (h formHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.NextField, h.keys.PrevField, h.keys.Toggle, h.keys.Submit, h.keys.Deny}
}

func (h formHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

// confirmHelp is the key help of the delete confirmation.
type confirmHelp struct{ keys keyMap }

func (h confirmHelp) ShortHelp() []key.Binding { return []key.Binding{h.keys.Confirm, h.keys.Deny} }

func (h confirmHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }
