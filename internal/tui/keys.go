package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/jaskmask/internal/maskinput"
)

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Submit  key.Binding
	Reset   key.Binding
	History key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Reset:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		History: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "history")),
		Quit:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "save draft & quit")),
	}
}

// helpKeys joins the form bindings with the focused input's bindings for
// the footer.
type helpKeys struct {
	form  keyMap
	input maskinput.KeyMap
}

func (h helpKeys) ShortHelp() []key.Binding {
	return append([]key.Binding{h.form.Next, h.form.Submit, h.form.History, h.form.Quit}, h.input.ShortHelp()...)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return append([][]key.Binding{
		{h.form.Next, h.form.Prev},
		{h.form.Submit, h.form.Reset, h.form.History, h.form.Quit},
	}, h.input.FullHelp()...)
}
