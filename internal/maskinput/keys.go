package maskinput

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the set of editing keys a masked input responds to. Printable
// runes are typed regardless of the map.
type KeyMap struct {
	Left         key.Binding
	Right        key.Binding
	Home         key.Binding
	End          key.Binding
	Backspace    key.Binding
	Delete       key.Binding
	DeleteBefore key.Binding
	DeleteAfter  key.Binding
	SelectAll    key.Binding
	Commit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:         key.NewBinding(key.WithKeys("left", "ctrl+b"), key.WithHelp("←", "left")),
		Right:        key.NewBinding(key.WithKeys("right", "ctrl+f"), key.WithHelp("→", "right")),
		Home:         key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "start")),
		End:          key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "end")),
		Backspace:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "delete back")),
		Delete:       key.NewBinding(key.WithKeys("delete", "ctrl+d"), key.WithHelp("del", "delete")),
		DeleteBefore: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear to start")),
		DeleteAfter:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "clear to end")),
		SelectAll:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "select all")),
		Commit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Backspace, k.Commit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Home, k.End},
		{k.Backspace, k.Delete, k.DeleteBefore, k.DeleteAfter},
		{k.SelectAll, k.Commit},
	}
}
