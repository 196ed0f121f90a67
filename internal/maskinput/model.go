// Package maskinput is a Bubble Tea text input enforcing an edit mask.
package maskinput

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/jaskmask/internal/mask"
)

var lastID int64

func nextID() int { return int(atomic.AddInt64(&lastID, 1)) }

// ChangeMsg is sent when a committed value differs from the previous one.
type ChangeMsg struct {
	ID    int
	Value string
	Raw   string
}

// pasteSettledMsg finishes a paste one update after the raw insertion.
type pasteSettledMsg struct {
	id    int
	token mask.PasteToken
}

type Styles struct {
	Text        lipgloss.Style
	Literal     lipgloss.Style
	Prompt      lipgloss.Style
	Cursor      lipgloss.Style
	Selection   lipgloss.Style
	Placeholder lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")),
		Literal:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9399b2")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("#585b70")),
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#b4befe")),
		Selection:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#f5c2e7")),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")).Italic(true),
	}
}

// Model wraps a mask.Field. The zero value is not usable; call New.
type Model struct {
	id          int
	field       *mask.Field
	KeyMap      KeyMap
	Styles      Styles
	Placeholder string
	Log         zerolog.Logger
}

func New(opts mask.Options) Model {
	return Model{
		id:     nextID(),
		field:  mask.New(opts),
		KeyMap: DefaultKeyMap(),
		Styles: DefaultStyles(),
		Log:    zerolog.Nop(),
	}
}

func (m Model) ID() int { return m.id }
func (m Model) Field() *mask.Field { return m.field }
func (m Model) Value() string { return m.field.Value() }
func (m Model) Raw() string { return m.field.Raw() }
func (m Model) Submitted() string { return m.field.Submitted() }
func (m Model) Complete() bool { return m.field.Complete() }
func (m Model) Focused() bool { return m.field.Focused() }
func (m *Model) SetValue(v string) { m.field.SetValue(v) }
func (m *Model) Configure(opts mask.Options) { m.field.Configure(opts) }

func (m *Model) Focus() { m.field.Focus() }

// Blur leaves the input and reports a change, if any, as a ChangeMsg.
func (m *Model) Blur() tea.Cmd {
	if m.field.Blur() {
		return m.changed()
	}
	return nil
}

func (m Model) changed() tea.Cmd {
	msg := ChangeMsg{ID: m.id, Value: m.field.Value(), Raw: m.field.Raw()}
	return func() tea.Msg { return msg }
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pasteSettledMsg:
		if msg.id != m.id {
			return m, nil
		}
		if !m.field.CompletePaste(msg.token) {
			m.Log.Debug().Int("input", m.id).Msg("paste superseded")
			return m, nil
		}
		m.Log.Debug().Int("input", m.id).Str("value", m.field.Value()).Msg("paste settled")
		return m, nil

	case tea.KeyMsg:
		if !m.field.Focused() {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := m.field
	if msg.Paste {
		tok := f.BeginPaste(string(msg.Runes))
		id := m.id
		return m, func() tea.Msg { return pasteSettledMsg{id: id, token: tok} }
	}

	switch {
	case key.Matches(msg, m.KeyMap.Left):
		f.Left()
	case key.Matches(msg, m.KeyMap.Right):
		f.Right()
	case key.Matches(msg, m.KeyMap.Home):
		f.Home()
	case key.Matches(msg, m.KeyMap.End):
		f.End()
	case key.Matches(msg, m.KeyMap.Backspace):
		f.Backspace()
	case key.Matches(msg, m.KeyMap.Delete):
		f.Delete()
	case key.Matches(msg, m.KeyMap.DeleteBefore):
		v := []rune(f.Value())
		f.Reconcile(string(v[min(f.Caret(), len(v)):]), 0)
	case key.Matches(msg, m.KeyMap.DeleteAfter):
		v := []rune(f.Value())
		caret := min(f.Caret(), len(v))
		f.Reconcile(string(v[:caret]), caret)
	case key.Matches(msg, m.KeyMap.SelectAll):
		f.SelectAll()
	case key.Matches(msg, m.KeyMap.Commit):
		if f.Commit() {
			return m, m.changed()
		}
	default:
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace:
			for _, r := range msg.Runes {
				f.Type(r)
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	f := m.field
	display := []rune(f.Display())
	if len(display) == 0 && !f.Focused() {
		if m.Placeholder == "" {
			return ""
		}
		return m.Styles.Placeholder.Render(m.Placeholder)
	}

	msk := f.Mask()
	start, end := f.Selection()
	var b strings.Builder
	for i, r := range display {
		style := m.Styles.Text
		if tok, ok := msk.Token(i); ok {
			switch {
			case !tok.Editable():
				style = m.Styles.Literal
			case r == msk.Prompt():
				style = m.Styles.Prompt
			}
		}
		if f.Focused() {
			if start == end && i == start {
				style = m.Styles.Cursor
			} else if i >= start && i < end {
				style = m.Styles.Selection
			}
		}
		b.WriteString(style.Render(string(r)))
	}
	if f.Focused() && start == end && start >= len(display) {
		b.WriteString(m.Styles.Cursor.Render(" "))
	}
	return b.String()
}
