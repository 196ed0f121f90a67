// Package tui runs a configured form of masked inputs.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/jaskmask/internal/config"
	"github.com/jask/jaskmask/internal/database/repository"
	"github.com/jask/jaskmask/internal/mask"
	"github.com/jask/jaskmask/internal/maskinput"
	"github.com/jask/jaskmask/internal/prefs"
	"github.com/jask/jaskmask/internal/service"
)

const historyLimit = 10

// App is the form screen: one masked input per configured field.
type App struct {
	ctx    context.Context
	form   config.Form
	inputs []maskinput.Model
	focus  int
	submit *service.SubmitService
	log    zerolog.Logger

	keys keyMap
	help help.Model

	status      string
	statusErr   bool
	showHistory bool
	history     []repository.Submission
	width       int

	// SaveDraft persists the masked field values on quit. Nil disables drafts.
	SaveDraft func(form string, d prefs.Draft) error
}

type Options struct {
	Form    config.Form
	UI      config.UIConfig
	Numbers mask.NumberFormatter
	Submit  *service.SubmitService
	Log     zerolog.Logger
}

// New builds the form. The first field starts focused.
func New(ctx context.Context, opts Options) (*App, error) {
	if len(opts.Form.Fields) == 0 {
		return nil, fmt.Errorf("form %q has no fields", opts.Form.Name)
	}
	a := &App{
		ctx:    ctx,
		form:   opts.Form,
		submit: opts.Submit,
		log:    opts.Log.With().Str("form", opts.Form.Name).Logger(),
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	for _, fd := range opts.Form.Fields {
		mo, err := opts.Form.MaskOptions(fd, opts.UI, opts.Numbers)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fd.Name, err)
		}
		in := maskinput.New(mo)
		in.Placeholder = fd.Label
		in.Log = a.log.With().Str("field", fd.Name).Logger()
		a.inputs = append(a.inputs, in)
	}
	a.inputs[0].Focus()
	return a, nil
}

// RestoreDraft assigns the masked values of d to the matching fields.
func (a *App) RestoreDraft(d prefs.Draft) {
	for i, fd := range a.form.Fields {
		if v, ok := d[fd.Name]; ok {
			a.inputs[i].SetValue(v)
		}
	}
}

func (a *App) draft() prefs.Draft {
	d := make(prefs.Draft, len(a.inputs))
	for i, fd := range a.form.Fields {
		d[fd.Name] = a.inputs[i].Value()
	}
	return d
}

func (a *App) snapshot() []service.FieldValue {
	out := make([]service.FieldValue, len(a.inputs))
	for i, fd := range a.form.Fields {
		out[i] = service.Snapshot(fd.Name, a.inputs[i].Field())
	}
	return out
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.help.Width = m.Width
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(m, a.keys.Quit):
			a.saveDraft()
			return a, tea.Quit
		case key.Matches(m, a.keys.Next):
			return a, a.moveFocus(1)
		case key.Matches(m, a.keys.Prev):
			return a, a.moveFocus(-1)
		case key.Matches(m, a.keys.Submit):
			a.setStatus("submitting...")
			return a, a.submitCmd()
		case key.Matches(m, a.keys.Reset):
			a.reset()
			return a, nil
		case key.Matches(m, a.keys.History):
			a.showHistory = !a.showHistory
			if a.showHistory {
				return a, a.loadHistory()
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.inputs[a.focus], cmd = a.inputs[a.focus].Update(m)
		return a, cmd

	case maskinput.ChangeMsg:
		for i, in := range a.inputs {
			if in.ID() == m.ID {
				name := a.form.Fields[i].Name
				a.log.Debug().Str("field", name).Str("value", m.Value).Msg("field changed")
				a.setStatus(fmt.Sprintf("%s: %s", name, m.Value))
			}
		}
		return a, nil

	case submittedMsg:
		state := "incomplete"
		if m.sub.Complete {
			state = "complete"
		}
		a.log.Info().Str("submission", m.sub.ID).Bool("complete", m.sub.Complete).Msg("form submitted")
		a.setStatus(fmt.Sprintf("submitted (%s)", state))
		if a.showHistory {
			return a, a.loadHistory()
		}
		return a, nil

	case historyMsg:
		a.history = []repository.Submission(m)
		return a, nil

	case errMsg:
		a.log.Error().Err(m.error).Msg("form error")
		a.status = "error: " + m.Error()
		a.statusErr = true
		return a, nil
	}

	// Paste completions and other input-internal messages carry their own
	// input id, so every input sees them.
	var cmds []tea.Cmd
	for i := range a.inputs {
		var cmd tea.Cmd
		a.inputs[i], cmd = a.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) moveFocus(delta int) tea.Cmd {
	cmd := a.inputs[a.focus].Blur()
	a.focus = (a.focus + delta + len(a.inputs)) % len(a.inputs)
	a.inputs[a.focus].Focus()
	return cmd
}

func (a *App) reset() {
	for i, fd := range a.form.Fields {
		a.inputs[i].SetValue(fd.Value)
	}
	a.setStatus("form reset")
}

func (a *App) saveDraft() {
	if a.SaveDraft == nil {
		return
	}
	if err := a.SaveDraft(a.form.Name, a.draft()); err != nil {
		a.log.Error().Err(err).Msg("save draft")
	}
}

// commands
func (a *App) submitCmd() tea.Cmd {
	if a.submit == nil {
		return func() tea.Msg { return errMsg{errors.New("submissions not configured")} }
	}
	ctx, svc, name, values := a.ctx, a.submit, a.form.Name, a.snapshot()
	return func() tea.Msg {
		sub, err := svc.Submit(ctx, name, values)
		if err != nil {
			return errMsg{err}
		}
		return submittedMsg{sub: sub}
	}
}

func (a *App) loadHistory() tea.Cmd {
	if a.submit == nil {
		return func() tea.Msg { return errMsg{errors.New("submissions not configured")} }
	}
	ctx, svc, name := a.ctx, a.submit, a.form.Name
	return func() tea.Msg {
		subs, err := svc.History(ctx, name, historyLimit)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(subs)
	}
}

type submittedMsg struct {
	sub repository.Submission
}

type historyMsg []repository.Submission

type errMsg struct{ error }
