package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/jaskmask/internal/config"
	"github.com/jask/jaskmask/internal/database"
	"github.com/jask/jaskmask/internal/database/repository"
	"github.com/jask/jaskmask/internal/mask"
	"github.com/jask/jaskmask/internal/prefs"
	"github.com/jask/jaskmask/internal/service"
	"github.com/jask/jaskmask/internal/testdata"
	"github.com/jask/jaskmask/internal/tui"
)

func listForms(w io.Writer, forms []config.Form) {
	for _, f := range forms {
		fields := make([]string, len(f.Fields))
		for i, fd := range f.Fields {
			fields[i] = fd.Name
		}
		fmt.Fprintf(w, "%-12s %-24s %s\n", f.Name, f.Description, strings.Join(fields, ", "))
	}
}

// showConfig prints the effective settings. With save they are written to
// the config file, so flag and env overrides persist.
func showConfig(w io.Writer, cfg config.Config, save bool) error {
	fmt.Fprintf(w, "database.path        %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "log.path             %s\n", cfg.Log.Path)
	fmt.Fprintf(w, "log.level            %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "ui.locale            %s\n", cfg.UI.Locale)
	fmt.Fprintf(w, "ui.prompt_char       %q\n", cfg.UI.PromptChar)
	fmt.Fprintf(w, "ui.clear_prompt_char %t\n", cfg.UI.ClearPromptChar)
	fmt.Fprintf(w, "ui.unmask_on_post    %t\n", cfg.UI.UnmaskOnPost)
	fmt.Fprintf(w, "forms.path           %s\n", cfg.Forms.Path)
	if !save {
		return nil
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintln(w, "saved")
	return nil
}

// formatValue masks each value with one field of one form and prints the
// display, raw and submitted text.
func formatValue(w io.Writer, forms []config.Form, ui config.UIConfig, numbers mask.NumberFormatter, formName, fieldName string, values []string) error {
	form, err := config.FindForm(forms, formName)
	if err != nil {
		return err
	}
	fd, ok := form.Field(fieldName)
	if !ok {
		return fmt.Errorf("form %s has no field %q", form.Name, fieldName)
	}
	if len(values) == 0 {
		return fmt.Errorf("format: no value given")
	}
	opts, err := form.MaskOptions(fd, ui, numbers)
	if err != nil {
		return err
	}
	f := mask.New(opts)
	for _, v := range values {
		f.SetValue(v)
		state := "incomplete"
		if f.Complete() {
			state = "complete"
		}
		fmt.Fprintf(w, "%s\traw=%s\tsubmitted=%s\t%s\n", f.Display(), f.Raw(), f.Submitted(), state)
	}
	return nil
}

// app holds what the database-backed commands share.
type app struct {
	cfg    config.Config
	forms  []config.Form
	db     *sql.DB
	submit *service.SubmitService
	log    zerolog.Logger
}

func openApp(ctx context.Context, cfg config.Config, forms []config.Form, logger zerolog.Logger) (*app, error) {
	if err := ensureDir(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	catalog := make([]repository.Form, len(forms))
	for i, f := range forms {
		catalog[i] = repository.Form{Name: f.Name, Description: f.Description}
	}
	if err := database.SeedForms(ctx, db, catalog); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed forms: %w", err)
	}
	return &app{
		cfg:    cfg,
		forms:  forms,
		db:     db,
		submit: service.NewSubmitService(db),
		log:    logger,
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close db")
	}
}

func (a *app) history(ctx context.Context, w io.Writer, formName string, limit int, clearAll bool) error {
	form, err := config.FindForm(a.forms, formName)
	if err != nil {
		return err
	}
	if clearAll {
		n, err := a.submit.ClearHistory(ctx, form.Name)
		if err != nil {
			return err
		}
		a.log.Info().Str("form", form.Name).Int64("deleted", n).Msg("history cleared")
		fmt.Fprintf(w, "deleted %d submissions of %s\n", n, form.Name)
		return nil
	}
	subs, err := a.submit.History(ctx, form.Name, limit)
	if err != nil {
		return err
	}
	printHistory(w, subs)
	return nil
}

func printHistory(w io.Writer, subs []repository.Submission) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "no submissions")
		return
	}
	for _, s := range subs {
		state := "incomplete"
		if s.Complete {
			state = "complete"
		}
		fmt.Fprintf(w, "%s  %s  %s\n", s.SubmittedAt.Local().Format("2006-01-02 15:04:05"), s.ID, state)
		for _, v := range s.Values {
			fmt.Fprintf(w, "  %-12s %-24s %s\n", v.Field, v.Display, v.Submitted)
		}
	}
}

func (a *app) seed(ctx context.Context, w io.Writer, formName string, n int, numbers mask.NumberFormatter) error {
	form, err := config.FindForm(a.forms, formName)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := testdata.Seed(ctx, a.submit, form, a.cfg.UI, numbers, n, rng); err != nil {
		return fmt.Errorf("seed %s: %w", form.Name, err)
	}
	a.log.Info().Str("form", form.Name).Int("count", n).Msg("seeded")
	fmt.Fprintf(w, "stored %d sample submissions of %s\n", n, form.Name)
	return nil
}

func (a *app) run(ctx context.Context, formName string, numbers mask.NumberFormatter) error {
	form, err := config.FindForm(a.forms, formName)
	if err != nil {
		return err
	}
	model, err := tui.New(ctx, tui.Options{
		Form:    form,
		UI:      a.cfg.UI,
		Numbers: numbers,
		Submit:  a.submit,
		Log:     a.log,
	})
	if err != nil {
		return err
	}
	if d, err := prefs.LoadDraft(form.Name); err != nil {
		a.log.Warn().Err(err).Msg("load draft")
	} else if d != nil {
		model.RestoreDraft(d)
	}
	model.SaveDraft = prefs.SaveDraft

	a.log.Info().Str("form", form.Name).Msg("starting")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
