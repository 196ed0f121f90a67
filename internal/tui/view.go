package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	descStyle    = lipgloss.NewStyle().Foreground(colorOverlay0)
	labelStyle   = lipgloss.NewStyle().Foreground(colorText)
	focusStyle   = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	statusStyle  = lipgloss.NewStyle().Foreground(colorOverlay0)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	historyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2).
			Padding(0, 1)
)

const defaultWidth = 80

func (a *App) View() string {
	width := a.width
	if width == 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.form.Name))
	if a.form.Description != "" {
		b.WriteString("  " + descStyle.Render(a.form.Description))
	}
	b.WriteString("\n\n")

	labelWidth := 0
	for _, fd := range a.form.Fields {
		labelWidth = max(labelWidth, lipgloss.Width(label(fd.Label, fd.Name)))
	}
	for i, fd := range a.form.Fields {
		marker, style := "  ", labelStyle
		if i == a.focus {
			marker, style = "▶ ", focusStyle
		}
		text := style.Width(labelWidth).Render(label(fd.Label, fd.Name))
		line := marker + text + "  " + a.inputs[i].View()
		if a.inputs[i].Complete() {
			line += " " + doneStyle.Render("✓")
		}
		b.WriteString(line + "\n")
	}

	if a.showHistory {
		b.WriteString("\n" + a.renderHistory(width) + "\n")
	}

	if a.status != "" {
		style := statusStyle
		if a.statusErr {
			style = errorStyle
		}
		flat := strings.ReplaceAll(a.status, "\n", " ")
		b.WriteString("\n" + style.Render(ansi.Truncate(flat, width, "…")) + "\n")
	}

	b.WriteString("\n" + a.help.View(helpKeys{form: a.keys, input: a.inputs[a.focus].KeyMap}))
	return b.String()
}

func label(text, name string) string {
	if text != "" {
		return text
	}
	return name
}

func (a *App) renderHistory(width int) string {
	inner := max(width-4, 10)
	lines := []string{titleStyle.Render("History")}
	if len(a.history) == 0 {
		lines = append(lines, descStyle.Render("(no submissions yet)"))
	}
	for _, sub := range a.history {
		mark := " "
		if sub.Complete {
			mark = "✓"
		}
		parts := make([]string, 0, len(sub.Values))
		for _, v := range sub.Values {
			parts = append(parts, fmt.Sprintf("%s=%s", v.Field, v.Display))
		}
		row := fmt.Sprintf("%s %s  %s", sub.SubmittedAt.Local().Format("2006-01-02 15:04"), mark, strings.Join(parts, "  "))
		lines = append(lines, ansi.Truncate(row, inner, "…"))
	}
	return historyStyle.Render(strings.Join(lines, "\n"))
}
