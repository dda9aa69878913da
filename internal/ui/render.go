// Package ui renders todos for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/steveyegge/weekdo/internal/schema"
	"github.com/steveyegge/weekdo/internal/todos"
)

var (
	dayStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle      = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	priorityStyles = map[string]lipgloss.Style{
		schema.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		schema.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		schema.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// DisableColor turns off all ANSI styling.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// OK prints a success line.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("✖ "+msg))
}

// TodoLine renders one todo on a single line.
func TodoLine(t schema.Todo) string {
	box := boxUnchecked
	title := t.Title
	if t.Completed {
		box = boxChecked
		title = doneStyle.Render(title)
	}

	pstyle, ok := priorityStyles[t.Priority]
	if !ok {
		pstyle = mutedStyle
	}

	return fmt.Sprintf("%s %s %s %s", box, idStyle.Render(fmt.Sprintf("#%d", t.ID)), title, pstyle.Render("["+t.Priority+"]"))
}

// TodoList prints todos grouped by day in week order. Days without todos are
// skipped; todos whose day is not a known name are listed last.
func TodoList(w io.Writer, list []schema.Todo) {
	if len(list) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Нет задач"))
		return
	}

	groups := make(map[int][]schema.Todo)
	for _, t := range list {
		idx := schema.DayIndex(t.Day)
		if idx < 0 {
			idx = len(schema.Days)
		}
		groups[idx] = append(groups[idx], t)
	}

	first := true
	for idx := 0; idx <= len(schema.Days); idx++ {
		group, ok := groups[idx]
		if !ok {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false

		heading := "?"
		if idx < len(schema.Days) {
			heading = schema.Days[idx]
		}
		fmt.Fprintln(w, dayStyle.Render(heading))
		for _, t := range group {
			fmt.Fprintln(w, "  "+TodoLine(t))
		}
	}
}

// TodoDetail prints every field of one todo in a bordered panel.
func TodoDetail(w io.Writer, t schema.Todo) {
	status := "открыта"
	if t.Completed {
		status = "выполнена"
	}
	desc := t.Description
	if desc == "" {
		desc = mutedStyle.Render("-")
	}

	lines := []string{
		TodoLine(t),
		"",
		"день:      " + t.Day,
		"описание:  " + desc,
		"статус:    " + status,
		"создана:   " + t.CreatedAt,
	}
	fmt.Fprintln(w, panelStyle.Render(strings.Join(lines, "\n")))
}

// StatsSummary prints totals and a per-day count.
func StatsSummary(w io.Writer, s todos.Stats) {
	fmt.Fprintln(w, progressBar(s.Completed, s.Total, 28))
	for _, day := range schema.Days {
		n := s.ByDay[day]
		line := fmt.Sprintf("%-12s %d", day, n)
		if n == 0 {
			line = mutedStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

func progressBar(done, total, width int) string {
	denom := total
	if denom == 0 {
		denom = 1
	}
	filled := done * width / denom
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}
