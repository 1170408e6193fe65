package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studymate/internal/config"
	"studymate/internal/notify"
	"studymate/internal/view"
)

const progressWidth = 20

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	faintStyle     = lipgloss.NewStyle().Faint(true)
	doneStyle      = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
	toastStyles = map[notify.Severity]lipgloss.Style{
		notify.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		notify.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		notify.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		notify.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("StudyMate"))
	b.WriteString("\n")
	b.WriteString(renderStats(m.snap.Stats))
	b.WriteString("\n")
	b.WriteString(m.renderQuery())
	b.WriteString("\n\n")

	b.WriteString(m.renderTaskList())

	if m.showTimeline {
		b.WriteString("\n---\nTimeline\n")
		b.WriteString(renderTimeline(m.snap.Timeline))
	}

	if m.mode == modeForm {
		b.WriteString("\n---\n")
		if id, editing := m.ctl.Editing(); editing {
			b.WriteString("Update task " + faintStyle.Render(id))
		} else {
			b.WriteString("Add task")
		}
		b.WriteString("\n\n")
		b.WriteString(m.renderForm())
	}

	if len(m.toasts) > 0 {
		b.WriteString("\n")
		for _, t := range m.toasts {
			b.WriteString(renderToast(t.note))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func renderStats(s view.Stats) string {
	filled := s.ProgressPercent * progressWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
	return fmt.Sprintf("Total %d • Done %d • %s %d%% • Today %d • Week %d • %s",
		s.Total, s.Completed, bar, s.ProgressPercent, s.Today, s.Week,
		overdueCount(s.Overdue))
}

func overdueCount(n int) string {
	label := fmt.Sprintf("Overdue %d", n)
	if n > 0 {
		return overdueStyle.Render(label)
	}
	return label
}

func (m Model) renderQuery() string {
	line := "Filter: " + string(m.snap.Filter)
	if m.mode == modeSearch {
		return line + " • Search: " + m.search.View()
	}
	if m.snap.Query != "" {
		line += fmt.Sprintf(" • Search: %q", m.snap.Query)
	}
	return line
}

func (m Model) renderTaskList() string {
	if len(m.snap.Rows) == 0 {
		return faintStyle.Render(view.NoTasksMessage) + "\n"
	}
	var b strings.Builder
	for i, r := range m.snap.Rows {
		t := r.Task
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		title := t.Title
		if t.Completed {
			checkbox = "[x]"
			title = doneStyle.Render(title)
		}

		extras := []string{t.Date}
		if t.Time != "" {
			extras = append(extras, t.Time)
		}
		prio := string(t.Priority)
		if st, ok := priorityStyles[prio]; ok {
			prio = st.Render(prio)
		}
		extras = append(extras, prio)
		if t.Category != "" {
			extras = append(extras, t.Category)
		}

		body := fmt.Sprintf("%s %s %s [%s]", cursor, checkbox, title, strings.Join(extras, " | "))
		if r.Overdue {
			body += " " + overdueStyle.Render("Overdue")
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func renderTimeline(tl view.Timeline) string {
	if tl.Empty() {
		return faintStyle.Render(view.NoTimelineMessage) + "\n"
	}
	var b strings.Builder
	for _, t := range tl.Entries {
		when := t.Date
		if t.Time != "" {
			when += " " + t.Time
		}
		line := fmt.Sprintf("%-16s %s", when, t.Title)
		if t.Category != "" {
			line += " " + faintStyle.Render("#"+t.Category)
		}
		if t.Completed {
			line = doneStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	var b strings.Builder
	for i, in := range m.form.inputs {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-26s : %s\n", prefix, fieldLabels[i], in.View()))
	}
	return b.String()
}

func renderToast(n notify.Notification) string {
	st, ok := toastStyles[n.Severity]
	if !ok {
		return n.String()
	}
	return st.Render(n.String())
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %q toggle • %s delete • %s search • %s filter • %s timeline • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete, k.Search, k.Filter, k.Timeline, k.Quit)
}
