package ui

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"studymate/internal/config"
	"studymate/internal/lifecycle"
	"studymate/internal/notify"
	"studymate/internal/reminder"
	"studymate/internal/task"
	"studymate/internal/timeutil"
	"studymate/internal/view"
)

const toastLifetime = 3500 * time.Millisecond

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
	modeConfirmDelete
)

type reminderTickMsg time.Time

type toastExpiredMsg struct{ seq int }

type toast struct {
	seq  int
	note notify.Notification
}

type Model struct {
	ctl          *lifecycle.Controller
	sched        *reminder.Scheduler
	oracle       timeutil.Oracle
	cfg          config.Config
	interval     time.Duration
	snap         view.Snapshot
	cursor       int
	mode         mode
	form         formState
	search       textinput.Model
	pendingDel   *task.Task
	showTimeline bool
	toasts       []toast
	toastSeq     int
	status       string
}

func New(ctl *lifecycle.Controller, sched *reminder.Scheduler, oracle timeutil.Oracle, cfg config.Config) Model {
	interval, err := cfg.Interval()
	if err != nil {
		interval = reminder.DefaultInterval
	}

	si := textinput.New()
	si.Placeholder = "Search title or category"
	si.CharLimit = 128
	si.Width = 40

	m := Model{
		ctl:      ctl,
		sched:    sched,
		oracle:   oracle,
		cfg:      cfg,
		interval: interval,
		form:     newFormState(),
		search:   si,
		mode:     modeList,
		status:   fmt.Sprintf("Press '%s' to add, '%s' to search, '%s' to filter.", cfg.Keys.Add, cfg.Keys.Search, cfg.Keys.Filter),
	}
	m.refresh()
	return m
}

// Run starts the program. Log output goes to cfg.LogPath, or nowhere, while
// the terminal is in use.
func Run(ctl *lifecycle.Controller, sched *reminder.Scheduler, oracle timeutil.Oracle, cfg config.Config) error {
	if cfg.LogPath != "" {
		f, err := tea.LogToFile(cfg.LogPath, "studymate")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	program := tea.NewProgram(New(ctl, sched, oracle, cfg))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	// first scan runs right away, then every interval
	return func() tea.Msg { return reminderTickMsg(m.oracle.Now()) }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateFormMode(msg)
		case modeSearch:
			return m.updateSearchMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		w := msg.Width - 10
		if w < 10 {
			w = 10
		}
		m.search.Width = w
		for i := range m.form.inputs {
			m.form.inputs[i].Width = w
		}
	case reminderTickMsg:
		return m.checkReminders()
	case toastExpiredMsg:
		m.dropToast(msg.seq)
	}
	return m, nil
}

func (m Model) checkReminders() (tea.Model, tea.Cmd) {
	notes, err := m.sched.Check()
	if err != nil {
		log.Printf("Warning: reminder latch not saved: %v", err)
	}
	cmds := []tea.Cmd{tea.Tick(m.interval, func(t time.Time) tea.Msg { return reminderTickMsg(t) })}
	for _, n := range notes {
		cmds = append(cmds, m.pushToast(n))
	}
	if len(notes) > 0 {
		m.refresh()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.snap.Rows))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.snap.Rows))
	case m.cfg.Keys.Add:
		m.form = newFormState()
		m.form.inputs[fieldDate].SetValue(m.oracle.Now().Format(timeutil.DateLayout))
		m.mode = modeForm
		m.status = "New task: tab to move, enter on the last field to save, esc to cancel"
		cmd := m.form.focus()
		return m, cmd
	case m.cfg.Keys.Toggle:
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.apply(m.ctl.Dispatch(lifecycle.ToggleComplete(row.ID)))
	case m.cfg.Keys.Delete:
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pendingDel = &row
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", row.Title)
	case m.cfg.Keys.Edit:
		row, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		out := m.ctl.Dispatch(lifecycle.EditRequest(row.ID))
		if out.Status != lifecycle.StatusEditStarted {
			return m.apply(out)
		}
		m.form = formFrom(lifecycle.FormFromTask(out.Task))
		m.mode = modeForm
		m.status = "Editing: tab to move, enter on the last field to save, esc to cancel"
		focus := m.form.focus()
		model, cmd := m.apply(out)
		return model, tea.Batch(cmd, focus)
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.search.SetValue(m.ctl.Query())
		m.status = "Search: type to filter, enter to keep, esc to clear"
		cmd := m.search.Focus()
		return m, cmd
	case m.cfg.Keys.Filter:
		return m.apply(m.ctl.Dispatch(lifecycle.SetFilter(m.ctl.Filter().Next())))
	case m.cfg.Keys.Timeline:
		m.showTimeline = !m.showTimeline
	}
	return m, nil
}

func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "ctrl+c":
		m.form.blur()
		m.mode = modeList
		m.status = "Cancelled"
		return m.apply(m.ctl.Dispatch(lifecycle.CancelEdit()))
	case "tab", "down":
		cmd := m.form.move(1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.form.move(-1)
		return m, cmd
	case m.cfg.Keys.Confirm:
		if !m.form.last() {
			cmd := m.form.move(1)
			return m, cmd
		}
		out := m.ctl.Dispatch(lifecycle.Submit(m.form.values()))
		if out.Status != lifecycle.StatusInvalid {
			m.form.blur()
			m.mode = modeList
			m.status = ""
			m.form = newFormState()
		}
		model, cmd := m.apply(out)
		if out.Status == lifecycle.StatusCreated {
			mm := model.(Model)
			mm.cursor = mm.rowIndex(out.Task.ID)
			model = mm
		}
		return model, cmd
	default:
		var cmd tea.Cmd
		m.form.inputs[m.form.index], cmd = m.form.inputs[m.form.index].Update(msg)
		return m, cmd
	}
}

func (m Model) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel:
		m.search.SetValue("")
		m.search.Blur()
		m.mode = modeList
		m.status = "Search cleared"
		return m.apply(m.ctl.Dispatch(lifecycle.SetSearch("")))
	case m.cfg.Keys.Confirm:
		m.search.Blur()
		m.mode = modeList
		m.status = ""
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		model, _ := m.apply(m.ctl.Dispatch(lifecycle.SetSearch(m.search.Value())))
		return model, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.mode = modeList
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		pending := m.pendingDel
		m.mode = modeList
		m.pendingDel = nil
		if pending == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		m.status = ""
		return m.apply(m.ctl.Dispatch(lifecycle.Delete(pending.ID)))
	default:
		return m, nil
	}
}

// apply turns an outcome into toasts and re-derives the views.
func (m Model) apply(out lifecycle.Outcome) (tea.Model, tea.Cmd) {
	if out.Err != nil {
		log.Printf("%s: %v", out.Status, out.Err)
	}
	var cmds []tea.Cmd
	for _, n := range out.Notices {
		cmds = append(cmds, m.pushToast(n))
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) refresh() {
	m.snap = m.ctl.Views()
	m.cursor = clampCursor(m.cursor, len(m.snap.Rows))
}

func (m *Model) pushToast(n notify.Notification) tea.Cmd {
	m.toastSeq++
	seq := m.toastSeq
	m.toasts = append(m.toasts, toast{seq: seq, note: n})
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m *Model) dropToast(seq int) {
	kept := m.toasts[:0:0]
	for _, t := range m.toasts {
		if t.seq != seq {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m Model) selected() (task.Task, bool) {
	if len(m.snap.Rows) == 0 {
		return task.Task{}, false
	}
	return m.snap.Rows[clampCursor(m.cursor, len(m.snap.Rows))].Task, true
}

func (m Model) rowIndex(id string) int {
	for i, r := range m.snap.Rows {
		if r.Task.ID == id {
			return i
		}
	}
	return m.cursor
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
