package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"studymate/internal/lifecycle"
	"studymate/internal/task"
)

const (
	fieldTitle = iota
	fieldDate
	fieldTime
	fieldPriority
	fieldCategory
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"title",
	"date (YYYY-MM-DD)",
	"time (HH:MM, optional)",
	"priority (low/medium/high)",
	"category",
}

type formState struct {
	inputs [fieldCount]textinput.Model
	index  int
}

func newFormState() formState {
	var f formState
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = fieldLabels[i]
		ti.CharLimit = 256
		ti.Width = 40
		f.inputs[i] = ti
	}
	f.inputs[fieldPriority].SetValue(string(task.PriorityMedium))
	return f
}

func formFrom(v lifecycle.Form) formState {
	f := newFormState()
	f.inputs[fieldTitle].SetValue(v.Title)
	f.inputs[fieldDate].SetValue(v.Date)
	f.inputs[fieldTime].SetValue(v.Time)
	f.inputs[fieldPriority].SetValue(v.Priority)
	f.inputs[fieldCategory].SetValue(v.Category)
	return f
}

func (f formState) values() lifecycle.Form {
	return lifecycle.Form{
		Title:    f.inputs[fieldTitle].Value(),
		Date:     f.inputs[fieldDate].Value(),
		Time:     f.inputs[fieldTime].Value(),
		Priority: f.inputs[fieldPriority].Value(),
		Category: f.inputs[fieldCategory].Value(),
	}
}

func (f formState) last() bool {
	return f.index == fieldCount-1
}

func (f *formState) focus() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.index].Focus()
}

func (f *formState) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *formState) move(delta int) tea.Cmd {
	f.index = wrapIndex(f.index+delta, fieldCount)
	return f.focus()
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
